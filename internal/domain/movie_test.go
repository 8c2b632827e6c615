package domain

import (
	"math"
	"strings"
	"testing"
)

func newTestMovie(id, genre string) *Movie {
	return NewMovie("Movie "+id, "2010", genre, "N/A", id, "plot", "director", "actors")
}

func mustReview(t testing.TB, movieID string, rating int) *Review {
	t.Helper()
	r, err := NewReview(movieID, "Ana", "great", rating)
	if err != nil {
		t.Fatalf("NewReview(%d): %v", rating, err)
	}
	return r
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw       string
		want      Variant
		wantLabel string
	}{
		{"Action", VariantAction, "Action"},
		{"Action, Adventure", VariantAction, "Action"},
		{"  Comedy ,Romance", VariantComedy, "Comedy"},
		{"Drama", VariantDrama, "Drama"},
		{"Horror, Thriller", VariantHorror, "Horror"},
		{"action", VariantOther, "action"},
		{"Sci-Fi, Action", VariantOther, "Sci-Fi"},
		{"", VariantOther, "Other"},
		{" , Drama", VariantOther, "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, label := Classify(tt.raw)
			if got != tt.want || label != tt.wantLabel {
				t.Fatalf("Classify(%q) = (%v, %q), want (%v, %q)", tt.raw, got, label, tt.want, tt.wantLabel)
			}
		})
	}
}

func TestVariantDisplay(t *testing.T) {
	tests := []struct {
		genre string
		want  Display
	}{
		{"Action", Display{"action-card", "action", "🔥"}},
		{"Comedy", Display{"comedy-card", "comedy", "😂"}},
		{"Drama", Display{"drama-card", "drama", "🎭"}},
		{"Horror", Display{"horror-card", "horror", "👻"}},
		{"Western", Display{"other-card", "other", "📽️"}},
	}
	for _, tt := range tests {
		m := newTestMovie("tt1", tt.genre)
		if got := m.Display(); got != tt.want {
			t.Fatalf("Display() for %s = %+v, want %+v", tt.genre, got, tt.want)
		}
	}
}

func TestNewMovieFromMetadataDefaults(t *testing.T) {
	m := NewMovieFromMetadata(Metadata{Title: "Heat", Year: "1995", Genre: "Crime, Drama", CatalogID: "tt0113277"})
	if m.Plot != "No plot available." {
		t.Fatalf("Plot = %q", m.Plot)
	}
	if m.Director != "Unknown" || m.Actors != "Unknown" {
		t.Fatalf("Director/Actors = %q/%q, want Unknown", m.Director, m.Actors)
	}
	if m.Genre != "Crime" || m.Variant() != VariantOther {
		t.Fatalf("Genre = %q variant %v", m.Genre, m.Variant())
	}
	if m.Rating() != 0 || m.ReviewCount() != 0 {
		t.Fatalf("new movie should have no rating or reviews")
	}
}

func TestSetRating(t *testing.T) {
	tests := []struct {
		value   float64
		want    int
		wantErr bool
	}{
		{0, 0, false},
		{2.4, 2, false},
		{2.5, 3, false},
		{5, 5, false},
		{-0.1, 0, true},
		{5.01, 0, true},
		{math.NaN(), 0, true},
	}
	for _, tt := range tests {
		m := newTestMovie("tt1", "Drama")
		err := m.SetRating(tt.value)
		if tt.wantErr {
			if err == nil || !IsValidationError(err) {
				t.Fatalf("SetRating(%v) error = %v, want ValidationError", tt.value, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SetRating(%v) unexpected error: %v", tt.value, err)
		}
		if m.Rating() != tt.want {
			t.Fatalf("SetRating(%v) rating = %d, want %d", tt.value, m.Rating(), tt.want)
		}
	}
}

func TestAddReviewAggregates(t *testing.T) {
	tests := []struct {
		name     string
		ratings  []int
		wantAgg  int
		wantMean float64
	}{
		{"none", nil, 0, 0},
		{"three-four", []int{3, 4}, 4, 3.5},
		{"thirds", []int{1, 2, 2}, 2, 1.7},
		{"two-three", []int{2, 3}, 3, 2.5},
		{"all-fives", []int{5, 5, 5}, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMovie("tt1", "Action")
			for _, r := range tt.ratings {
				m.AddReview(mustReview(t, "tt1", r))
			}
			if m.Rating() != tt.wantAgg {
				t.Fatalf("Rating() = %d, want %d", m.Rating(), tt.wantAgg)
			}
			if math.Abs(m.AverageRating()-tt.wantMean) > 1e-9 {
				t.Fatalf("AverageRating() = %v, want %v", m.AverageRating(), tt.wantMean)
			}
		})
	}
}

func TestAddReviewOverwritesExplicitRating(t *testing.T) {
	m := newTestMovie("tt1", "Action")
	if err := m.SetRating(1); err != nil {
		t.Fatalf("SetRating: %v", err)
	}
	m.AddReview(mustReview(t, "tt1", 5))
	if m.Rating() != 5 {
		t.Fatalf("Rating() = %d, want 5", m.Rating())
	}
	if m.Stars() != "★★★★★" {
		t.Fatalf("Stars() = %q", m.Stars())
	}
}

func TestMoviePosterAndTrailer(t *testing.T) {
	m := newTestMovie("tt1", "Action")
	if m.HasPoster() {
		t.Fatalf("N/A poster should not count as a poster")
	}
	m.Poster = "https://img.example/p.jpg"
	if !m.HasPoster() {
		t.Fatalf("expected poster")
	}
	url := m.TrailerURL()
	if !strings.HasPrefix(url, "https://www.youtube.com/results?search_query=") || !strings.Contains(url, "Movie+tt1+2010+trailer") {
		t.Fatalf("TrailerURL() = %q", url)
	}
}

func TestLeadingYear(t *testing.T) {
	cases := map[string]int{"2010": 2010, "2010–2012": 2010, "": 0, "N/A": 0, " 1999 ": 1999}
	for in, want := range cases {
		if got := LeadingYear(in); got != want {
			t.Fatalf("LeadingYear(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestMovieRecordRestoresRawRating(t *testing.T) {
	m := newTestMovie("tt1", "Horror, Mystery")
	m.AddReview(mustReview(t, "tt1", 3))
	m.AddReview(mustReview(t, "tt1", 4))

	rec := m.Record()
	if rec.Genre != "Horror" || rec.UserRating != 4 || len(rec.Reviews) != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	rec.UserRating = 9
	restored, err := MovieFromRecord(rec)
	if err != nil {
		t.Fatalf("MovieFromRecord: %v", err)
	}
	if restored.Rating() != 9 {
		t.Fatalf("restored rating = %d, want raw 9", restored.Rating())
	}
	if restored.Variant() != VariantHorror {
		t.Fatalf("restored variant = %v", restored.Variant())
	}
	if !restored.DateAdded.Equal(m.DateAdded) {
		t.Fatalf("DateAdded not restored")
	}
	got := restored.Reviews()
	if len(got) != 2 || got[0].ID() != m.Reviews()[0].ID() || got[1].Rating() != 4 {
		t.Fatalf("reviews not restored: %+v", got)
	}
}

func TestMovieFromRecordRejectsInvalidReview(t *testing.T) {
	rec := newTestMovie("tt1", "Drama").Record()
	rec.Reviews = []ReviewRecord{{MovieID: "tt1", Rating: 0}}
	if _, err := MovieFromRecord(rec); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
