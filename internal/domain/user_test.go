package domain

import (
	"reflect"
	"testing"
)

func collectionIDs(movies []*Movie) []string {
	ids := make([]string, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.CatalogID)
	}
	return ids
}

func TestUserAddMovieRejectsDuplicates(t *testing.T) {
	u := NewUser("Ana", "a@x.com", "pw1")

	res := u.AddMovie(newTestMovie("tt1", "Action"))
	if !res.Success || res.Message != `"Movie tt1" added to your collection!` {
		t.Fatalf("first add = %+v", res)
	}

	res = u.AddMovie(newTestMovie("tt1", "Drama"))
	if res.Success || res.Message != "Movie is already in your collection!" {
		t.Fatalf("second add = %+v", res)
	}
	if got := len(u.Collection()); got != 1 {
		t.Fatalf("collection size = %d, want 1", got)
	}
}

func TestUserRemoveMovie(t *testing.T) {
	u := NewUser("Ana", "a@x.com", "pw1")

	res := u.RemoveMovie("tt1")
	if res.Success || res.Message != "Movie not found in your collection." {
		t.Fatalf("remove on empty = %+v", res)
	}

	u.AddMovie(newTestMovie("tt1", "Action"))
	u.AddMovie(newTestMovie("tt2", "Comedy"))
	res = u.RemoveMovie("tt1")
	if !res.Success || res.Message != `"Movie tt1" removed from collection.` {
		t.Fatalf("remove = %+v", res)
	}
	if ids := collectionIDs(u.Collection()); !reflect.DeepEqual(ids, []string{"tt2"}) {
		t.Fatalf("collection = %v", ids)
	}
	if _, ok := u.Movie("tt1"); ok {
		t.Fatalf("tt1 should be gone")
	}
	if m, ok := u.Movie("tt2"); !ok || m.Title != "Movie tt2" {
		t.Fatalf("Movie(tt2) = %v, %v", m, ok)
	}
}

func TestUserCheckPassword(t *testing.T) {
	u := NewUser("Ana", "a@x.com", "pw1")
	if !u.CheckPassword("pw1") || u.CheckPassword("wrong") || u.CheckPassword("") {
		t.Fatalf("CheckPassword mismatch")
	}
}

func TestUserStats(t *testing.T) {
	u := NewUser("Ana", "a@x.com", "pw1")
	if s := u.Stats(); s.TotalMovies != 0 || s.TopGenre != "None" || len(s.Genres) != 0 {
		t.Fatalf("empty stats = %+v", s)
	}

	u.AddMovie(newTestMovie("tt1", "Drama"))
	u.AddMovie(newTestMovie("tt2", "Action"))
	u.AddMovie(newTestMovie("tt3", "Action"))
	u.AddMovie(newTestMovie("tt4", "Drama"))
	m, _ := u.Movie("tt2")
	m.AddReview(mustReview(t, "tt2", 4))

	s := u.Stats()
	if s.TotalMovies != 4 || s.ReviewedMovies != 1 {
		t.Fatalf("stats counts = %+v", s)
	}
	if s.TopGenre != "Drama" {
		t.Fatalf("TopGenre = %q, want first-encountered Drama on tie", s.TopGenre)
	}
	if !reflect.DeepEqual(s.Genres, map[string]int{"Drama": 2, "Action": 2}) {
		t.Fatalf("Genres = %v", s.Genres)
	}
}

func TestUserFilterByGenre(t *testing.T) {
	u := NewUser("Ana", "a@x.com", "pw1")
	u.AddMovie(newTestMovie("tt1", "Action"))
	u.AddMovie(newTestMovie("tt2", "Western"))
	u.AddMovie(newTestMovie("tt3", "Comedy"))
	u.AddMovie(newTestMovie("tt4", ""))
	u.AddMovie(newTestMovie("tt5", "Action, Sci-Fi"))

	tests := []struct {
		filter string
		want   []string
	}{
		{"all", []string{"tt1", "tt2", "tt3", "tt4", "tt5"}},
		{"Other", []string{"tt2", "tt4"}},
		{"Action", []string{"tt1", "tt5"}},
		{"Horror", []string{}},
		{"Western", []string{"tt2"}},
	}
	for _, tt := range tests {
		got := collectionIDs(u.FilterByGenre(tt.filter))
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("FilterByGenre(%q) = %v, want %v", tt.filter, got, tt.want)
		}
	}
}

func TestUserRecordRoundTrip(t *testing.T) {
	u := NewUser("Ana", "a@x.com", "pw1")
	u.AddMovie(newTestMovie("tt1", "Action"))
	u.AddMovie(newTestMovie("tt2", "Comedy"))
	m, _ := u.Movie("tt1")
	m.AddReview(mustReview(t, "tt1", 3))
	m.AddReview(mustReview(t, "tt1", 4))

	rec := u.Record()
	if rec.Email != "a@x.com" || rec.Password != "pw1" || len(rec.Collection) != 2 {
		t.Fatalf("record = %+v", rec)
	}

	restored, err := UserFromRecord(rec)
	if err != nil {
		t.Fatalf("UserFromRecord: %v", err)
	}
	if restored.Email() != u.Email() || !restored.JoinDate.Equal(u.JoinDate) || restored.Name != "Ana" {
		t.Fatalf("restored user differs")
	}
	if !restored.CheckPassword("pw1") {
		t.Fatalf("password not restored")
	}
	if !reflect.DeepEqual(restored.Record(), rec) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", restored.Record(), rec)
	}
	rm, _ := restored.Movie("tt1")
	if rm.Rating() != 4 || rm.AverageRating() != 3.5 || rm.ReviewCount() != 2 {
		t.Fatalf("restored movie ratings = %d / %v", rm.Rating(), rm.AverageRating())
	}
}
