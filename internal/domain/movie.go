package domain

import (
	"math"
	"net/url"
	"strings"
	"time"
)

const (
	defaultPlot   = "No plot available."
	defaultPerson = "Unknown"

	// posterAbsent is the catalog's marker for a missing poster.
	posterAbsent = "N/A"

	trailerSearchURL = "https://www.youtube.com/results?search_query="
)

// Metadata is the full catalog record for one movie.
type Metadata struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	Genre     string `json:"genre"`
	Poster    string `json:"poster"`
	CatalogID string `json:"catalogId"`
	Plot      string `json:"plot"`
	Director  string `json:"director"`
	Actors    string `json:"actors"`
}

// Movie is a catalog entry plus the reviews and rating its owner attached to it.
type Movie struct {
	Title     string
	Year      string
	Genre     string
	Poster    string
	CatalogID string
	Plot      string
	Director  string
	Actors    string
	DateAdded time.Time

	variant Variant
	rating  int
	reviews []*Review
}

// NewMovie creates a movie with no reviews and a zero rating. The genre is
// classified and only its first token is kept as the label.
func NewMovie(title, year, genre, poster, catalogID, plot, director, actors string) *Movie {
	variant, label := Classify(genre)
	return &Movie{
		Title:     title,
		Year:      year,
		Genre:     label,
		Poster:    poster,
		CatalogID: catalogID,
		Plot:      plot,
		Director:  director,
		Actors:    actors,
		DateAdded: time.Now().UTC(),
		variant:   variant,
	}
}

// NewMovieFromMetadata builds a movie from catalog metadata, filling blanks
// for plot, director and cast.
func NewMovieFromMetadata(md Metadata) *Movie {
	return NewMovie(
		md.Title,
		md.Year,
		md.Genre,
		md.Poster,
		md.CatalogID,
		orDefault(md.Plot, defaultPlot),
		orDefault(md.Director, defaultPerson),
		orDefault(md.Actors, defaultPerson),
	)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// Variant returns the genre variant selected at construction.
func (m *Movie) Variant() Variant { return m.variant }

// Display returns the variant's styling metadata.
func (m *Movie) Display() Display { return m.variant.Display() }

// Rating returns the aggregate rating.
func (m *Movie) Rating() int { return m.rating }

// SetRating stores value rounded half up. It is overwritten by the next AddReview.
func (m *Movie) SetRating(value float64) error {
	if math.IsNaN(value) || value < 0 || value > maxStars {
		return newValidationError("rating", "Rating must be between 0 and 5")
	}
	m.rating = roundHalfUp(value)
	return nil
}

// AddReview appends the review and recomputes the aggregate rating.
func (m *Movie) AddReview(r *Review) {
	m.reviews = append(m.reviews, r)
	m.rating = roundHalfUp(m.meanRating())
}

// Reviews returns the reviews in submission order.
func (m *Movie) Reviews() []*Review {
	out := make([]*Review, len(m.reviews))
	copy(out, m.reviews)
	return out
}

// ReviewCount returns the number of reviews.
func (m *Movie) ReviewCount() int { return len(m.reviews) }

// AverageRating returns the mean review rating rounded to one decimal, or 0.
func (m *Movie) AverageRating() float64 {
	return roundToOneDecimal(m.meanRating())
}

func (m *Movie) meanRating() float64 {
	if len(m.reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range m.reviews {
		sum += r.rating
	}
	return float64(sum) / float64(len(m.reviews))
}

// Stars renders the aggregate rating as five glyphs.
func (m *Movie) Stars() string {
	return stars(m.rating)
}

// HasPoster reports whether the poster reference points at an image.
func (m *Movie) HasPoster() bool {
	return m.Poster != "" && m.Poster != posterAbsent
}

// TrailerURL returns a video search link for the movie's trailer.
func (m *Movie) TrailerURL() string {
	return trailerSearchURL + url.QueryEscape(m.Title+" "+m.Year+" trailer")
}

// ReleaseYear parses the leading digits of Year, returning 0 when there are none.
func (m *Movie) ReleaseYear() int {
	return LeadingYear(m.Year)
}

// LeadingYear parses the leading decimal digits of a catalog year such as
// "2010" or "2010–2012".
func LeadingYear(year string) int {
	n := 0
	for _, c := range strings.TrimSpace(year) {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// Record converts the movie and its reviews to the serialized shape.
func (m *Movie) Record() MovieRecord {
	reviews := make([]ReviewRecord, 0, len(m.reviews))
	for _, r := range m.reviews {
		reviews = append(reviews, r.Record())
	}
	return MovieRecord{
		Title:      m.Title,
		Year:       m.Year,
		Genre:      m.Genre,
		Poster:     m.Poster,
		CatalogID:  m.CatalogID,
		Plot:       m.Plot,
		Director:   m.Director,
		Actors:     m.Actors,
		UserRating: m.rating,
		Reviews:    reviews,
		DateAdded:  m.DateAdded,
	}
}

// MovieFromRecord restores a movie. The variant is re-derived from the stored
// genre and the rating is restored as stored, without bounds checks.
func MovieFromRecord(rec MovieRecord) (*Movie, error) {
	m := NewMovieFromMetadata(Metadata{
		Title:     rec.Title,
		Year:      rec.Year,
		Genre:     rec.Genre,
		Poster:    rec.Poster,
		CatalogID: rec.CatalogID,
		Plot:      rec.Plot,
		Director:  rec.Director,
		Actors:    rec.Actors,
	})
	m.DateAdded = rec.DateAdded
	m.rating = rec.UserRating
	m.reviews = make([]*Review, 0, len(rec.Reviews))
	for _, rr := range rec.Reviews {
		review, err := ReviewFromRecord(rr)
		if err != nil {
			return nil, err
		}
		m.reviews = append(m.reviews, review)
	}
	return m, nil
}

func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}

func roundToOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10.0
}
