package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxStars = 5

// Review is one user's rating and text for a movie. It is immutable once created.
type Review struct {
	movieID   string
	userName  string
	text      string
	rating    int
	createdAt time.Time
	id        string
}

// NewReview validates the rating and stamps the review with a creation time and id.
func NewReview(movieID, userName, text string, rating int) (*Review, error) {
	if err := validateReviewRating(rating); err != nil {
		return nil, err
	}
	return &Review{
		movieID:   movieID,
		userName:  userName,
		text:      text,
		rating:    rating,
		createdAt: time.Now().UTC(),
		id:        uuid.NewString(),
	}, nil
}

// ReviewStars converts a submitted rating to whole stars, rounding half up.
// NaN and values outside [1,5] are rejected.
func ReviewStars(value float64) (int, error) {
	if math.IsNaN(value) || value < 1 || value > maxStars {
		return 0, newValidationError("rating", "Rating must be a number between 1 and 5")
	}
	return roundHalfUp(value), nil
}

func validateReviewRating(rating int) error {
	if rating < 1 || rating > maxStars {
		return newValidationError("rating", "Rating must be a number between 1 and 5")
	}
	return nil
}

func (r *Review) MovieID() string      { return r.movieID }
func (r *Review) UserName() string     { return r.userName }
func (r *Review) Text() string         { return r.text }
func (r *Review) Rating() int          { return r.rating }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
func (r *Review) ID() string           { return r.id }

// Stars renders the rating as a fixed-width five glyph string.
func (r *Review) Stars() string {
	return stars(r.rating)
}

// Record converts the review to its serialized shape.
func (r *Review) Record() ReviewRecord {
	return ReviewRecord{
		MovieID:  r.movieID,
		UserName: r.userName,
		Text:     r.text,
		Rating:   r.rating,
		Date:     r.createdAt,
		ID:       r.id,
	}
}

// ReviewFromRecord restores a review, re-validating its rating.
func ReviewFromRecord(rec ReviewRecord) (*Review, error) {
	if err := validateReviewRating(rec.Rating); err != nil {
		return nil, err
	}
	return &Review{
		movieID:   rec.MovieID,
		userName:  rec.UserName,
		text:      rec.Text,
		rating:    rec.Rating,
		createdAt: rec.Date,
		id:        rec.ID,
	}, nil
}

// stars clamps n into [0,5] so out-of-range restored ratings still render.
func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > maxStars {
		n = maxStars
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", maxStars-n)
}
