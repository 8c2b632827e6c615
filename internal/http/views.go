package httpserver

import (
	"time"

	"github.com/Clark-Hu/movie-vault/internal/domain"
)

type reviewView struct {
	ID       string    `json:"id"`
	UserName string    `json:"userName"`
	Text     string    `json:"text"`
	Rating   int       `json:"rating"`
	Stars    string    `json:"stars"`
	Date     time.Time `json:"date"`
}

type movieView struct {
	CatalogID     string         `json:"catalogId"`
	Title         string         `json:"title"`
	Year          string         `json:"year"`
	Genre         string         `json:"genre"`
	Poster        string         `json:"poster,omitempty"`
	Plot          string         `json:"plot"`
	Director      string         `json:"director"`
	Actors        string         `json:"actors"`
	Display       domain.Display `json:"display"`
	TrailerURL    string         `json:"trailerUrl"`
	Rating        int            `json:"rating"`
	Stars         string         `json:"stars"`
	AverageRating float64        `json:"averageRating"`
	ReviewCount   int            `json:"reviewCount"`
	InCollection  bool           `json:"inCollection"`
	DateAdded     *time.Time     `json:"dateAdded,omitempty"`
	Reviews       []reviewView   `json:"reviews,omitempty"`
}

type listResponse struct {
	Filter  string      `json:"filter,omitempty"`
	Message string      `json:"message,omitempty"`
	Items   []movieView `json:"items"`
}

type profileResponse struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	JoinDate time.Time    `json:"joinDate"`
	Stats    domain.Stats `json:"stats"`
}

type authResponse struct {
	domain.Result
	Profile *profileResponse `json:"profile,omitempty"`
}

func toProfile(u *domain.User) profileResponse {
	return profileResponse{
		Name:     u.Name,
		Email:    u.Email(),
		JoinDate: u.JoinDate,
		Stats:    u.Stats(),
	}
}

// toMovieView renders a movie. Owned movies carry their date added and,
// with withReviews, the full review list.
func toMovieView(m *domain.Movie, owned, withReviews bool) movieView {
	v := movieView{
		CatalogID:     m.CatalogID,
		Title:         m.Title,
		Year:          m.Year,
		Genre:         m.Genre,
		Plot:          m.Plot,
		Director:      m.Director,
		Actors:        m.Actors,
		Display:       m.Display(),
		TrailerURL:    m.TrailerURL(),
		Rating:        m.Rating(),
		Stars:         m.Stars(),
		AverageRating: m.AverageRating(),
		ReviewCount:   m.ReviewCount(),
		InCollection:  owned,
	}
	if m.HasPoster() {
		v.Poster = m.Poster
	}
	if owned {
		added := m.DateAdded
		v.DateAdded = &added
	}
	if withReviews {
		v.Reviews = make([]reviewView, 0, m.ReviewCount())
		for _, r := range m.Reviews() {
			v.Reviews = append(v.Reviews, reviewView{
				ID:       r.ID(),
				UserName: r.UserName(),
				Text:     r.Text(),
				Rating:   r.Rating(),
				Stars:    r.Stars(),
				Date:     r.CreatedAt(),
			})
		}
	}
	return v
}

func toMovieViews(movies []*domain.Movie, owned func(id string) bool) []movieView {
	out := make([]movieView, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieView(m, owned(m.CatalogID), false))
	}
	return out
}
