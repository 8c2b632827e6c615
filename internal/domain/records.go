package domain

import "time"

// UserRecord is the serialized shape of a user, keyed by email in storage.
type UserRecord struct {
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Password   string        `json:"password"`
	Collection []MovieRecord `json:"collection"`
	JoinDate   time.Time     `json:"joinDate"`
}

// MovieRecord is the serialized shape of a movie.
type MovieRecord struct {
	Title      string         `json:"title"`
	Year       string         `json:"year"`
	Genre      string         `json:"genre"`
	Poster     string         `json:"poster"`
	CatalogID  string         `json:"catalogId"`
	Plot       string         `json:"plot"`
	Director   string         `json:"director"`
	Actors     string         `json:"actors"`
	UserRating int            `json:"userRating"`
	Reviews    []ReviewRecord `json:"reviews"`
	DateAdded  time.Time      `json:"dateAdded"`
}

// ReviewRecord is the serialized shape of a review.
type ReviewRecord struct {
	MovieID  string    `json:"movieId"`
	UserName string    `json:"userName"`
	Text     string    `json:"text"`
	Rating   int       `json:"rating"`
	Date     time.Time `json:"date"`
	ID       string    `json:"id"`
}
