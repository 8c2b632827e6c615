package domain

import "time"

// User owns a collection of movies. Persistence is handled by the caller.
type User struct {
	Name     string
	JoinDate time.Time

	email      string
	password   string
	collection []*Movie
}

// Stats summarizes a user's collection.
type Stats struct {
	TotalMovies    int            `json:"totalMovies"`
	ReviewedMovies int            `json:"reviewedMovies"`
	TopGenre       string         `json:"topGenre"`
	Genres         map[string]int `json:"genres"`
}

// NewUser creates a user with an empty collection.
func NewUser(name, email, password string) *User {
	return &User{
		Name:     name,
		JoinDate: time.Now().UTC(),
		email:    email,
		password: password,
	}
}

// Email returns the account key.
func (u *User) Email() string { return u.email }

// CheckPassword compares attempt with the stored password.
func (u *User) CheckPassword(attempt string) bool {
	return attempt == u.password
}

// Collection returns the owned movies in insertion order.
func (u *User) Collection() []*Movie {
	out := make([]*Movie, len(u.collection))
	copy(out, u.collection)
	return out
}

// AddMovie appends movie unless one with the same catalog id is already owned.
func (u *User) AddMovie(movie *Movie) Result {
	if u.indexOf(movie.CatalogID) >= 0 {
		return fail("Movie is already in your collection!")
	}
	u.collection = append(u.collection, movie)
	return ok("\"%s\" added to your collection!", movie.Title)
}

// RemoveMovie removes the movie with catalogID.
func (u *User) RemoveMovie(catalogID string) Result {
	idx := u.indexOf(catalogID)
	if idx < 0 {
		return fail("Movie not found in your collection.")
	}
	removed := u.collection[idx]
	u.collection = append(u.collection[:idx], u.collection[idx+1:]...)
	return ok("\"%s\" removed from collection.", removed.Title)
}

// Movie looks up an owned movie by catalog id.
func (u *User) Movie(catalogID string) (*Movie, bool) {
	idx := u.indexOf(catalogID)
	if idx < 0 {
		return nil, false
	}
	return u.collection[idx], true
}

// HasMovie reports whether catalogID is in the collection.
func (u *User) HasMovie(catalogID string) bool {
	return u.indexOf(catalogID) >= 0
}

func (u *User) indexOf(catalogID string) int {
	for i, m := range u.collection {
		if m.CatalogID == catalogID {
			return i
		}
	}
	return -1
}

// Stats counts movies, reviewed movies and genres. Ties for the top genre go to
// the genre encountered first.
func (u *User) Stats() Stats {
	stats := Stats{
		TotalMovies: len(u.collection),
		TopGenre:    "None",
		Genres:      make(map[string]int),
	}
	order := make([]string, 0)
	for _, m := range u.collection {
		if m.ReviewCount() > 0 {
			stats.ReviewedMovies++
		}
		if _, seen := stats.Genres[m.Genre]; !seen {
			order = append(order, m.Genre)
		}
		stats.Genres[m.Genre]++
	}
	best := 0
	for _, genre := range order {
		if n := stats.Genres[genre]; n > best {
			best = n
			stats.TopGenre = genre
		}
	}
	return stats
}

// FilterByGenre selects movies for a genre filter value.
func (u *User) FilterByGenre(genre string) []*Movie {
	return FilterMovies(u.collection, genre)
}

// FilterMovies applies a genre filter: AllGenres keeps everything, OtherGenre
// keeps movies outside the four named genres, anything else is an exact match.
func FilterMovies(movies []*Movie, genre string) []*Movie {
	out := make([]*Movie, 0, len(movies))
	for _, m := range movies {
		switch {
		case genre == AllGenres:
			out = append(out, m)
		case genre == OtherGenre:
			if !IsNamedGenre(m.Genre) {
				out = append(out, m)
			}
		case m.Genre == genre:
			out = append(out, m)
		}
	}
	return out
}

// Record converts the user and its collection to the serialized shape.
func (u *User) Record() UserRecord {
	collection := make([]MovieRecord, 0, len(u.collection))
	for _, m := range u.collection {
		collection = append(collection, m.Record())
	}
	return UserRecord{
		Name:       u.Name,
		Email:      u.email,
		Password:   u.password,
		Collection: collection,
		JoinDate:   u.JoinDate,
	}
}

// UserFromRecord restores a user and its movie graph.
func UserFromRecord(rec UserRecord) (*User, error) {
	u := &User{
		Name:       rec.Name,
		JoinDate:   rec.JoinDate,
		email:      rec.Email,
		password:   rec.Password,
		collection: make([]*Movie, 0, len(rec.Collection)),
	}
	for _, mr := range rec.Collection {
		m, err := MovieFromRecord(mr)
		if err != nil {
			return nil, err
		}
		u.collection = append(u.collection, m)
	}
	return u, nil
}
