package catalog

import (
	"context"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Clark-Hu/movie-vault/internal/domain"
)

// TrendingTerms are the popular titles sampled for the dashboard.
var TrendingTerms = []string{
	"Oppenheimer", "Barbie", "Dune", "Spider-Man", "John Wick",
	"Avatar", "Guardians", "Black Panther", "Top Gun", "Batman",
	"Mission Impossible", "Mario", "Fast X", "Aquaman", "Wonka",
}

// Trending assembles the dashboard's trending list from random title searches.
type Trending struct {
	client  Client
	terms   []string
	picks   int
	perTerm int

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTrending builds a loader that samples picks terms and keeps at most
// perTerm results from each. A nil rnd seeds from the clock.
func NewTrending(client Client, picks, perTerm int, rnd *rand.Rand) *Trending {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	return &Trending{
		client:  client,
		terms:   TrendingTerms,
		picks:   picks,
		perTerm: perTerm,
		rnd:     rnd,
	}
}

// Load searches the sampled terms, de-duplicates by catalog id, orders the
// results newest year first and hydrates each into a movie. Failed lookups are
// dropped.
func (t *Trending) Load(ctx context.Context) []*domain.Movie {
	terms := t.sample()

	batches := make([][]SearchResult, len(terms))
	var g errgroup.Group
	for i, term := range terms {
		g.Go(func() error {
			results := t.client.Search(ctx, term)
			if len(results) > t.perTerm {
				results = results[:t.perTerm]
			}
			batches[i] = results
			return nil
		})
	}
	_ = g.Wait()

	return Hydrate(ctx, t.client, MergeResults(batches...))
}

func (t *Trending) sample() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	terms := slices.Clone(t.terms)
	t.rnd.Shuffle(len(terms), func(i, j int) { terms[i], terms[j] = terms[j], terms[i] })
	if t.picks < len(terms) {
		terms = terms[:t.picks]
	}
	return terms
}

// MergeResults concatenates batches, keeps the first occurrence of each catalog
// id and stable-sorts by release year, newest first.
func MergeResults(batches ...[]SearchResult) []SearchResult {
	seen := make(map[string]struct{})
	merged := make([]SearchResult, 0)
	for _, batch := range batches {
		for _, r := range batch {
			if _, dup := seen[r.CatalogID]; dup {
				continue
			}
			seen[r.CatalogID] = struct{}{}
			merged = append(merged, r)
		}
	}
	slices.SortStableFunc(merged, func(a, b SearchResult) int {
		return domain.LeadingYear(b.Year) - domain.LeadingYear(a.Year)
	})
	return merged
}

// Hydrate fetches full metadata for every result concurrently and builds
// movies in result order, skipping lookups that returned no data.
func Hydrate(ctx context.Context, client Client, results []SearchResult) []*domain.Movie {
	slots := make([]*domain.Movie, len(results))
	var g errgroup.Group
	for i, r := range results {
		g.Go(func() error {
			if md := client.GetByID(ctx, r.CatalogID); md != nil {
				slots[i] = domain.NewMovieFromMetadata(*md)
			}
			return nil
		})
	}
	_ = g.Wait()

	movies := make([]*domain.Movie, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			movies = append(movies, m)
		}
	}
	return movies
}

// SearchMovies runs a title search and hydrates every hit.
func SearchMovies(ctx context.Context, client Client, query string) []*domain.Movie {
	return Hydrate(ctx, client, client.Search(ctx, query))
}
