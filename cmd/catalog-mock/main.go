package main

import (
	"flag"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-vault/internal/logging"
)

// movieEntry is one title in the mock data file, in catalog API field names.
type movieEntry struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Genre    string `json:"Genre"`
	Poster   string `json:"Poster"`
	ImdbID   string `json:"imdbID"`
	Plot     string `json:"Plot"`
	Director string `json:"Director"`
	Actors   string `json:"Actors"`
	Type     string `json:"Type"`
}

type searchHit struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type catalog struct {
	apiKey  string
	entries map[string]movieEntry
	ids     []string
	logger  zerolog.Logger
}

func main() {
	var (
		port    = flag.String("port", "9099", "port to listen on")
		data    = flag.String("data", "mock-catalog.json", "path to mock data file")
		apiKey  = flag.String("apikey", "", "required apikey value (empty accepts any)")
		logReqs = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	logger := logging.Component(logging.New(logging.Config{Format: "console"}), "catalog-mock")

	file, err := os.ReadFile(*data)
	if err != nil {
		logger.Fatal().Err(err).Msg("read mock data")
	}
	cat, err := newCatalog(file, *apiKey, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse mock data")
	}

	r := chi.NewRouter()
	if *logReqs {
		r.Use(middleware.Logger)
	}
	r.Get("/", cat.handle)

	addr := ":" + *port
	logger.Info().Str("addr", addr).Int("entries", len(cat.ids)).Msg("mock catalog listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newCatalog(raw []byte, apiKey string, logger zerolog.Logger) (*catalog, error) {
	var list []movieEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	c := &catalog{apiKey: apiKey, entries: make(map[string]movieEntry, len(list)), logger: logger}
	for _, e := range list {
		if e.Type == "" {
			e.Type = "movie"
		}
		c.entries[e.ImdbID] = e
		c.ids = append(c.ids, e.ImdbID)
	}
	sort.Strings(c.ids)
	return c, nil
}

func (c *catalog) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if c.apiKey != "" && q.Get("apikey") != c.apiKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"Response": "False", "Error": "Invalid API key!"})
		return
	}

	switch {
	case q.Get("i") != "":
		entry, ok := c.entries[q.Get("i")]
		if !ok {
			writeJSON(w, http.StatusOK, map[string]string{"Response": "False", "Error": "Incorrect IMDb ID."})
			return
		}
		writeJSON(w, http.StatusOK, struct {
			movieEntry
			Response string `json:"Response"`
		}{entry, "True"})

	case q.Get("s") != "":
		needle := strings.ToLower(q.Get("s"))
		hits := make([]searchHit, 0)
		for _, id := range c.ids {
			e := c.entries[id]
			if strings.Contains(strings.ToLower(e.Title), needle) {
				hits = append(hits, searchHit{Title: e.Title, Year: e.Year, ImdbID: e.ImdbID, Type: e.Type, Poster: e.Poster})
			}
		}
		if len(hits) == 0 {
			writeJSON(w, http.StatusOK, map[string]string{"Response": "False", "Error": "Movie not found!"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"Search": hits, "Response": "True"})

	default:
		writeJSON(w, http.StatusOK, map[string]string{"Response": "False", "Error": "Something went wrong."})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
