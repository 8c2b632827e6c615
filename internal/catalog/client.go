package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Clark-Hu/movie-vault/internal/domain"
	"github.com/Clark-Hu/movie-vault/internal/metrics"
)

const (
	opSearch  = "search"
	opGetByID = "get_by_id"

	// maxResponseBody bounds how much of an upstream payload is read.
	maxResponseBody = 4 << 20
)

// errNoMatch marks an upstream "Response":"False" answer.
var errNoMatch = errors.New("catalog: no match")

// SearchResult is one row of a catalog title search.
type SearchResult struct {
	Title     string `json:"title"`
	Year      string `json:"year"`
	Poster    string `json:"poster"`
	CatalogID string `json:"catalogId"`
}

// Client is the read-only gateway to the movie metadata source. Implementations
// never return errors: failures and misses both yield no data.
type Client interface {
	Search(ctx context.Context, query string) []SearchResult
	GetByID(ctx context.Context, catalogID string) *domain.Metadata
}

// HTTPClient implements Client against an OMDb-compatible API.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// NewHTTPClient constructs a new HTTP-backed catalog client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse catalog url: %q is not absolute", baseURL)
	}
	c := &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}
	c.breaker = newBreaker(logger)
	return c, nil
}

// newBreaker opens after five consecutive transport or status failures and
// probes again after thirty seconds.
func newBreaker(logger zerolog.Logger) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CatalogBreakerState.Set(0)
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "catalog-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about upstream health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("catalog circuit breaker state change")
			metrics.CatalogBreakerState.Set(breakerStateValue(to))
		},
	})
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Search looks up movies by title. Blank queries, misses and failures return
// an empty slice.
func (c *HTTPClient) Search(ctx context.Context, query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}
	}

	var payload searchResponse
	params := url.Values{"s": {query}, "type": {"movie"}}
	if err := c.fetch(ctx, opSearch, params, &payload); err != nil {
		c.record(opSearch, query, err)
		return []SearchResult{}
	}
	metrics.CatalogRequests.WithLabelValues(opSearch, "ok").Inc()
	return convertSearch(payload)
}

// GetByID fetches full metadata for one catalog id, or nil.
func (c *HTTPClient) GetByID(ctx context.Context, catalogID string) *domain.Metadata {
	catalogID = strings.TrimSpace(catalogID)
	if catalogID == "" {
		return nil
	}

	var payload detailResponse
	params := url.Values{"i": {catalogID}, "plot": {"full"}}
	if err := c.fetch(ctx, opGetByID, params, &payload); err != nil {
		c.record(opGetByID, catalogID, err)
		return nil
	}
	metrics.CatalogRequests.WithLabelValues(opGetByID, "ok").Inc()
	return convertDetail(payload)
}

func (c *HTTPClient) record(op, key string, err error) {
	switch {
	case errors.Is(err, errNoMatch):
		metrics.CatalogRequests.WithLabelValues(op, "empty").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CatalogRequests.WithLabelValues(op, "rejected").Inc()
		c.logger.Debug().Str("op", op).Str("key", key).Msg("catalog request rejected by circuit breaker")
	default:
		metrics.CatalogRequests.WithLabelValues(op, "error").Inc()
		c.logger.Warn().Err(err).Str("op", op).Str("key", key).Msg("catalog request failed")
	}
}

// fetch performs one GET through the circuit breaker and decodes the payload
// into dst. Upstream "Response":"False" answers surface as errNoMatch.
func (c *HTTPClient) fetch(ctx context.Context, op string, params url.Values, dst envelope) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, params)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	if !dst.found() {
		return errNoMatch
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	endpoint := *c.baseURL
	if endpoint.Path == "" {
		endpoint.Path = "/"
	}
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: upstream returned %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
}

type envelope interface {
	found() bool
}

type searchResponse struct {
	Response string       `json:"Response"`
	Error    string       `json:"Error"`
	Search   []searchItem `json:"Search"`
}

func (r *searchResponse) found() bool { return !strings.EqualFold(r.Response, "False") }

type searchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type detailResponse struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Genre    string `json:"Genre"`
	Poster   string `json:"Poster"`
	ImdbID   string `json:"imdbID"`
	Plot     string `json:"Plot"`
	Director string `json:"Director"`
	Actors   string `json:"Actors"`
}

func (r *detailResponse) found() bool { return !strings.EqualFold(r.Response, "False") }

func convertSearch(payload searchResponse) []SearchResult {
	results := make([]SearchResult, 0, len(payload.Search))
	for _, item := range payload.Search {
		if item.ImdbID == "" {
			continue
		}
		results = append(results, SearchResult{
			Title:     item.Title,
			Year:      item.Year,
			Poster:    item.Poster,
			CatalogID: item.ImdbID,
		})
	}
	return results
}

func convertDetail(payload detailResponse) *domain.Metadata {
	if payload.ImdbID == "" {
		return nil
	}
	return &domain.Metadata{
		Title:     payload.Title,
		Year:      payload.Year,
		Genre:     payload.Genre,
		Poster:    payload.Poster,
		CatalogID: payload.ImdbID,
		Plot:      payload.Plot,
		Director:  payload.Director,
		Actors:    payload.Actors,
	}
}
