// Package tmdb is a client for The Movie Database v3 REST API.
//
// Requests authenticate either with a v3 API key sent as the api_key query parameter
// or with a v4 read access token sent as a bearer token. All requests share one
// rate limiter.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinelist/internal/models"
	"github.com/desertthunder/cinelist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.themoviedb.org/3"
	DefaultRateLimit = 20.0
	WebURL           = "https://www.themoviedb.org"
)

// Catalog is the read-only movie catalog used by the CLI, TUI and background tasks.
type Catalog interface {
	Popular(ctx context.Context, page int) (*models.PaginatedResult[models.Movie], error)
	Details(ctx context.Context, id int) (*models.Movie, error)
	Search(ctx context.Context, query string, page int) (*models.PaginatedResult[models.Movie], error)
}

var _ Catalog = (*Client)(nil)

// Options configures a [Client]. Zero values select the defaults.
type Options struct {
	BaseURL     string
	APIKey      string
	AccessToken string
	Language    string
	// RateLimit is in requests per second. Zero means [DefaultRateLimit].
	RateLimit  float64
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client implements [Catalog] over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a TMDB client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = models.DefaultLanguage
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if opts.AccessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken, TokenType: "Bearer"})
		httpClient = &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: httpClient.Transport},
			Timeout:   httpClient.Timeout,
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		language:   opts.Language,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:     opts.Logger,
	}
}

// Popular fetches one page of popular movies. Pages below 1 are requested as page 1.
func (c *Client) Popular(ctx context.Context, page int) (*models.PaginatedResult[models.Movie], error) {
	params := url.Values{"page": {strconv.Itoa(clampPage(page))}}

	var result models.PaginatedResult[models.Movie]
	if err := c.get(ctx, "/movie/popular", params, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch popular movies: %w", err)
	}
	return &result, nil
}

// Details fetches a single movie. IDs below 1 are rejected without a request.
func (c *Client) Details(ctx context.Context, id int) (*models.Movie, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: movie id must be positive, got %d", shared.ErrInvalidArgument, id)
	}

	var movie models.Movie
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), nil, &movie); err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", id, err)
	}
	return &movie, nil
}

// Search fetches one page of movies matching query. Blank queries are rejected without a request.
func (c *Client) Search(ctx context.Context, query string, page int) (*models.PaginatedResult[models.Movie], error) {
	query = shared.NormalizeQuery(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidInput)
	}

	params := url.Values{
		"query": {query},
		"page":  {strconv.Itoa(clampPage(page))},
	}

	var result models.PaginatedResult[models.Movie]
	if err := c.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, fmt.Errorf("failed to search movies for %q: %w", query, err)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("language", c.language)
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	apiURL := c.baseURL + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("tmdb request", "endpoint", endpoint, "page", params.Get("page"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var status statusBody
		if json.Unmarshal(body, &status) == nil {
			apiErr.StatusMessage = status.StatusMessage
			apiErr.Code = status.StatusCode
		}
		c.logger.Warn("tmdb error", "endpoint", endpoint, "status", resp.StatusCode, "message", apiErr.StatusMessage)
		return apiErr
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func clampPage(page int) int {
	return max(page, 1)
}
