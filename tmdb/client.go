package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultLanguage is injected into every request.
	DefaultLanguage = "en-US"
)

// Client represents a TMDB API client
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithLanguage sets the injected response language.
func WithLanguage(language string) Option {
	return func(c *Client) {
		if language != "" {
			c.language = language
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a TMDB client. An empty apiKey is accepted so the server
// can start; every Get then fails with ErrMissingAPIKey.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		apiKey:   apiKey,
		language: DefaultLanguage,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ValidEndpoint reports whether endpoint may be forwarded upstream.
func ValidEndpoint(endpoint string) bool {
	endpoint = strings.Trim(endpoint, "/")
	if endpoint == "" || endpoint == "null" || endpoint == "undefined" {
		return false
	}
	for _, segment := range strings.Split(endpoint, "/") {
		if segment == ".." || segment == "." {
			return false
		}
	}
	return true
}

// Get forwards endpoint and params to TMDB and returns the response body.
// The API key and language always override caller-supplied values.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if !ValidEndpoint(endpoint) {
		return nil, ErrInvalidEndpoint
	}
	if !c.Configured() {
		return nil, ErrMissingAPIKey
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)

	endpoint = strings.Trim(endpoint, "/")
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which carries the API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("TMDB request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("TMDB request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := http.StatusText(resp.StatusCode)
		if status == "" {
			status = resp.Status
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     status,
			Body:       string(body),
		}
	}
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}

	return body, nil
}

// Ping checks that TMDB accepts the configured key.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, "configuration", nil)
	return err
}
