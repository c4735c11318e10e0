// Package api is the client for the cinestream REST surface. It serves as
// the fetcher of the query cache and performs account and watchlist writes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/query"
	"github.com/s0up4200/cinestream/session"
)

// Client talks to a cinestream server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *SessionStore
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

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

// WithSessionStore persists the session between runs.
func WithSessionStore(store *SessionStore) Option {
	return func(c *Client) {
		if store != nil {
			c.sessions = store
		}
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		sessions: &SessionStore{},
		logger:   logger.With().Str("component", "api").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch implements query.Fetcher by issuing a GET for the key path.
func (c *Client) Fetch(ctx context.Context, key query.Key) ([]byte, error) {
	if key.IsNull() {
		return nil, query.ErrNullKey
	}
	return c.doRequest(ctx, http.MethodGet, key.String(), nil)
}

// doRequest performs a request with the stored session cookie and records
// any session cookie the server sets or clears.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.sessions.Load()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to load session")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.recordSession(resp)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Trace().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func (c *Client) recordSession(resp *http.Response) {
	for _, cookie := range resp.Cookies() {
		if cookie.Name != session.CookieName {
			continue
		}

		var err error
		if cookie.MaxAge < 0 || cookie.Value == "" {
			err = c.sessions.Clear()
		} else {
			err = c.sessions.Save(cookie.Value)
		}
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to persist session")
		}
	}
}

type authResponse struct {
	Message string      `json:"message"`
	User    movies.User `json:"user"`
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, username, password string) (*movies.User, error) {
	return c.authenticate(ctx, "/api/register", username, password)
}

// Login signs in.
func (c *Client) Login(ctx context.Context, username, password string) (*movies.User, error) {
	return c.authenticate(ctx, "/api/login", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (*movies.User, error) {
	body, err := c.doRequest(ctx, http.MethodPost, path, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp.User, nil
}

// Logout signs out on the server and forgets the local session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/api/logout", nil)
	if clearErr := c.sessions.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// SignedIn reports whether a session token is stored locally.
func (c *Client) SignedIn() bool {
	token, err := c.sessions.Load()
	return err == nil && token != ""
}

// AddToWatchlist adds a movie to the signed-in user's watchlist.
func (c *Client) AddToWatchlist(ctx context.Context, movieID int64) error {
	_, err := c.doRequest(ctx, http.MethodPost, watchlistPath(movieID), nil)
	return err
}

// RemoveFromWatchlist removes a movie from the signed-in user's watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, movieID int64) error {
	_, err := c.doRequest(ctx, http.MethodDelete, watchlistPath(movieID), nil)
	return err
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/healthz", nil)
	return err
}

func watchlistPath(movieID int64) string {
	return movies.PathWatchlist + "/" + strconv.FormatInt(movieID, 10)
}
