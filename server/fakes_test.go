package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cinestream/movies"
	"github.com/s0up4200/cinestream/session"
	"github.com/s0up4200/cinestream/store"
)

const testSecret = "test-secret-do-not-use-in-production"

type upstreamFunc func(ctx context.Context, endpoint string, params url.Values) ([]byte, error)

func (f upstreamFunc) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	return f(ctx, endpoint, params)
}

// memStore is an in-memory UserStore and WatchlistStore.
type memStore struct {
	mu        sync.Mutex
	users     map[int64]*store.User
	entries   []movies.WatchlistEntry
	nextID    int64
	clock     time.Time
	failWrite error
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[int64]*store.User),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) CreateUser(_ context.Context, username, hash string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return nil, store.ErrDuplicate
		}
	}
	m.nextID++
	u := &store.User{ID: m.nextID, Username: username, PasswordHash: hash, CreatedAt: m.clock}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GetUserByID(_ context.Context, id int64) (*store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (m *memStore) ListWatchlist(_ context.Context, userID int64) ([]movies.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []movies.WatchlistEntry{}
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) GetWatchlistEntry(_ context.Context, userID, movieID int64) (*movies.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.UserID == userID && e.MovieID == movieID {
			return &e, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) AddToWatchlist(_ context.Context, userID, movieID int64) (*movies.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrite != nil {
		return nil, m.failWrite
	}
	for _, e := range m.entries {
		if e.UserID == userID && e.MovieID == movieID {
			return nil, store.ErrDuplicate
		}
	}
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	e := movies.WatchlistEntry{ID: m.nextID, UserID: userID, MovieID: movieID, AddedAt: m.clock}
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *memStore) RemoveFromWatchlist(_ context.Context, userID, movieID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrite != nil {
		return m.failWrite
	}
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.UserID != userID || e.MovieID != movieID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

type testEnv struct {
	handler  http.Handler
	store    *memStore
	sessions *session.Manager
}

func newTestEnv(t *testing.T, upstream Upstream) *testEnv {
	t.Helper()

	if upstream == nil {
		upstream = upstreamFunc(func(context.Context, string, url.Values) ([]byte, error) {
			return []byte(`{}`), nil
		})
	}

	sessions, err := session.NewManager(testSecret, time.Hour, false)
	require.NoError(t, err)

	st := newMemStore()
	srv, err := New(Config{}, Deps{
		TMDB:      upstream,
		Users:     st,
		Watchlist: st,
		Sessions:  sessions,
	}, zerolog.Nop())
	require.NoError(t, err)

	return &testEnv{handler: srv.Handler(), store: st, sessions: sessions}
}

// cookieFor returns a session cookie for a freshly created user.
func (e *testEnv) cookieFor(t *testing.T, username string) *http.Cookie {
	t.Helper()

	u, err := e.store.CreateUser(context.Background(), username, "unused")
	require.NoError(t, err)
	token, err := e.sessions.Sign(session.Identity{UserID: u.ID, Username: u.Username})
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func (e *testEnv) do(method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
