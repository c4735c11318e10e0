package pages

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cinestream/query"
)

type statusErr int

func (e statusErr) Error() string        { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) IsUnauthorized() bool { return e == 401 }

type fakeBackend struct {
	mu     sync.Mutex
	bodies map[query.Key]string
	errs   map[query.Key]error
	counts map[query.Key]int

	writeErr error
	added    []int64
	removed  []int64
}

func newFakeBackend(bodies map[query.Key]string) *fakeBackend {
	return &fakeBackend{
		bodies: bodies,
		errs:   make(map[query.Key]error),
		counts: make(map[query.Key]int),
	}
}

func (f *fakeBackend) Fetch(_ context.Context, key query.Key) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts[key]++
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	body, ok := f.bodies[key]
	if !ok {
		return nil, fmt.Errorf("no response for %s", key)
	}
	return []byte(body), nil
}

func (f *fakeBackend) set(key query.Key, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[key] = body
}

func (f *fakeBackend) fail(key query.Key, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = err
}

func (f *fakeBackend) count(key query.Key) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[key]
}

func (f *fakeBackend) AddToWatchlist(_ context.Context, movieID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.added = append(f.added, movieID)
	return nil
}

func (f *fakeBackend) RemoveFromWatchlist(_ context.Context, movieID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.removed = append(f.removed, movieID)
	return nil
}

func settle(t *testing.T, s *query.Scope, p Page) query.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	st, err := Settle(ctx, s, p)
	require.NoError(t, err)
	return st
}
