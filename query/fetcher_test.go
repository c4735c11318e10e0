package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type response struct {
	data []byte
	err  error
}

type call struct {
	key   Key
	reply chan response
}

func (c call) respond(data string) {
	c.reply <- response{data: []byte(data)}
}

func (c call) fail(err error) {
	c.reply <- response{err: err}
}

// controlledFetcher blocks every fetch until the test replies to it.
type controlledFetcher struct {
	calls chan call
}

func newControlledFetcher() *controlledFetcher {
	return &controlledFetcher{calls: make(chan call, 16)}
}

func (f *controlledFetcher) Fetch(ctx context.Context, key Key) ([]byte, error) {
	c := call{key: key, reply: make(chan response, 1)}
	f.calls <- c

	select {
	case r := <-c.reply:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *controlledFetcher) next(t *testing.T) call {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(time.Second):
		t.Fatal("expected a fetch")
	}
	return call{}
}

func (f *controlledFetcher) none(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected fetch of %q", c.key)
	case <-time.After(50 * time.Millisecond):
	}
}

// mapFetcher answers immediately from fixed data and counts calls.
type mapFetcher struct {
	mu     sync.Mutex
	data   map[Key]string
	errs   map[Key]error
	counts map[Key]int
}

func newMapFetcher(data map[Key]string) *mapFetcher {
	return &mapFetcher{data: data, errs: map[Key]error{}, counts: map[Key]int{}}
}

func (f *mapFetcher) Fetch(_ context.Context, key Key) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.counts[key]++
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if d, ok := f.data[key]; ok {
		return []byte(d), nil
	}
	return nil, errors.New("not found")
}

func (f *mapFetcher) count(key Key) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[key]
}
