package query

import (
	"context"
	"sync"
)

// Scope groups the queries of one mounted page. Changes to any key the scope
// observes are signalled on Changed.
type Scope struct {
	cache   *Cache
	changed chan struct{}

	mu        sync.Mutex
	queries   map[*Query]struct{}
	unmounted bool
}

// Cache returns the cache the scope is mounted on.
func (s *Scope) Cache() *Cache {
	return s.cache
}

// Changed receives a value whenever an observed entry changes. Signals are
// coalesced: several changes between two reads yield one value.
func (s *Scope) Changed() <-chan struct{} {
	return s.changed
}

// Use subscribes a new query to key.
func (s *Scope) Use(key Key) *Query {
	q := &Query{scope: s}
	q.SetKey(key)

	s.mu.Lock()
	if s.queries == nil {
		s.queries = make(map[*Query]struct{})
	}
	s.queries[q] = struct{}{}
	s.mu.Unlock()

	return q
}

// Unmount releases every query of the scope. Results read afterwards are
// inactive and late fetch completions no longer signal the scope.
func (s *Scope) Unmount() {
	s.mu.Lock()
	s.unmounted = true
	queries := s.queries
	s.queries = nil
	s.mu.Unlock()

	for q := range queries {
		q.release()
	}
}

// Wait re-renders until the state returned by render is no longer loading or
// ctx is done. render is called once up front and again after every change
// signal, so it can recompute dependent keys from fresh results.
func (s *Scope) Wait(ctx context.Context, render func() State) (State, error) {
	for {
		st := render()
		if !st.IsLoading {
			return st, nil
		}

		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-s.changed:
		}
	}
}

func (s *Scope) isUnmounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unmounted
}

func (s *Scope) forget(q *Query) {
	s.mu.Lock()
	delete(s.queries, q)
	s.mu.Unlock()
}

// Query is one subscription of a scope. Its key can change between renders.
type Query struct {
	scope *Scope

	mu  sync.Mutex
	key Key
	sub *subscription
}

// Key returns the key the query currently observes.
func (q *Query) Key() Key {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.key
}

// SetKey switches the query to key. Switching closes the subscription to the
// previous key, so a late completion for it is never reported through this
// query. Setting the current key again is a no-op.
func (q *Query) SetKey(key Key) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sub != nil && q.key == key {
		return
	}

	old := q.sub
	q.key = key
	if q.scope.isUnmounted() {
		q.sub = &subscription{closed: true}
	} else {
		q.sub = q.scope.cache.subscribe(key, q.scope.changed)
	}
	q.scope.cache.unsubscribe(old)
}

// Result reads the current state of the observed key.
func (q *Query) Result() Result {
	q.mu.Lock()
	sub := q.sub
	q.mu.Unlock()

	return q.scope.cache.read(sub)
}

// Release unsubscribes the query before its scope unmounts.
func (q *Query) Release() {
	q.release()
	q.scope.forget(q)
}

func (q *Query) release() {
	q.mu.Lock()
	sub := q.sub
	q.sub = &subscription{key: q.key, closed: true}
	q.mu.Unlock()

	q.scope.cache.unsubscribe(sub)
}
