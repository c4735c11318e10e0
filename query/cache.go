package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNullKey is returned by Cache.Fetch for the null key.
	ErrNullKey = errors.New("query: null key")
	// ErrNoData is recorded when a fetcher succeeds without returning a body.
	ErrNoData = errors.New("query: no data received")
	// ErrClosed is returned by Cache.Fetch after Close.
	ErrClosed = errors.New("query: cache closed")
)

// Fetcher loads the raw body for a key.
type Fetcher interface {
	Fetch(ctx context.Context, key Key) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, key Key) ([]byte, error)

// Fetch calls f(ctx, key).
func (f FetcherFunc) Fetch(ctx context.Context, key Key) ([]byte, error) {
	return f(ctx, key)
}

// entry is the cached state of one key.
type entry struct {
	data []byte
	err  error

	// fetching is set while the fetch of generation gen is in flight. Only a
	// completion carrying the current generation clears it.
	fetching bool
	gen      uint64

	// stale entries are refetched on the next subscription.
	stale   bool
	retries int

	subs map[*subscription]struct{}
}

func (e *entry) result() Result {
	return Result{
		Data:         e.data,
		Err:          e.err,
		IsLoading:    e.data == nil && e.err == nil,
		IsValidating: e.fetching,
	}
}

// subscription ties one query of a scope to a key.
type subscription struct {
	key    Key
	notify chan struct{}
	closed bool
}

// Cache stores fetched resources for the scopes mounted on it. It is safe for
// concurrent use.
type Cache struct {
	fetcher Fetcher
	opts    options
	logger  zerolog.Logger
	flight  singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	entries map[Key]*entry
	idle    *idleList
	closed  bool
}

// New creates a cache that loads resources through fetcher.
func New(fetcher Fetcher, opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		fetcher: fetcher,
		opts:    o,
		logger:  o.logger.With().Str("component", "query").Logger(),
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[Key]*entry),
		idle:    newIdleList(o.maxIdle),
	}
}

// Mount creates a scope whose queries are notified of changes to the keys
// they observe.
func (c *Cache) Mount() *Scope {
	return &Scope{
		cache:   c,
		changed: make(chan struct{}, 1),
	}
}

// Peek returns the current result for key without subscribing to it and
// without triggering a fetch.
func (c *Cache) Peek(key Key) Result {
	if key.IsNull() {
		return Result{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Result{IsLoading: true}
	}
	return e.result()
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Focus signals that the user returned to the application. Observed keys are
// refetched only when revalidation on focus is enabled.
func (c *Cache) Focus() {
	if !c.opts.revalidateOnFocus {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if len(e.subs) > 0 {
			c.revalidateLocked(key, e)
		}
	}
}

// Invalidate marks key stale. Observed keys are refetched immediately, others
// on their next subscription. Data already present stays visible until the
// refetch replaces it.
func (c *Cache) Invalidate(key Key) {
	if key.IsNull() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.invalidateLocked(key, e)
	}
}

// InvalidatePrefix invalidates every cached key starting with prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if key.HasPrefix(prefix) {
			c.invalidateLocked(key, e)
		}
	}
}

// Mutate replaces the data cached for key and notifies its observers. Passing
// nil data is the same as Invalidate.
func (c *Cache) Mutate(key Key, data []byte) {
	if key.IsNull() {
		return
	}
	if data == nil {
		c.Invalidate(key)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	e.gen++
	if e.fetching {
		c.flight.Forget(string(key))
		e.fetching = false
	}
	e.data = data
	e.err = nil
	e.stale = false
	e.retries = 0
	c.notifyLocked(e)
}

// Fetch returns the data for key, loading it when it is not cached or stale.
// Concurrent loads of the same key share one request with any subscribed
// query. The result is stored in the cache.
func (c *Cache) Fetch(ctx context.Context, key Key) ([]byte, error) {
	if key.IsNull() {
		return nil, ErrNullKey
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	e := c.entryLocked(key)
	if !e.stale && e.data != nil {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}
	gen := e.gen
	c.mu.Unlock()

	ch := c.flight.DoChan(string(key), func() (any, error) {
		return c.load(key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		data, _ := res.Val.([]byte)
		c.store(key, e, gen, data, res.Err)
		if res.Err != nil {
			return nil, res.Err
		}
		return data, nil
	}
}

// Close cancels in-flight fetches and waits for them to return. Results that
// arrive after Close are discarded.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{subs: make(map[*subscription]struct{}), stale: true}
		c.entries[key] = e
		c.releaseLocked(key)
	}
	return e
}

func (c *Cache) invalidateLocked(key Key, e *entry) {
	e.gen++
	e.stale = true
	e.retries = 0
	// Forgetting also detaches read-through Fetch calls, which never set
	// fetching.
	c.flight.Forget(string(key))
	e.fetching = false
	if len(e.subs) > 0 {
		c.revalidateLocked(key, e)
	}
}

// revalidateLocked starts a fetch for key unless one is already in flight.
func (c *Cache) revalidateLocked(key Key, e *entry) {
	if e.fetching || c.closed {
		return
	}
	e.fetching = true
	e.stale = false
	gen := e.gen

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		v, err, shared := c.flight.Do(string(key), func() (any, error) {
			return c.load(key)
		})
		data, _ := v.([]byte)
		if shared {
			c.logger.Trace().Str("key", string(key)).Msg("Joined in-flight fetch")
		}
		c.complete(key, gen, data, err)
	}()
}

func (c *Cache) load(key Key) ([]byte, error) {
	ctx := c.ctx
	if c.opts.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	data, err := c.fetcher.Fetch(ctx, key)
	if err == nil && len(data) == 0 {
		err = ErrNoData
	}

	c.logger.Debug().
		Str("key", string(key)).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("Fetched resource")

	return data, err
}

// complete applies a fetch result. Results are applied in arrival order; the
// generation only decides whether the in-flight flag may be cleared.
func (c *Cache) complete(key Key, gen uint64, data []byte, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	e, ok := c.entries[key]
	if !ok {
		return
	}

	current := gen == e.gen
	if current {
		e.fetching = false
	}

	if err != nil {
		e.err = err
		c.logger.Warn().Err(err).Str("key", string(key)).Msg("Fetch failed")
		if current && c.opts.retryOnError && len(e.subs) > 0 && e.retries < c.opts.errorRetryCount {
			e.retries++
			c.scheduleRetryLocked(key, gen)
		}
	} else {
		e.data = data
		e.err = nil
		e.retries = 0
	}
	c.notifyLocked(e)
}

// store records the result of a read-through Fetch started on entry fetched at
// generation gen. A result superseded while in flight is dropped so the next
// read fetches again.
func (c *Cache) store(key Key, fetched *entry, gen uint64, data []byte, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	e, ok := c.entries[key]
	if !ok || e != fetched || e.gen != gen {
		c.logger.Trace().Str("key", string(key)).Msg("Dropped superseded fetch")
		return
	}
	if err != nil {
		e.err = err
	} else {
		e.data = data
		e.err = nil
		e.stale = false
	}
	c.notifyLocked(e)
}

func (c *Cache) scheduleRetryLocked(key Key, gen uint64) {
	c.logger.Debug().
		Str("key", string(key)).
		Dur("interval", c.opts.errorRetryInterval).
		Msg("Scheduling retry")

	time.AfterFunc(c.opts.errorRetryInterval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		e, ok := c.entries[key]
		if !ok || e.gen != gen || len(e.subs) == 0 {
			return
		}
		c.revalidateLocked(key, e)
	})
}

func (c *Cache) notifyLocked(e *entry) {
	for sub := range e.subs {
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

func (c *Cache) subscribe(key Key, notify chan struct{}) *subscription {
	sub := &subscription{key: key, notify: notify}
	if key.IsNull() {
		return sub
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		e = &entry{subs: make(map[*subscription]struct{}), stale: true}
		c.entries[key] = e
	}
	c.idle.remove(key)

	// A failed entry that nobody was watching is retried by the next mount.
	if e.err != nil && len(e.subs) == 0 {
		e.stale = true
	}
	e.subs[sub] = struct{}{}

	if e.stale {
		c.revalidateLocked(key, e)
	}
	return sub
}

func (c *Cache) unsubscribe(sub *subscription) {
	if sub == nil || sub.key.IsNull() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true

	e, ok := c.entries[sub.key]
	if !ok {
		return
	}
	delete(e.subs, sub)
	if len(e.subs) == 0 {
		c.releaseLocked(sub.key)
	}
}

// releaseLocked puts an unobserved key on the idle list and drops whatever
// the list evicts.
func (c *Cache) releaseLocked(key Key) {
	for _, evicted := range c.idle.add(key) {
		if e, ok := c.entries[evicted]; ok && len(e.subs) == 0 {
			delete(c.entries, evicted)
			c.logger.Trace().Str("key", string(evicted)).Msg("Evicted idle entry")
		}
	}
}

func (c *Cache) read(sub *subscription) Result {
	if sub == nil || sub.key.IsNull() {
		return Result{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if sub.closed {
		return Result{}
	}
	e, ok := c.entries[sub.key]
	if !ok {
		return Result{IsLoading: true}
	}
	return e.result()
}
