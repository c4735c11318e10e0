package query

// Hook is a query whose data is decoded into T on every read.
type Hook[T any] struct {
	q *Query
}

// NewHook subscribes a typed query to key.
func NewHook[T any](s *Scope, key Key) *Hook[T] {
	return &Hook[T]{q: s.Use(key)}
}

// SetKey switches the hook to key.
func (h *Hook[T]) SetKey(key Key) {
	h.q.SetKey(key)
}

// Key returns the key the hook currently observes.
func (h *Hook[T]) Key() Key {
	return h.q.Key()
}

// Result returns the decoded current state.
func (h *Hook[T]) Result() Typed[T] {
	return Decode[T](h.q.Result())
}

// Release unsubscribes the hook before its scope unmounts.
func (h *Hook[T]) Release() {
	h.q.Release()
}
