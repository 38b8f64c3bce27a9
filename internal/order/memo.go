package order

import "sync"

// Memo holds a lazily computed value. The value is computed on the
// first successful Get and kept until Reset; nothing else invalidates
// it. Errors are not cached.
type Memo[T any] struct {
	mu    sync.Mutex
	value T
	done  bool
}

// Get returns the cached value, calling compute if there is none.
func (m *Memo[T]) Get(compute func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return m.value, nil
	}

	v, err := compute()
	if err != nil {
		return v, err
	}
	m.value = v
	m.done = true
	return v, nil
}

// Cached reports whether a value is held.
func (m *Memo[T]) Cached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Reset drops the cached value.
func (m *Memo[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	m.value = zero
	m.done = false
}
