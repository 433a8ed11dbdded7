// Package session implements the shared session store: a
// request-deduplicating cache-and-revalidate store keyed by resource
// path, plus the materializer that writes login results into it.
package session

import (
	"context"
	"sync"
)

// Fetcher loads the value behind a key from the remote API.
type Fetcher func(ctx context.Context, key string) (interface{}, error)

// Store is a keyed cache-and-revalidate store. Reads are served from
// cache when possible; concurrent fetches for the same key are
// deduplicated; Mutate can replace a value in place with or without a
// follow-up refetch. Subscribers observe every committed value.
type Store struct {
	fetcher Fetcher

	mu       sync.Mutex
	entries  map[string]*entry
	inflight map[string]*call
	subs     map[string]map[int]func(interface{})
	nextSub  int
}

type entry struct {
	value interface{}
	err   error
	valid bool
}

type call struct {
	done  chan struct{}
	value interface{}
	err   error
}

// New creates a store over the given fetcher.
func New(fetcher Fetcher) *Store {
	return &Store{
		fetcher:  fetcher,
		entries:  make(map[string]*entry),
		inflight: make(map[string]*call),
		subs:     make(map[string]map[int]func(interface{})),
	}
}

// Get returns the cached value for key, fetching it on a miss. A cached
// error is returned as-is until the next Revalidate or Mutate.
func (s *Store) Get(ctx context.Context, key string) (interface{}, error) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok && e.valid {
		value, err := e.value, e.err
		s.mu.Unlock()
		return value, err
	}
	c := s.join(key)
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return c.value, c.err
	}
}

// Peek returns the cached value without fetching.
func (s *Store) Peek(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !e.valid || e.err != nil {
		return nil, false
	}
	return e.value, true
}

// Mutate replaces the value behind key. When revalidate is true the key
// is refetched afterwards and the fetched value wins; otherwise the
// provided value is committed as-is. The committed value is returned.
func (s *Store) Mutate(ctx context.Context, key string, value interface{}, revalidate bool) (interface{}, error) {
	s.commit(key, value, nil)
	if !revalidate {
		return value, nil
	}
	return s.Revalidate(ctx, key)
}

// Revalidate drops the cached value and refetches it.
func (s *Store) Revalidate(ctx context.Context, key string) (interface{}, error) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		e.valid = false
	}
	c := s.join(key)
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return c.value, c.err
	}
}

// Invalidate drops the cached value for key without refetching, so the
// next Get goes to the fetcher.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Subscribe registers fn to run on every committed value for key. The
// returned function removes the subscription.
func (s *Store) Subscribe(key string, fn func(interface{})) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func(interface{}))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[key][id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], id)
	}
}

// join returns the in-flight fetch for key, starting one if none is
// running. Caller holds s.mu.
func (s *Store) join(key string) *call {
	if c, ok := s.inflight[key]; ok {
		return c
	}
	c := &call{done: make(chan struct{})}
	s.inflight[key] = c
	go func() {
		value, err := s.fetcher(context.Background(), key)
		c.value, c.err = value, err
		s.commit(key, value, err)
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
		close(c.done)
	}()
	return c
}

// commit stores a value and notifies subscribers. Writes are atomic
// relative to readers; notifications run outside the lock.
func (s *Store) commit(key string, value interface{}, err error) {
	s.mu.Lock()
	s.entries[key] = &entry{value: value, err: err, valid: true}
	var fns []func(interface{})
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if err != nil {
		return
	}
	for _, fn := range fns {
		fn(value)
	}
}
