// Package store implements the per-entity collection owner: one value per
// store, fetched wholesale, with overlapping refreshes skipped rather
// than queued.
package store

import (
	"context"
	"sync"
)

// Status is the store's fetch state machine. There are only two states;
// the guard is "ignore Refresh while not idle".
type Status int

const (
	StatusIdle Status = iota
	StatusFetching
)

// FetchFunc produces a fresh copy of the store's value. Injected so the
// guard is testable without any network.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Store owns one entity collection (or the dashboard summary). It is the
// collection's only writer; views read snapshots and request refreshes.
type Store[T any] struct {
	mu        sync.Mutex
	fetch     FetchFunc[T]
	value     T
	status    Status
	populated bool
}

func New[T any](fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{fetch: fetch}
}

// Refresh fetches and replaces the value. A Refresh that starts while a
// prior one is still in flight is a no-op (refreshed=false, nil error):
// the in-flight call is authoritative, which rules out an older slow
// response overwriting a newer one. On failure the previous value stays
// intact and the store returns to idle.
func (s *Store[T]) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.status != StatusIdle {
		s.mu.Unlock()
		return false, nil
	}

	s.status = StatusFetching
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.status = StatusIdle
		s.mu.Unlock()
	}()

	value, err := s.fetch(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.value = value
	s.populated = true
	s.mu.Unlock()

	return true, nil
}

// Get returns the current snapshot. Before the first successful refresh
// this is T's zero value.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.value
}

// Loading reports whether a refresh is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status == StatusFetching
}

// Populated reports whether at least one refresh has succeeded.
func (s *Store[T]) Populated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.populated
}
