// Package cache provides the session-scoped read cache used by the
// reconciliation engine. A Session memoizes full-collection reads per
// resource kind for the duration of one orchestration call and is
// invalidated explicitly after every mutation. It is not a shared or
// time-based cache: each orchestrator invocation creates its own session,
// so staleness across operations is impossible by construction.
package cache

import (
	"context"
	"sync"

	"github.com/stackmap/stackmap/pkg/catalog"
)

// collection memoizes one full-collection read. Failed fetches are not
// memoized, so a transient remote failure does not poison the session.
type collection[T any] struct {
	filled bool
	items  []T
}

func (c *collection[T]) get(ctx context.Context, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if c.filled {
		return c.items, nil
	}
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.items = items
	c.filled = true
	return items, nil
}

func (c *collection[T]) invalidate() {
	c.filled = false
	c.items = nil
}

// Session holds the per-kind memoized collections for one reconciliation
// operation.
type Session struct {
	mu         sync.Mutex
	components collection[catalog.Component]
	metrics    collection[catalog.Metric]
	scorecards collection[catalog.Scorecard]
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Components returns the cached component collection, fetching it on
// first access.
func (s *Session) Components(ctx context.Context, fetch func(context.Context) ([]catalog.Component, error)) ([]catalog.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.components.get(ctx, fetch)
}

// Metrics returns the cached metric collection, fetching it on first
// access.
func (s *Session) Metrics(ctx context.Context, fetch func(context.Context) ([]catalog.Metric, error)) ([]catalog.Metric, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics.get(ctx, fetch)
}

// Scorecards returns the cached scorecard collection, fetching it on
// first access.
func (s *Session) Scorecards(ctx context.Context, fetch func(context.Context) ([]catalog.Scorecard, error)) ([]catalog.Scorecard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scorecards.get(ctx, fetch)
}

// Invalidate clears the cached collection for a kind. Must be called
// after every successful mutation of that kind before the next read.
func (s *Session) Invalidate(kind catalog.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case catalog.KindComponent:
		s.components.invalidate()
	case catalog.KindMetric:
		s.metrics.invalidate()
	case catalog.KindScorecard:
		s.scorecards.invalidate()
	}
}

// Reset clears all cached collections.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components.invalidate()
	s.metrics.invalidate()
	s.scorecards.invalidate()
}
