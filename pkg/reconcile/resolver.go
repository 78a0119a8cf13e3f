package reconcile

import (
	"context"

	"github.com/stackmap/stackmap/pkg/catalog"
	"github.com/stackmap/stackmap/pkg/errors"
)

// resolver maps names and remote IDs to resources of one kind by
// scanning the session's cached full-collection read. The remote
// protocol offers no indexed name lookup, so resolution is a linear
// search; NotFound is only reported after a successful fetch, keeping it
// distinct from a failed collection read.
type resolver[T any] struct {
	kind catalog.Kind
	id   func(T) string
	name func(T) string
	list func(ctx context.Context) ([]T, error)
}

// byName resolves a resource by its human name.
func (r resolver[T]) byName(ctx context.Context, name string) (T, error) {
	var zero T
	items, err := r.list(ctx)
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if r.name(item) == name {
			return item, nil
		}
	}
	return zero, errors.NewNotFoundError(r.kind.String(), name)
}

// byID resolves a resource by its opaque remote ID.
func (r resolver[T]) byID(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := r.list(ctx)
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if r.id(item) == id {
			return item, nil
		}
	}
	return zero, errors.NewNotFoundError(r.kind.String(), id)
}
