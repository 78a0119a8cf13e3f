// Package diff computes keyed changesets between desired and current
// collections, and field-level change records between resource versions.
//
// Collections of nested child items (scorecard criteria, component
// dependency edges) are correlated by a natural key supplied by the
// caller. The resulting partition decides which mutation operation to
// issue per item; whether a user-visible change occurred is a separate
// question answered by the change-log builders, which filter on value
// equality.
package diff

import "sort"

// Changeset is the partition of a keyed diff into the mutation operations
// to issue against the remote catalog. Updates carry the existing item's
// identity merged with the desired item's field values. Deletes carry the
// existing items, so callers can address them by their remote identity.
type Changeset[T any] struct {
	Create []T
	Update []T
	Delete []T
}

// HasChanges returns true if the changeset contains any operations.
func (c Changeset[T]) HasChanges() bool {
	return len(c.Create) > 0 || len(c.Update) > 0 || len(c.Delete) > 0
}

// Counts returns the number of create, update, and delete operations.
func (c Changeset[T]) Counts() (create, update, del int) {
	return len(c.Create), len(c.Update), len(c.Delete)
}

// Keyed partitions desired against existing by natural key:
//
//   - keys present only in desired become creates
//   - keys present in both become updates, built by merge(existing,
//     desired) so identity-preserving fields of the existing item survive
//   - keys present only in existing become deletes
//
// The partition is by key presence only. An update whose desired values
// equal the existing values still lands in Update; value-equality
// filtering is the change-log builder's job. Output slices are sorted by
// key for deterministic application order.
func Keyed[T any](existing, desired []T, key func(T) string, merge func(existing, desired T) T) Changeset[T] {
	existingByKey := make(map[string]T, len(existing))
	for _, item := range existing {
		existingByKey[key(item)] = item
	}
	desiredByKey := make(map[string]T, len(desired))
	for _, item := range desired {
		desiredByKey[key(item)] = item
	}

	var changes Changeset[T]
	for _, item := range desired {
		if current, ok := existingByKey[key(item)]; ok {
			changes.Update = append(changes.Update, merge(current, item))
		} else {
			changes.Create = append(changes.Create, item)
		}
	}
	for _, item := range existing {
		if _, ok := desiredByKey[key(item)]; !ok {
			changes.Delete = append(changes.Delete, item)
		}
	}

	sortByKey(changes.Create, key)
	sortByKey(changes.Update, key)
	sortByKey(changes.Delete, key)
	return changes
}

func sortByKey[T any](items []T, key func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		return key(items[i]) < key(items[j])
	})
}
