package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackmap/stackmap/pkg/catalog"
	"github.com/stackmap/stackmap/pkg/diff"
)

func criterion(name string, weight int) catalog.Criterion {
	return catalog.Criterion{Name: name, Category: catalog.GradingReliability, Weight: weight}
}

func keepIdentity(existing, desired catalog.Criterion) catalog.Criterion {
	desired.ID = existing.ID
	return desired
}

func criterionKey(c catalog.Criterion) string { return c.Name }

func TestKeyedPartition(t *testing.T) {
	existing := []catalog.Criterion{
		{ID: "crit-1", Name: "has-runbook", Category: catalog.GradingReliability, Weight: 3},
		{ID: "crit-2", Name: "error-budget", Category: catalog.GradingObservability, Weight: 5},
	}
	desired := []catalog.Criterion{
		criterion("error-budget", 8),
		criterion("slo-defined", 2),
	}

	changes := diff.Keyed(existing, desired, criterionKey, keepIdentity)

	require.Len(t, changes.Create, 1)
	assert.Equal(t, "slo-defined", changes.Create[0].Name)
	assert.Empty(t, changes.Create[0].ID)

	require.Len(t, changes.Update, 1)
	assert.Equal(t, "error-budget", changes.Update[0].Name)
	assert.Equal(t, "crit-2", changes.Update[0].ID, "existing item wins for remote identity")
	assert.Equal(t, 8, changes.Update[0].Weight, "desired item wins for field values")

	require.Len(t, changes.Delete, 1)
	assert.Equal(t, "has-runbook", changes.Delete[0].Name)
	assert.Equal(t, "crit-1", changes.Delete[0].ID)
}

// Key-set identities: create = desired − existing, delete = existing −
// desired, update = intersection.
func TestKeyedPartitionIdentities(t *testing.T) {
	existing := []catalog.Criterion{criterion("a", 1), criterion("b", 1), criterion("c", 1)}
	desired := []catalog.Criterion{criterion("b", 2), criterion("c", 1), criterion("d", 1), criterion("e", 1)}

	changes := diff.Keyed(existing, desired, criterionKey, keepIdentity)

	keys := func(items []catalog.Criterion) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.Name
		}
		return out
	}
	assert.Equal(t, []string{"d", "e"}, keys(changes.Create))
	assert.Equal(t, []string{"b", "c"}, keys(changes.Update))
	assert.Equal(t, []string{"a"}, keys(changes.Delete))
}

func TestKeyedIdenticalValuesStillUpdate(t *testing.T) {
	existing := []catalog.Criterion{{ID: "crit-1", Name: "a", Category: catalog.GradingReliability, Weight: 1}}
	desired := []catalog.Criterion{criterion("a", 1)}

	changes := diff.Keyed(existing, desired, criterionKey, keepIdentity)

	// Partition is about which mutation to issue, not whether a
	// user-visible change occurred.
	assert.Empty(t, changes.Create)
	assert.Empty(t, changes.Delete)
	require.Len(t, changes.Update, 1)
	assert.Equal(t, "crit-1", changes.Update[0].ID)
}

func TestKeyedEmptyExistingAllCreates(t *testing.T) {
	desired := []catalog.Criterion{criterion("b", 1), criterion("a", 1)}
	changes := diff.Keyed(nil, desired, criterionKey, keepIdentity)

	require.Len(t, changes.Create, 2)
	assert.Equal(t, "a", changes.Create[0].Name, "output sorted by key")
	assert.Empty(t, changes.Update)
	assert.Empty(t, changes.Delete)
	assert.True(t, changes.HasChanges())
}

func TestKeyedNoChanges(t *testing.T) {
	changes := diff.Keyed(nil, nil, criterionKey, keepIdentity)
	assert.False(t, changes.HasChanges())
	c, u, d := changes.Counts()
	assert.Zero(t, c+u+d)
}

// Removing one criterion and adding another yields exactly one delete and
// one create, zero updates.
func TestKeyedCriteriaSwap(t *testing.T) {
	existing := []catalog.Criterion{{ID: "crit-1", Name: "old-check", Weight: 1}}
	desired := []catalog.Criterion{criterion("new-check", 1)}

	changes := diff.Keyed(existing, desired, criterionKey, keepIdentity)
	c, u, d := changes.Counts()
	assert.Equal(t, 1, c)
	assert.Equal(t, 0, u)
	assert.Equal(t, 1, d)
}

func TestKeyedDependencies(t *testing.T) {
	existing := []catalog.Dependency{
		{ID: "rel-1", TargetName: "billing-db", TargetID: "comp-7", Type: catalog.RelationDependsOn},
	}
	desired := []catalog.Dependency{
		{TargetName: "billing-db"},
		{TargetName: "auth-svc"},
	}

	changes := diff.Keyed(existing, desired, catalog.Dependency.Key, func(existing, desired catalog.Dependency) catalog.Dependency {
		desired.ID = existing.ID
		desired.TargetID = existing.TargetID
		desired.Type = existing.Type
		return desired
	})

	require.Len(t, changes.Create, 1)
	assert.Equal(t, "auth-svc", changes.Create[0].TargetName)
	require.Len(t, changes.Update, 1)
	assert.Equal(t, "rel-1", changes.Update[0].ID)
	assert.Equal(t, "comp-7", changes.Update[0].TargetID)
	assert.Empty(t, changes.Delete)
}
