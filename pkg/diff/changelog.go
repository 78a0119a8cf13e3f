package diff

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/stackmap/stackmap/pkg/catalog"
)

// Change-log builders compare a resource before and after an update and
// emit one record per tracked field whose value changed. Scalar fields
// compare by simple equality. Display collections (labels, links,
// dependencies) compare order-insensitively and emit a single summary
// record. Criteria get before/after counts on cardinality changes and a
// coarse marker otherwise; per-criterion attribution is not tracked.

// ComponentChanges builds the change-log between two component versions.
func ComponentChanges(before, after catalog.Component) []catalog.ChangeRecord {
	var records []catalog.ChangeRecord
	records = appendScalar(records, "name", before.Name, after.Name)
	records = appendScalar(records, "description", before.Description, after.Description)
	records = appendScalar(records, "type", string(before.Type), string(after.Type))
	records = appendScalar(records, "owner", before.Owner, after.Owner)
	records = appendSet(records, "labels", before.Labels, after.Labels)
	records = appendSet(records, "links", linkNames(before.Links), linkNames(after.Links))
	records = appendSet(records, "dependencies", dependencyTargets(before.Dependencies), dependencyTargets(after.Dependencies))
	return records
}

// MetricChanges builds the change-log between two metric versions.
func MetricChanges(before, after catalog.Metric) []catalog.ChangeRecord {
	var records []catalog.ChangeRecord
	records = appendScalar(records, "name", before.Name, after.Name)
	records = appendScalar(records, "description", before.Description, after.Description)
	records = appendScalar(records, "type", string(before.Type), string(after.Type))
	records = appendScalar(records, "owner", before.Owner, after.Owner)
	records = appendScalar(records, "schedule", before.Schedule, after.Schedule)
	records = appendSet(records, "labels", before.Labels, after.Labels)
	return records
}

// ScorecardChanges builds the change-log between two scorecard versions.
func ScorecardChanges(before, after catalog.Scorecard) []catalog.ChangeRecord {
	var records []catalog.ChangeRecord
	records = appendScalar(records, "name", before.Name, after.Name)
	records = appendScalar(records, "description", before.Description, after.Description)
	records = appendScalar(records, "owner", before.Owner, after.Owner)
	records = appendSet(records, "labels", before.Labels, after.Labels)
	records = appendCriteria(records, before.Criteria, after.Criteria)
	return records
}

// appendScalar appends a record when old and new differ.
func appendScalar(records []catalog.ChangeRecord, path, old, updated string) []catalog.ChangeRecord {
	if old == updated {
		return records
	}
	return append(records, catalog.ChangeRecord{Path: path, Old: old, New: updated})
}

// appendSet appends a summary record when the collections differ under
// order-insensitive comparison. Old and New hold the sorted joined values,
// so the record stays invertible for audit purposes.
func appendSet(records []catalog.ChangeRecord, path string, old, updated []string) []catalog.ChangeRecord {
	oldJoined := joinSorted(old)
	newJoined := joinSorted(updated)
	if oldJoined == newJoined {
		return records
	}
	return append(records, catalog.ChangeRecord{Path: path, Old: oldJoined, New: newJoined})
}

// appendCriteria reports criteria changes: cardinality differences carry
// before/after counts; same-cardinality differences get a coarse marker.
func appendCriteria(records []catalog.ChangeRecord, before, after []catalog.Criterion) []catalog.ChangeRecord {
	if len(before) != len(after) {
		return append(records, catalog.ChangeRecord{
			Path: "criteria",
			Old:  fmt.Sprintf("%d criteria", len(before)),
			New:  fmt.Sprintf("%d criteria", len(after)),
		})
	}
	if !equalCriteria(before, after) {
		return append(records, catalog.ChangeRecord{
			Path: "criteria",
			Old:  "criteria changed",
			New:  "updated",
		})
	}
	return records
}

// equalCriteria compares criteria sets order-insensitively, ignoring
// remote-assigned IDs.
func equalCriteria(a, b []catalog.Criterion) bool {
	if len(a) != len(b) {
		return false
	}
	normalize := func(in []catalog.Criterion) []catalog.Criterion {
		out := make([]catalog.Criterion, len(in))
		copy(out, in)
		for i := range out {
			out[i].ID = ""
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return out
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func joinSorted(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func linkNames(links []catalog.Link) []string {
	names := make([]string, len(links))
	for i, l := range links {
		names[i] = l.Name
	}
	return names
}

func dependencyTargets(deps []catalog.Dependency) []string {
	targets := make([]string, len(deps))
	for i, d := range deps {
		targets[i] = d.TargetName
	}
	return targets
}
