// Package catalog defines the resource types of the engineering catalog:
// components, metrics, and scorecards, plus their nested child items and
// the change records produced when they are reconciled.
//
// Resources carry two identities: an opaque remote ID assigned by the graph
// catalog on creation, and a human name unique within the kind. Nested child
// items (criteria, dependency edges) are correlated between desired and
// remote state by a natural key — a human-meaningful name — never by the
// remote-assigned ID.
package catalog

// Kind identifies a resource kind in the catalog.
type Kind string

// Resource kinds.
const (
	KindComponent Kind = "component"
	KindMetric    Kind = "metric"
	KindScorecard Kind = "scorecard"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether the kind is one of the known resource kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindComponent, KindMetric, KindScorecard:
		return true
	}
	return false
}

// Kinds returns all known resource kinds.
func Kinds() []Kind {
	return []Kind{KindComponent, KindMetric, KindScorecard}
}
