package catalog

// GradingCategory groups scorecard criteria by concern.
type GradingCategory string

// Allowed grading categories.
const (
	GradingReliability   GradingCategory = "reliability"
	GradingSecurity      GradingCategory = "security"
	GradingObservability GradingCategory = "observability"
	GradingQuality       GradingCategory = "quality"
	GradingCost          GradingCategory = "cost"
)

// Valid reports whether the grading category is an allowed value.
func (c GradingCategory) Valid() bool {
	switch c {
	case GradingReliability, GradingSecurity, GradingObservability, GradingQuality, GradingCost:
		return true
	}
	return false
}

// GradingCategories returns all allowed grading categories.
func GradingCategories() []GradingCategory {
	return []GradingCategory{
		GradingReliability,
		GradingSecurity,
		GradingObservability,
		GradingQuality,
		GradingCost,
	}
}

// Criterion is a single graded check within a scorecard. The remote catalog
// assigns each criterion an opaque sub-resource ID; specs correlate criteria
// by name and may reference a metric by name.
type Criterion struct {
	ID          string          `json:"id,omitempty" yaml:"-"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Category    GradingCategory `json:"category" yaml:"category"`
	Weight      int             `json:"weight" yaml:"weight"`
	MetricName  string          `json:"metricName,omitempty" yaml:"metric,omitempty"`
}

// Key returns the criterion's natural key: its name.
func (c Criterion) Key() string {
	return c.Name
}

// Scorecard is a named collection of graded criteria evaluated against
// components.
type Scorecard struct {
	ID          string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Owner       string      `json:"owner,omitempty" yaml:"owner,omitempty"`
	Labels      []string    `json:"labels,omitempty" yaml:"labels,omitempty"`
	Criteria    []Criterion `json:"criteria,omitempty" yaml:"criteria,omitempty"`
}
