package catalog

// MetricType categorizes how a metric's values are interpreted.
type MetricType string

// Allowed metric types.
const (
	MetricTypeCounter    MetricType = "counter"
	MetricTypeGauge      MetricType = "gauge"
	MetricTypePercentage MetricType = "percentage"
	MetricTypeDuration   MetricType = "duration"
)

// Valid reports whether the metric type is an allowed value.
func (t MetricType) Valid() bool {
	switch t {
	case MetricTypeCounter, MetricTypeGauge, MetricTypePercentage, MetricTypeDuration:
		return true
	}
	return false
}

// MetricTypes returns all allowed metric types.
func MetricTypes() []MetricType {
	return []MetricType{MetricTypeCounter, MetricTypeGauge, MetricTypePercentage, MetricTypeDuration}
}

// Metric is a named measurement definition in the catalog. Scorecards
// reference metrics by name from their criteria.
type Metric struct {
	ID          string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Type        MetricType `json:"type" yaml:"type"`
	Owner       string     `json:"owner,omitempty" yaml:"owner,omitempty"`
	Schedule    string     `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Labels      []string   `json:"labels,omitempty" yaml:"labels,omitempty"`
}
