package catalog

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/stackmap/stackmap/pkg/errors"
)

// Spec is the declarative desired state submitted by clients: the full set
// of resources to reconcile against the remote catalog.
type Spec struct {
	Components []Component `yaml:"components,omitempty"`
	Metrics    []Metric    `yaml:"metrics,omitempty"`
	Scorecards []Scorecard `yaml:"scorecards,omitempty"`
}

// Empty reports whether the spec declares no resources.
func (s *Spec) Empty() bool {
	return len(s.Components) == 0 && len(s.Metrics) == 0 && len(s.Scorecards) == 0
}

// ParseSpec parses a YAML document into a Spec.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return &spec, nil
}

// LoadSpec reads and parses a YAML spec file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return spec, nil
}
