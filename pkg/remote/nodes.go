package remote

import (
	"github.com/stackmap/stackmap/pkg/catalog"
	"github.com/stackmap/stackmap/pkg/errors"
)

// Node shapes returned by the graph catalog. The catalog stores opaque
// IDs internally and exposes both ID and name on node references, which
// is what lets the engine correlate remote state with name-addressed
// desired state.

// NodeRef is a minimal reference to another node.
type NodeRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LinkNode is a labeled URL on a component.
type LinkNode struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RelationshipNode is a directed, typed edge between two components.
type RelationshipNode struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	StartNode *NodeRef `json:"startNode,omitempty"`
	EndNode   *NodeRef `json:"endNode,omitempty"`
}

// Dependent converts an incoming relationship edge into a dependent
// reference for conflict reporting.
func (n RelationshipNode) Dependent() errors.Dependent {
	dep := errors.Dependent{Kind: catalog.KindComponent.String()}
	if n.StartNode != nil {
		dep.ID = n.StartNode.ID
		dep.Name = n.StartNode.Name
	}
	return dep
}

// ComponentNode is a component as returned by the graph catalog.
type ComponentNode struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Type          string             `json:"type"`
	Owner         string             `json:"owner"`
	Labels        []string           `json:"labels"`
	Links         []LinkNode         `json:"links"`
	Relationships []RelationshipNode `json:"relationships"`
}

// Component maps the node into the catalog type. Outgoing dependency
// edges become Dependencies keyed by the target component name.
func (n ComponentNode) Component() catalog.Component {
	c := catalog.Component{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Type:        catalog.ComponentType(n.Type),
		Owner:       n.Owner,
		Labels:      n.Labels,
	}
	for _, l := range n.Links {
		c.Links = append(c.Links, catalog.Link{Name: l.Name, URL: l.URL})
	}
	for _, r := range n.Relationships {
		if r.EndNode == nil {
			continue
		}
		c.Dependencies = append(c.Dependencies, catalog.Dependency{
			ID:         r.ID,
			TargetName: r.EndNode.Name,
			TargetID:   r.EndNode.ID,
			Type:       catalog.RelationType(r.Type),
		})
	}
	return c
}

// MetricNode is a metric as returned by the graph catalog.
type MetricNode struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Owner       string   `json:"owner"`
	Schedule    string   `json:"schedule"`
	Labels      []string `json:"labels"`
}

// Metric maps the node into the catalog type.
func (n MetricNode) Metric() catalog.Metric {
	return catalog.Metric{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Type:        catalog.MetricType(n.Type),
		Owner:       n.Owner,
		Schedule:    n.Schedule,
		Labels:      n.Labels,
	}
}

// CriterionNode is a scorecard criterion as returned by the graph
// catalog. The metric reference carries both the opaque ID the catalog
// stores and the metric name the engine correlates by.
type CriterionNode struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Weight      int      `json:"weight"`
	Metric      *NodeRef `json:"metric,omitempty"`
}

// Criterion maps the node into the catalog type.
func (n CriterionNode) Criterion() catalog.Criterion {
	c := catalog.Criterion{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Category:    catalog.GradingCategory(n.Category),
		Weight:      n.Weight,
	}
	if n.Metric != nil {
		c.MetricName = n.Metric.Name
	}
	return c
}

// ScorecardNode is a scorecard as returned by the graph catalog.
type ScorecardNode struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Owner       string          `json:"owner"`
	Labels      []string        `json:"labels"`
	Criteria    []CriterionNode `json:"criteria"`
}

// Scorecard maps the node into the catalog type.
func (n ScorecardNode) Scorecard() catalog.Scorecard {
	s := catalog.Scorecard{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Owner:       n.Owner,
		Labels:      n.Labels,
	}
	for _, c := range n.Criteria {
		s.Criteria = append(s.Criteria, c.Criterion())
	}
	return s
}

// ComponentInput builds the mutation input for a component's scalar
// fields and display collections. Dependency edges are created through
// separate relationship mutations.
func ComponentInput(c catalog.Component) map[string]any {
	links := make([]map[string]any, 0, len(c.Links))
	for _, l := range c.Links {
		links = append(links, map[string]any{"name": l.Name, "url": l.URL})
	}
	return map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"type":        string(c.Type),
		"owner":       c.Owner,
		"labels":      c.Labels,
		"links":       links,
	}
}

// MetricInput builds the mutation input for a metric.
func MetricInput(m catalog.Metric) map[string]any {
	return map[string]any{
		"name":        m.Name,
		"description": m.Description,
		"type":        string(m.Type),
		"owner":       m.Owner,
		"schedule":    m.Schedule,
		"labels":      m.Labels,
	}
}

// CriterionInput builds the mutation input for a criterion. metricID is
// the resolved remote ID of the referenced metric, empty when the
// criterion references no metric.
func CriterionInput(c catalog.Criterion, metricID string) map[string]any {
	input := map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"category":    string(c.Category),
		"weight":      c.Weight,
	}
	if metricID != "" {
		input["metricId"] = metricID
	}
	return input
}
