package catalog

// ComponentType categorizes a component.
type ComponentType string

// Allowed component types.
const (
	ComponentTypeService   ComponentType = "service"
	ComponentTypeLibrary   ComponentType = "library"
	ComponentTypeWebsite   ComponentType = "website"
	ComponentTypePipeline  ComponentType = "pipeline"
	ComponentTypeDatastore ComponentType = "datastore"
)

// Valid reports whether the component type is an allowed value.
func (t ComponentType) Valid() bool {
	switch t {
	case ComponentTypeService, ComponentTypeLibrary, ComponentTypeWebsite,
		ComponentTypePipeline, ComponentTypeDatastore:
		return true
	}
	return false
}

// ComponentTypes returns all allowed component types.
func ComponentTypes() []ComponentType {
	return []ComponentType{
		ComponentTypeService,
		ComponentTypeLibrary,
		ComponentTypeWebsite,
		ComponentTypePipeline,
		ComponentTypeDatastore,
	}
}

// RelationType identifies the type of a relationship edge. The catalog
// uses a single relation kind for component dependencies.
type RelationType string

// RelationDependsOn is the dependency edge type between components.
const RelationDependsOn RelationType = "DEPENDS_ON"

// Link is a labeled URL attached to a component for display purposes.
type Link struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Dependency is a directed edge from a component to another component it
// depends on. Desired-state specs reference the target by name; the edge ID
// and target ID are filled from remote state and never set by clients.
type Dependency struct {
	ID         string       `json:"id,omitempty" yaml:"-"`
	TargetName string       `json:"targetName" yaml:"target"`
	TargetID   string       `json:"targetId,omitempty" yaml:"-"`
	Type       RelationType `json:"type,omitempty" yaml:"-"`
}

// Key returns the dependency's natural key: the target component name.
func (d Dependency) Key() string {
	return d.TargetName
}

// Component is a named engineering resource in the catalog, such as a
// service or library, with zero or more dependency edges to other
// components.
type Component struct {
	ID           string        `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Type         ComponentType `json:"type" yaml:"type"`
	Owner        string        `json:"owner,omitempty" yaml:"owner,omitempty"`
	Labels       []string      `json:"labels,omitempty" yaml:"labels,omitempty"`
	Links        []Link        `json:"links,omitempty" yaml:"links,omitempty"`
	Dependencies []Dependency  `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}
