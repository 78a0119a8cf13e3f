package reconcile_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stackmap/stackmap/pkg/errors"
	"github.com/stackmap/stackmap/pkg/reconcile"
	"github.com/stackmap/stackmap/pkg/remote"
)

// fakeCatalog is an in-memory remote.Client. It stores nodes the way the
// graph catalog does (opaque IDs, relationships as separate edges) and
// answers the same operation documents the real client sends.
type fakeCatalog struct {
	mu            sync.Mutex
	components    map[string]remote.ComponentNode
	metrics       map[string]remote.MetricNode
	scorecards    map[string]remote.ScorecardNode
	relationships map[string]fakeRelationship

	fail      map[string]error
	mutations map[string]int
	lastVars  map[string]map[string]any
}

type fakeRelationship struct {
	ID      string
	Type    string
	StartID string
	EndID   string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		components:    map[string]remote.ComponentNode{},
		metrics:       map[string]remote.MetricNode{},
		scorecards:    map[string]remote.ScorecardNode{},
		relationships: map[string]fakeRelationship{},
		fail:          map[string]error{},
		mutations:     map[string]int{},
		lastVars:      map[string]map[string]any{},
	}
}

func newTestReconciler(t *testing.T) (*reconcile.Reconciler, *fakeCatalog) {
	t.Helper()
	fake := newFakeCatalog()
	nop := zerolog.Nop()
	return reconcile.New(fake, reconcile.WithLogger(&nop)), fake
}

// failWith injects an error returned for every call of the given
// operation document.
func (f *fakeCatalog) failWith(operation string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[operation] = err
}

func (f *fakeCatalog) mutationCount(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations[operation]
}

func (f *fakeCatalog) lastInput(operation string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	input, _ := f.lastVars[operation]["input"].(map[string]any)
	return input
}

func (f *fakeCatalog) Query(_ context.Context, operation string, vars map[string]any, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[operation]; err != nil {
		return err
	}

	switch operation {
	case remote.OpListComponents:
		nodes := make([]remote.ComponentNode, 0, len(f.components))
		for id := range f.components {
			nodes = append(nodes, f.renderComponent(id))
		}
		return respond(out, map[string]any{"components": nodes})
	case remote.OpListMetrics:
		nodes := make([]remote.MetricNode, 0, len(f.metrics))
		for _, n := range f.metrics {
			nodes = append(nodes, n)
		}
		return respond(out, map[string]any{"metrics": nodes})
	case remote.OpListScorecards:
		nodes := make([]remote.ScorecardNode, 0, len(f.scorecards))
		for _, n := range f.scorecards {
			nodes = append(nodes, n)
		}
		return respond(out, map[string]any{"scorecards": nodes})
	case remote.OpComponentDependents:
		id, _ := vars["id"].(string)
		return respond(out, map[string]any{"dependents": f.incomingEdges(id)})
	}
	return errors.NewRemoteRejectedError(operation, "BAD_REQUEST", "unknown query")
}

func (f *fakeCatalog) Mutate(_ context.Context, operation string, vars map[string]any, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations[operation]++
	f.lastVars[operation] = vars
	if err := f.fail[operation]; err != nil {
		return err
	}

	switch operation {
	case remote.OpCreateComponent:
		var node remote.ComponentNode
		decode(vars["input"], &node)
		node.ID = uuid.NewString()
		f.components[node.ID] = node
		return respond(out, map[string]any{"createComponent": f.renderComponent(node.ID)})

	case remote.OpUpdateComponent:
		id, _ := vars["id"].(string)
		node, ok := f.components[id]
		if !ok {
			return errors.NewRemoteRejectedError(operation, "NOT_FOUND", "no such component")
		}
		var patch struct {
			Name        *string            `json:"name"`
			Description *string            `json:"description"`
			Type        *string            `json:"type"`
			Owner       *string            `json:"owner"`
			Labels      *[]string          `json:"labels"`
			Links       *[]remote.LinkNode `json:"links"`
		}
		decode(vars["input"], &patch)
		applyString(&node.Name, patch.Name)
		applyString(&node.Description, patch.Description)
		applyString(&node.Type, patch.Type)
		applyString(&node.Owner, patch.Owner)
		if patch.Labels != nil {
			node.Labels = *patch.Labels
		}
		if patch.Links != nil {
			node.Links = *patch.Links
		}
		f.components[id] = node
		return respond(out, map[string]any{"updateComponent": map[string]any{"id": id}})

	case remote.OpDeleteComponent:
		id, _ := vars["id"].(string)
		if len(f.incomingEdges(id)) > 0 {
			return errors.NewRemoteRejectedError(operation, "IN_USE", "component is in use")
		}
		delete(f.components, id)
		for relID, rel := range f.relationships {
			if rel.StartID == id {
				delete(f.relationships, relID)
			}
		}
		return nil

	case remote.OpCreateRelationship:
		rel := fakeRelationship{ID: uuid.NewString(), Type: "DEPENDS_ON"}
		rel.StartID, _ = vars["startId"].(string)
		rel.EndID, _ = vars["endId"].(string)
		if t, ok := vars["type"].(string); ok {
			rel.Type = t
		}
		if _, ok := f.components[rel.EndID]; !ok {
			return errors.NewRemoteRejectedError(operation, "NOT_FOUND", "no such end node")
		}
		f.relationships[rel.ID] = rel
		return respond(out, map[string]any{"createRelationship": map[string]any{"id": rel.ID}})

	case remote.OpDeleteRelationship:
		id, _ := vars["id"].(string)
		delete(f.relationships, id)
		return nil

	case remote.OpCreateMetric:
		var node remote.MetricNode
		decode(vars["input"], &node)
		node.ID = uuid.NewString()
		f.metrics[node.ID] = node
		return respond(out, map[string]any{"createMetric": node})

	case remote.OpUpdateMetric:
		id, _ := vars["id"].(string)
		node, ok := f.metrics[id]
		if !ok {
			return errors.NewRemoteRejectedError(operation, "NOT_FOUND", "no such metric")
		}
		var patch struct {
			Name        *string   `json:"name"`
			Description *string   `json:"description"`
			Type        *string   `json:"type"`
			Owner       *string   `json:"owner"`
			Schedule    *string   `json:"schedule"`
			Labels      *[]string `json:"labels"`
		}
		decode(vars["input"], &patch)
		applyString(&node.Name, patch.Name)
		applyString(&node.Description, patch.Description)
		applyString(&node.Type, patch.Type)
		applyString(&node.Owner, patch.Owner)
		applyString(&node.Schedule, patch.Schedule)
		if patch.Labels != nil {
			node.Labels = *patch.Labels
		}
		f.metrics[id] = node
		return respond(out, map[string]any{"updateMetric": map[string]any{"id": id}})

	case remote.OpDeleteMetric:
		id, _ := vars["id"].(string)
		for _, sc := range f.scorecards {
			for _, crit := range sc.Criteria {
				if crit.Metric != nil && crit.Metric.ID == id {
					return errors.NewRemoteRejectedError(operation, "IN_USE", "metric is referenced by scorecard criteria")
				}
			}
		}
		delete(f.metrics, id)
		return nil

	case remote.OpCreateScorecard:
		var input struct {
			Name        string        `json:"name"`
			Description string        `json:"description"`
			Owner       string        `json:"owner"`
			Labels      []string      `json:"labels"`
			Criteria    []criterionIn `json:"criteria"`
		}
		decode(vars["input"], &input)
		node := remote.ScorecardNode{
			ID:          uuid.NewString(),
			Name:        input.Name,
			Description: input.Description,
			Owner:       input.Owner,
			Labels:      input.Labels,
		}
		for _, c := range input.Criteria {
			node.Criteria = append(node.Criteria, f.renderCriterion(c, uuid.NewString()))
		}
		f.scorecards[node.ID] = node
		return respond(out, map[string]any{"createScorecard": node})

	case remote.OpUpdateScorecard:
		id, _ := vars["id"].(string)
		node, ok := f.scorecards[id]
		if !ok {
			return errors.NewRemoteRejectedError(operation, "NOT_FOUND", "no such scorecard")
		}
		var patch struct {
			Name              *string       `json:"name"`
			Description       *string       `json:"description"`
			Owner             *string       `json:"owner"`
			Labels            *[]string     `json:"labels"`
			CreateCriteria    []criterionIn `json:"createCriteria"`
			UpdateCriteria    []criterionIn `json:"updateCriteria"`
			DeleteCriteriaIDs []string      `json:"deleteCriteriaIds"`
		}
		decode(vars["input"], &patch)
		applyString(&node.Name, patch.Name)
		applyString(&node.Description, patch.Description)
		applyString(&node.Owner, patch.Owner)
		if patch.Labels != nil {
			node.Labels = *patch.Labels
		}
		deleted := map[string]bool{}
		for _, critID := range patch.DeleteCriteriaIDs {
			deleted[critID] = true
		}
		var criteria []remote.CriterionNode
		for _, crit := range node.Criteria {
			if deleted[crit.ID] {
				continue
			}
			criteria = append(criteria, crit)
		}
		for _, c := range patch.UpdateCriteria {
			for i, crit := range criteria {
				if crit.ID == c.ID {
					criteria[i] = f.renderCriterion(c, c.ID)
				}
			}
		}
		for _, c := range patch.CreateCriteria {
			criteria = append(criteria, f.renderCriterion(c, uuid.NewString()))
		}
		node.Criteria = criteria
		f.scorecards[id] = node
		return respond(out, map[string]any{"updateScorecard": map[string]any{"id": id}})

	case remote.OpDeleteScorecard:
		id, _ := vars["id"].(string)
		delete(f.scorecards, id)
		return nil
	}
	return errors.NewRemoteRejectedError(operation, "BAD_REQUEST", "unknown mutation")
}

type criterionIn struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Weight      int    `json:"weight"`
	MetricID    string `json:"metricId"`
}

func (f *fakeCatalog) renderCriterion(c criterionIn, id string) remote.CriterionNode {
	node := remote.CriterionNode{
		ID:          id,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Weight:      c.Weight,
	}
	if c.MetricID != "" {
		if m, ok := f.metrics[c.MetricID]; ok {
			node.Metric = &remote.NodeRef{ID: m.ID, Name: m.Name}
		}
	}
	return node
}

func (f *fakeCatalog) renderComponent(id string) remote.ComponentNode {
	node := f.components[id]
	node.Relationships = nil
	for _, rel := range f.relationships {
		if rel.StartID != id {
			continue
		}
		end := f.components[rel.EndID]
		node.Relationships = append(node.Relationships, remote.RelationshipNode{
			ID:      rel.ID,
			Type:    rel.Type,
			EndNode: &remote.NodeRef{ID: end.ID, Name: end.Name},
		})
	}
	return node
}

func (f *fakeCatalog) incomingEdges(id string) []remote.RelationshipNode {
	var edges []remote.RelationshipNode
	for _, rel := range f.relationships {
		if rel.EndID != id {
			continue
		}
		start := f.components[rel.StartID]
		edges = append(edges, remote.RelationshipNode{
			ID:        rel.ID,
			Type:      rel.Type,
			StartNode: &remote.NodeRef{ID: start.ID, Name: start.Name},
		})
	}
	return edges
}

// respond round-trips the payload through JSON into out, mirroring how
// the real client decodes response data.
func respond(out any, payload map[string]any) error {
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func decode(in, out any) {
	raw, _ := json.Marshal(in)
	_ = json.Unmarshal(raw, out)
}

func applyString[T ~string](dst *T, src *string) {
	if src != nil {
		*dst = T(*src)
	}
}
