package reconcile

import (
	"context"
	"fmt"

	"github.com/stackmap/stackmap/pkg/cache"
	"github.com/stackmap/stackmap/pkg/catalog"
	"github.com/stackmap/stackmap/pkg/diff"
	"github.com/stackmap/stackmap/pkg/errors"
	"github.com/stackmap/stackmap/pkg/remote"
)

// Components reconciles component resources and their dependency edges.
type Components struct {
	service
}

// ComponentPatch is a partial component update. Nil fields are left
// untouched; set fields are validated and applied.
type ComponentPatch struct {
	Name         *string
	Description  *string
	Type         *catalog.ComponentType
	Owner        *string
	Labels       *[]string
	Links        *[]catalog.Link
	Dependencies *[]catalog.Dependency
}

func (c *Components) resolver(sess *cache.Session) resolver[catalog.Component] {
	return resolver[catalog.Component]{
		kind: catalog.KindComponent,
		id:   func(v catalog.Component) string { return v.ID },
		name: func(v catalog.Component) string { return v.Name },
		list: func(ctx context.Context) ([]catalog.Component, error) {
			return sess.Components(ctx, c.fetchComponents)
		},
	}
}

// GetAll returns all components in the catalog.
func (c *Components) GetAll(ctx context.Context) ([]catalog.Component, error) {
	return cache.NewSession().Components(ctx, c.fetchComponents)
}

// GetByName resolves a component by its human name via a linear search
// over the full collection read.
func (c *Components) GetByName(ctx context.Context, name string) (catalog.Component, error) {
	return c.resolver(cache.NewSession()).byName(ctx, name)
}

// GetByID resolves a component by its opaque remote ID.
func (c *Components) GetByID(ctx context.Context, id string) (catalog.Component, error) {
	return c.resolver(cache.NewSession()).byID(ctx, id)
}

// Create validates the spec, checks for a name collision, verifies every
// dependency target resolves, and creates the component remotely. The
// uniqueness check is read-then-write: two concurrent creates of the
// same name can both pass it and both succeed remotely.
//
// Dependency edges are reconciled after the primary create. Edge
// failures are logged and swallowed: the component itself was created
// and is the operation's source of truth, and missing edges show up on a
// subsequent read.
func (c *Components) Create(ctx context.Context, spec catalog.Component) (catalog.Component, error) {
	var zero catalog.Component

	var v errors.ValidationError
	requireField(&v, "name", spec.Name)
	requireField(&v, "type", string(spec.Type))
	requireEnum(&v, "type", spec.Type, spec.Type.Valid(), catalog.ComponentTypes())
	if err := v.ErrOrNil(); err != nil {
		return zero, err
	}

	sess := cache.NewSession()
	res := c.resolver(sess)

	existing, err := res.byName(ctx, spec.Name)
	if err == nil {
		return zero, errors.NewConflictError(catalog.KindComponent.String(), spec.Name, existing.ID)
	}
	if !errors.IsNotFound(err) {
		return zero, err
	}

	targets, err := c.resolveDependencyTargets(ctx, res, spec.Dependencies)
	if err != nil {
		return zero, err
	}

	var payload struct {
		Created remote.ComponentNode `json:"createComponent"`
	}
	vars := map[string]any{"input": remote.ComponentInput(spec)}
	if err := c.client.Mutate(ctx, remote.OpCreateComponent, vars, &payload); err != nil {
		return zero, err
	}
	created := payload.Created.Component()
	sess.Invalidate(catalog.KindComponent)

	c.logger.Info().
		Str("kind", catalog.KindComponent.String()).
		Str("name", created.Name).
		Str("id", created.ID).
		Msg("component created")

	edges := diff.Keyed(nil, spec.Dependencies, catalog.Dependency.Key, mergeDependency)
	c.applyEdgeChanges(ctx, sess, created.ID, edges, targets)

	final, err := c.resolver(sess).byID(ctx, created.ID)
	if err != nil {
		// The primary create succeeded; fall back to the mutation
		// response rather than failing the whole operation.
		c.logger.Warn().Err(err).Str("id", created.ID).Msg("post-create read failed")
		return created, nil
	}
	return final, nil
}

// Update applies a partial update to the component with the given ID and
// returns the authoritative post-update state with a field-level
// change-log.
func (c *Components) Update(ctx context.Context, id string, patch ComponentPatch) (catalog.Component, []catalog.ChangeRecord, error) {
	var zero catalog.Component

	sess := cache.NewSession()
	before, err := c.resolver(sess).byID(ctx, id)
	if err != nil {
		return zero, nil, err
	}

	var v errors.ValidationError
	if patch.Name != nil {
		requireField(&v, "name", *patch.Name)
	}
	if patch.Type != nil {
		requireField(&v, "type", string(*patch.Type))
		requireEnum(&v, "type", *patch.Type, patch.Type.Valid(), catalog.ComponentTypes())
	}

	var edges diff.Changeset[catalog.Dependency]
	var targets map[string]string
	if patch.Dependencies != nil {
		targets, err = c.resolveDependencyTargets(ctx, c.resolver(sess), *patch.Dependencies)
		if verr, ok := errors.AsValidation(err); ok {
			v.Violations = append(v.Violations, verr.Violations...)
		} else if err != nil {
			return zero, nil, err
		}
		edges = diff.Keyed(before.Dependencies, *patch.Dependencies, catalog.Dependency.Key, mergeDependency)
	}
	if err := v.ErrOrNil(); err != nil {
		return zero, nil, err
	}

	input := componentPatchInput(before, patch)
	if len(input) > 0 {
		vars := map[string]any{"id": id, "input": input}
		if err := c.client.Mutate(ctx, remote.OpUpdateComponent, vars, nil); err != nil {
			return zero, nil, err
		}
		sess.Invalidate(catalog.KindComponent)
	}

	if patch.Dependencies != nil {
		c.applyEdgeChanges(ctx, sess, id, edges, targets)
	}

	after, err := c.resolver(sess).byID(ctx, id)
	if err != nil {
		return zero, nil, err
	}
	changeLog := diff.ComponentChanges(before, after)

	c.logger.Info().
		Str("kind", catalog.KindComponent.String()).
		Str("id", id).
		Int("changes", len(changeLog)).
		Msg("component updated")
	return after, changeLog, nil
}

// Delete removes the component with the given ID. Deletion is blocked
// with a Conflict listing the dependents when other components still
// depend on it.
func (c *Components) Delete(ctx context.Context, id string) error {
	sess := cache.NewSession()
	comp, err := c.resolver(sess).byID(ctx, id)
	if err != nil {
		return err
	}

	var payload struct {
		Dependents []remote.RelationshipNode `json:"dependents"`
	}
	if err := c.client.Query(ctx, remote.OpComponentDependents, map[string]any{"id": id}, &payload); err != nil {
		return err
	}
	if len(payload.Dependents) > 0 {
		dependents := make([]errors.Dependent, 0, len(payload.Dependents))
		for _, n := range payload.Dependents {
			dependents = append(dependents, n.Dependent())
		}
		return errors.NewDependentsError(catalog.KindComponent.String(), comp.Name, dependents)
	}

	if err := c.client.Mutate(ctx, remote.OpDeleteComponent, map[string]any{"id": id}, nil); err != nil {
		// The dependents query can miss edges created between the
		// check and the delete; the remote still rejects those.
		if remote.ReferentialIntegrity(err) {
			return &errors.ConflictError{Kind: catalog.KindComponent.String(), Name: comp.Name}
		}
		return err
	}
	sess.Invalidate(catalog.KindComponent)

	c.logger.Info().
		Str("kind", catalog.KindComponent.String()).
		Str("name", comp.Name).
		Str("id", id).
		Msg("component deleted")
	return nil
}

// resolveDependencyTargets resolves every dependency target name to its
// remote ID, collecting one violation per unresolved reference.
func (c *Components) resolveDependencyTargets(ctx context.Context, res resolver[catalog.Component], deps []catalog.Dependency) (map[string]string, error) {
	targets := make(map[string]string, len(deps))
	var v errors.ValidationError
	for i, dep := range deps {
		target, err := res.byName(ctx, dep.TargetName)
		switch {
		case err == nil:
			targets[dep.TargetName] = target.ID
		case errors.IsNotFound(err):
			v.Add(fmt.Sprintf("dependencies[%d].target", i), dep.TargetName, "does not resolve to an existing component")
		default:
			return nil, err
		}
	}
	if err := v.ErrOrNil(); err != nil {
		return nil, err
	}
	return targets, nil
}

// applyEdgeChanges issues relationship mutations for the edge changeset.
// Edges are identified by their (source, target, type) triple, so the
// update partition carries nothing to apply. Failures are logged and
// swallowed per the partial-failure policy; the cache is invalidated
// whenever at least one mutation was attempted.
func (c *Components) applyEdgeChanges(ctx context.Context, sess *cache.Session, sourceID string, edges diff.Changeset[catalog.Dependency], targets map[string]string) {
	mutated := false
	for _, dep := range edges.Create {
		vars := map[string]any{
			"startId": sourceID,
			"endId":   targets[dep.TargetName],
			"type":    string(catalog.RelationDependsOn),
		}
		if err := c.client.Mutate(ctx, remote.OpCreateRelationship, vars, nil); err != nil {
			c.logger.Warn().Err(err).
				Str("source_id", sourceID).
				Str("target", dep.TargetName).
				Msg("dependency edge creation failed")
			continue
		}
		mutated = true
	}
	for _, dep := range edges.Delete {
		if err := c.client.Mutate(ctx, remote.OpDeleteRelationship, map[string]any{"id": dep.ID}, nil); err != nil {
			c.logger.Warn().Err(err).
				Str("source_id", sourceID).
				Str("target", dep.TargetName).
				Msg("dependency edge deletion failed")
			continue
		}
		mutated = true
	}
	if mutated {
		sess.Invalidate(catalog.KindComponent)
	}
}

// componentPatchInput builds the scalar mutation input from the fields
// present in the patch that differ from the current state.
func componentPatchInput(before catalog.Component, patch ComponentPatch) map[string]any {
	input := map[string]any{}
	if patch.Name != nil && *patch.Name != before.Name {
		input["name"] = *patch.Name
	}
	if patch.Description != nil && *patch.Description != before.Description {
		input["description"] = *patch.Description
	}
	if patch.Type != nil && *patch.Type != before.Type {
		input["type"] = string(*patch.Type)
	}
	if patch.Owner != nil && *patch.Owner != before.Owner {
		input["owner"] = *patch.Owner
	}
	if patch.Labels != nil {
		input["labels"] = *patch.Labels
	}
	if patch.Links != nil {
		links := make([]map[string]any, 0, len(*patch.Links))
		for _, l := range *patch.Links {
			links = append(links, map[string]any{"name": l.Name, "url": l.URL})
		}
		input["links"] = links
	}
	return input
}

// mergeDependency keeps the existing edge's remote identity while taking
// the desired edge's target name.
func mergeDependency(existing, desired catalog.Dependency) catalog.Dependency {
	desired.ID = existing.ID
	desired.TargetID = existing.TargetID
	desired.Type = existing.Type
	return desired
}
