package reconcile

import (
	"context"

	"github.com/stackmap/stackmap/pkg/cache"
	"github.com/stackmap/stackmap/pkg/catalog"
	"github.com/stackmap/stackmap/pkg/diff"
	"github.com/stackmap/stackmap/pkg/errors"
	"github.com/stackmap/stackmap/pkg/remote"
)

// Metrics reconciles metric resources. Metrics carry scalar fields only;
// their relationship to scorecards is owned by the criteria that
// reference them.
type Metrics struct {
	service
}

// MetricPatch is a partial metric update. Nil fields are left untouched.
type MetricPatch struct {
	Name        *string
	Description *string
	Type        *catalog.MetricType
	Owner       *string
	Schedule    *string
	Labels      *[]string
}

func (m *Metrics) resolver(sess *cache.Session) resolver[catalog.Metric] {
	return resolver[catalog.Metric]{
		kind: catalog.KindMetric,
		id:   func(v catalog.Metric) string { return v.ID },
		name: func(v catalog.Metric) string { return v.Name },
		list: func(ctx context.Context) ([]catalog.Metric, error) {
			return sess.Metrics(ctx, m.fetchMetrics)
		},
	}
}

// GetAll returns all metrics in the catalog.
func (m *Metrics) GetAll(ctx context.Context) ([]catalog.Metric, error) {
	return cache.NewSession().Metrics(ctx, m.fetchMetrics)
}

// GetByName resolves a metric by its human name.
func (m *Metrics) GetByName(ctx context.Context, name string) (catalog.Metric, error) {
	return m.resolver(cache.NewSession()).byName(ctx, name)
}

// GetByID resolves a metric by its opaque remote ID.
func (m *Metrics) GetByID(ctx context.Context, id string) (catalog.Metric, error) {
	return m.resolver(cache.NewSession()).byID(ctx, id)
}

// Create validates the spec, checks for a name collision, and creates the
// metric remotely. The uniqueness check is read-then-write and shares the
// caveat documented on the package.
func (m *Metrics) Create(ctx context.Context, spec catalog.Metric) (catalog.Metric, error) {
	var zero catalog.Metric

	var v errors.ValidationError
	requireField(&v, "name", spec.Name)
	requireField(&v, "type", string(spec.Type))
	requireEnum(&v, "type", spec.Type, spec.Type.Valid(), catalog.MetricTypes())
	if err := v.ErrOrNil(); err != nil {
		return zero, err
	}

	sess := cache.NewSession()
	existing, err := m.resolver(sess).byName(ctx, spec.Name)
	if err == nil {
		return zero, errors.NewConflictError(catalog.KindMetric.String(), spec.Name, existing.ID)
	}
	if !errors.IsNotFound(err) {
		return zero, err
	}

	var payload struct {
		Created remote.MetricNode `json:"createMetric"`
	}
	vars := map[string]any{"input": remote.MetricInput(spec)}
	if err := m.client.Mutate(ctx, remote.OpCreateMetric, vars, &payload); err != nil {
		return zero, err
	}
	sess.Invalidate(catalog.KindMetric)

	created := payload.Created.Metric()
	m.logger.Info().
		Str("kind", catalog.KindMetric.String()).
		Str("name", created.Name).
		Str("id", created.ID).
		Msg("metric created")
	return created, nil
}

// Update applies a partial update to the metric with the given ID and
// returns the authoritative post-update state with a field-level
// change-log.
func (m *Metrics) Update(ctx context.Context, id string, patch MetricPatch) (catalog.Metric, []catalog.ChangeRecord, error) {
	var zero catalog.Metric

	sess := cache.NewSession()
	before, err := m.resolver(sess).byID(ctx, id)
	if err != nil {
		return zero, nil, err
	}

	var v errors.ValidationError
	if patch.Name != nil {
		requireField(&v, "name", *patch.Name)
	}
	if patch.Type != nil {
		requireField(&v, "type", string(*patch.Type))
		requireEnum(&v, "type", *patch.Type, patch.Type.Valid(), catalog.MetricTypes())
	}
	if err := v.ErrOrNil(); err != nil {
		return zero, nil, err
	}

	input := metricPatchInput(before, patch)
	if len(input) > 0 {
		vars := map[string]any{"id": id, "input": input}
		if err := m.client.Mutate(ctx, remote.OpUpdateMetric, vars, nil); err != nil {
			return zero, nil, err
		}
		sess.Invalidate(catalog.KindMetric)
	}

	after, err := m.resolver(sess).byID(ctx, id)
	if err != nil {
		return zero, nil, err
	}
	changeLog := diff.MetricChanges(before, after)

	m.logger.Info().
		Str("kind", catalog.KindMetric.String()).
		Str("id", id).
		Int("changes", len(changeLog)).
		Msg("metric updated")
	return after, changeLog, nil
}

// Delete removes the metric with the given ID. Deletion is blocked with a
// Conflict listing the referencing scorecards when any scorecard
// criterion still points at the metric.
func (m *Metrics) Delete(ctx context.Context, id string) error {
	sess := cache.NewSession()
	metric, err := m.resolver(sess).byID(ctx, id)
	if err != nil {
		return err
	}

	dependents, err := m.referencingScorecards(ctx, sess, metric.Name)
	if err != nil {
		return err
	}
	if len(dependents) > 0 {
		return errors.NewDependentsError(catalog.KindMetric.String(), metric.Name, dependents)
	}

	if err := m.client.Mutate(ctx, remote.OpDeleteMetric, map[string]any{"id": id}, nil); err != nil {
		if remote.ReferentialIntegrity(err) {
			return &errors.ConflictError{Kind: catalog.KindMetric.String(), Name: metric.Name}
		}
		return err
	}
	sess.Invalidate(catalog.KindMetric)

	m.logger.Info().
		Str("kind", catalog.KindMetric.String()).
		Str("name", metric.Name).
		Str("id", id).
		Msg("metric deleted")
	return nil
}

// referencingScorecards lists the scorecards whose criteria reference the
// named metric. The graph catalog exposes no reverse lookup from metric
// to criteria, so the scan runs over the session's scorecard read.
func (m *Metrics) referencingScorecards(ctx context.Context, sess *cache.Session, metricName string) ([]errors.Dependent, error) {
	scorecards, err := sess.Scorecards(ctx, m.fetchScorecards)
	if err != nil {
		return nil, err
	}
	var dependents []errors.Dependent
	for _, sc := range scorecards {
		for _, crit := range sc.Criteria {
			if crit.MetricName == metricName {
				dependents = append(dependents, errors.Dependent{
					Kind: catalog.KindScorecard.String(),
					ID:   sc.ID,
					Name: sc.Name,
				})
				break
			}
		}
	}
	return dependents, nil
}

// metricPatchInput builds the mutation input from the fields present in
// the patch that differ from the current state.
func metricPatchInput(before catalog.Metric, patch MetricPatch) map[string]any {
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
	if patch.Schedule != nil && *patch.Schedule != before.Schedule {
		input["schedule"] = *patch.Schedule
	}
	if patch.Labels != nil {
		input["labels"] = *patch.Labels
	}
	return input
}
