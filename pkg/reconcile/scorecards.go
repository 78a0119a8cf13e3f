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

// Scorecards reconciles scorecard resources and their nested criteria.
// Criteria are sub-resources: they correlate by name, and their
// create/update/delete sets travel inside the scorecard mutation input,
// so a criteria change succeeds or fails with the scorecard itself.
type Scorecards struct {
	service
}

// ScorecardPatch is a partial scorecard update. Nil fields are left
// untouched. A non-nil Criteria replaces the full criteria set: criteria
// absent from it are deleted remotely.
type ScorecardPatch struct {
	Name        *string
	Description *string
	Owner       *string
	Labels      *[]string
	Criteria    *[]catalog.Criterion
}

func (s *Scorecards) resolver(sess *cache.Session) resolver[catalog.Scorecard] {
	return resolver[catalog.Scorecard]{
		kind: catalog.KindScorecard,
		id:   func(v catalog.Scorecard) string { return v.ID },
		name: func(v catalog.Scorecard) string { return v.Name },
		list: func(ctx context.Context) ([]catalog.Scorecard, error) {
			return sess.Scorecards(ctx, s.fetchScorecards)
		},
	}
}

// GetAll returns all scorecards in the catalog.
func (s *Scorecards) GetAll(ctx context.Context) ([]catalog.Scorecard, error) {
	return cache.NewSession().Scorecards(ctx, s.fetchScorecards)
}

// GetByName resolves a scorecard by its human name.
func (s *Scorecards) GetByName(ctx context.Context, name string) (catalog.Scorecard, error) {
	return s.resolver(cache.NewSession()).byName(ctx, name)
}

// GetByID resolves a scorecard by its opaque remote ID.
func (s *Scorecards) GetByID(ctx context.Context, id string) (catalog.Scorecard, error) {
	return s.resolver(cache.NewSession()).byID(ctx, id)
}

// Create validates the spec and its criteria, checks for a name
// collision, resolves metric references, and creates the scorecard with
// its criteria in one remote mutation.
func (s *Scorecards) Create(ctx context.Context, spec catalog.Scorecard) (catalog.Scorecard, error) {
	var zero catalog.Scorecard

	sess := cache.NewSession()

	var v errors.ValidationError
	requireField(&v, "name", spec.Name)
	validateCriteria(&v, spec.Criteria)
	metricIDs, err := s.resolveMetricRefs(ctx, sess, &v, spec.Criteria)
	if err != nil {
		return zero, err
	}
	if err := v.ErrOrNil(); err != nil {
		return zero, err
	}

	existing, err := s.resolver(sess).byName(ctx, spec.Name)
	if err == nil {
		return zero, errors.NewConflictError(catalog.KindScorecard.String(), spec.Name, existing.ID)
	}
	if !errors.IsNotFound(err) {
		return zero, err
	}

	criteria := make([]map[string]any, 0, len(spec.Criteria))
	for _, crit := range spec.Criteria {
		criteria = append(criteria, remote.CriterionInput(crit, metricIDs[crit.MetricName]))
	}
	input := map[string]any{
		"name":        spec.Name,
		"description": spec.Description,
		"owner":       spec.Owner,
		"labels":      spec.Labels,
		"criteria":    criteria,
	}

	var payload struct {
		Created remote.ScorecardNode `json:"createScorecard"`
	}
	if err := s.client.Mutate(ctx, remote.OpCreateScorecard, map[string]any{"input": input}, &payload); err != nil {
		return zero, err
	}
	sess.Invalidate(catalog.KindScorecard)

	created := payload.Created.Scorecard()
	s.logger.Info().
		Str("kind", catalog.KindScorecard.String()).
		Str("name", created.Name).
		Str("id", created.ID).
		Int("criteria", len(created.Criteria)).
		Msg("scorecard created")
	return created, nil
}

// Update applies a partial update to the scorecard with the given ID and
// returns the authoritative post-update state with a field-level
// change-log. When the patch carries criteria, the set is diffed against
// remote state by name and the resulting create/update/delete operations
// travel inside the mutation input.
func (s *Scorecards) Update(ctx context.Context, id string, patch ScorecardPatch) (catalog.Scorecard, []catalog.ChangeRecord, error) {
	var zero catalog.Scorecard

	sess := cache.NewSession()
	before, err := s.resolver(sess).byID(ctx, id)
	if err != nil {
		return zero, nil, err
	}

	var v errors.ValidationError
	if patch.Name != nil {
		requireField(&v, "name", *patch.Name)
	}
	var metricIDs map[string]string
	if patch.Criteria != nil {
		validateCriteria(&v, *patch.Criteria)
		metricIDs, err = s.resolveMetricRefs(ctx, sess, &v, *patch.Criteria)
		if err != nil {
			return zero, nil, err
		}
	}
	if err := v.ErrOrNil(); err != nil {
		return zero, nil, err
	}

	input := scorecardPatchInput(before, patch)
	if patch.Criteria != nil {
		changes := diff.Keyed(before.Criteria, *patch.Criteria, catalog.Criterion.Key, mergeCriterion)
		if changes.HasChanges() {
			creates := make([]map[string]any, 0, len(changes.Create))
			for _, crit := range changes.Create {
				creates = append(creates, remote.CriterionInput(crit, metricIDs[crit.MetricName]))
			}
			updates := make([]map[string]any, 0, len(changes.Update))
			for _, crit := range changes.Update {
				u := remote.CriterionInput(crit, metricIDs[crit.MetricName])
				u["id"] = crit.ID
				updates = append(updates, u)
			}
			deleteIDs := make([]string, 0, len(changes.Delete))
			for _, crit := range changes.Delete {
				deleteIDs = append(deleteIDs, crit.ID)
			}
			input["createCriteria"] = creates
			input["updateCriteria"] = updates
			input["deleteCriteriaIds"] = deleteIDs
		}
	}

	if len(input) > 0 {
		vars := map[string]any{"id": id, "input": input}
		if err := s.client.Mutate(ctx, remote.OpUpdateScorecard, vars, nil); err != nil {
			return zero, nil, err
		}
		sess.Invalidate(catalog.KindScorecard)
	}

	after, err := s.resolver(sess).byID(ctx, id)
	if err != nil {
		return zero, nil, err
	}
	changeLog := diff.ScorecardChanges(before, after)

	s.logger.Info().
		Str("kind", catalog.KindScorecard.String()).
		Str("id", id).
		Int("changes", len(changeLog)).
		Msg("scorecard updated")
	return after, changeLog, nil
}

// Delete removes the scorecard with the given ID along with its criteria.
// Nothing in the catalog depends on a scorecard, so there is no dependents
// check; a remote integrity rejection is still reported as a Conflict.
func (s *Scorecards) Delete(ctx context.Context, id string) error {
	sess := cache.NewSession()
	sc, err := s.resolver(sess).byID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.client.Mutate(ctx, remote.OpDeleteScorecard, map[string]any{"id": id}, nil); err != nil {
		if remote.ReferentialIntegrity(err) {
			return &errors.ConflictError{Kind: catalog.KindScorecard.String(), Name: sc.Name}
		}
		return err
	}
	sess.Invalidate(catalog.KindScorecard)

	s.logger.Info().
		Str("kind", catalog.KindScorecard.String()).
		Str("name", sc.Name).
		Str("id", id).
		Msg("scorecard deleted")
	return nil
}

// resolveMetricRefs resolves every criterion metric reference to its
// remote ID, recording one violation per unresolved reference.
func (s *Scorecards) resolveMetricRefs(ctx context.Context, sess *cache.Session, v *errors.ValidationError, criteria []catalog.Criterion) (map[string]string, error) {
	metrics, err := sess.Metrics(ctx, s.fetchMetrics)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(metrics))
	for _, m := range metrics {
		byName[m.Name] = m.ID
	}

	resolved := make(map[string]string)
	for i, crit := range criteria {
		if crit.MetricName == "" {
			continue
		}
		id, ok := byName[crit.MetricName]
		if !ok {
			v.Add(fmt.Sprintf("criteria[%d].metric", i), crit.MetricName, "does not resolve to an existing metric")
			continue
		}
		resolved[crit.MetricName] = id
	}
	return resolved, nil
}

// validateCriteria checks criterion fields, reporting violations with
// indexed paths. Duplicate criterion names would make name-keyed
// correlation ambiguous and are rejected.
func validateCriteria(v *errors.ValidationError, criteria []catalog.Criterion) {
	seen := make(map[string]bool, len(criteria))
	for i, crit := range criteria {
		requireField(v, fmt.Sprintf("criteria[%d].name", i), crit.Name)
		requireField(v, fmt.Sprintf("criteria[%d].category", i), string(crit.Category))
		requireEnum(v, fmt.Sprintf("criteria[%d].category", i), crit.Category, crit.Category.Valid(), catalog.GradingCategories())
		requirePositive(v, fmt.Sprintf("criteria[%d].weight", i), crit.Weight)
		if crit.Name != "" && seen[crit.Name] {
			v.Add(fmt.Sprintf("criteria[%d].name", i), crit.Name, "duplicates another criterion name")
		}
		seen[crit.Name] = true
	}
}

// scorecardPatchInput builds the scalar mutation input from the fields
// present in the patch that differ from the current state.
func scorecardPatchInput(before catalog.Scorecard, patch ScorecardPatch) map[string]any {
	input := map[string]any{}
	if patch.Name != nil && *patch.Name != before.Name {
		input["name"] = *patch.Name
	}
	if patch.Description != nil && *patch.Description != before.Description {
		input["description"] = *patch.Description
	}
	if patch.Owner != nil && *patch.Owner != before.Owner {
		input["owner"] = *patch.Owner
	}
	if patch.Labels != nil {
		input["labels"] = *patch.Labels
	}
	return input
}

// mergeCriterion keeps the existing criterion's remote ID while taking
// every desired field.
func mergeCriterion(existing, desired catalog.Criterion) catalog.Criterion {
	desired.ID = existing.ID
	return desired
}
