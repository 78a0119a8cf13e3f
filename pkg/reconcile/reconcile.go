// Package reconcile implements the reconciliation engine: given a desired
// specification and the current remote state of a named resource, it
// resolves identity, detects name collisions, computes a minimal diff for
// scalar fields and nested child collections, translates the diff into
// ordered create/update/delete operations against the remote graph
// catalog, and produces a field-level change-log.
//
// Each operation runs as a single sequence of remote calls over its own
// session-scoped read cache. There are no ordering guarantees between
// concurrent operations on the same resource name: the create-time
// uniqueness check is read-then-write, and the remote catalog offers no
// atomic create-if-absent primitive, so two concurrent creates of the
// same name can both succeed. Callers that need strict uniqueness must
// serialize creates themselves.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stackmap/stackmap/pkg/catalog"
	"github.com/stackmap/stackmap/pkg/logging"
	"github.com/stackmap/stackmap/pkg/remote"
)

// Reconciler bundles the per-kind reconciliation services over one remote
// catalog client.
type Reconciler struct {
	Components *Components
	Metrics    *Metrics
	Scorecards *Scorecards
}

// Option configures a Reconciler.
type Option func(*service)

// WithLogger sets the logger used by all services.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Reconciler over the given catalog client.
func New(client remote.Client, opts ...Option) *Reconciler {
	svc := service{
		client: client,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(&svc)
	}
	return &Reconciler{
		Components: &Components{service: svc},
		Metrics:    &Metrics{service: svc},
		Scorecards: &Scorecards{service: svc},
	}
}

// service holds the collaborators shared by all per-kind services.
type service struct {
	client remote.Client
	logger *zerolog.Logger
}

// fetchComponents reads the full component collection from the remote
// catalog.
func (s service) fetchComponents(ctx context.Context) ([]catalog.Component, error) {
	var payload struct {
		Components []remote.ComponentNode `json:"components"`
	}
	if err := s.client.Query(ctx, remote.OpListComponents, nil, &payload); err != nil {
		return nil, err
	}
	components := make([]catalog.Component, 0, len(payload.Components))
	for _, n := range payload.Components {
		components = append(components, n.Component())
	}
	return components, nil
}

// fetchMetrics reads the full metric collection from the remote catalog.
func (s service) fetchMetrics(ctx context.Context) ([]catalog.Metric, error) {
	var payload struct {
		Metrics []remote.MetricNode `json:"metrics"`
	}
	if err := s.client.Query(ctx, remote.OpListMetrics, nil, &payload); err != nil {
		return nil, err
	}
	metrics := make([]catalog.Metric, 0, len(payload.Metrics))
	for _, n := range payload.Metrics {
		metrics = append(metrics, n.Metric())
	}
	return metrics, nil
}

// fetchScorecards reads the full scorecard collection from the remote
// catalog.
func (s service) fetchScorecards(ctx context.Context) ([]catalog.Scorecard, error) {
	var payload struct {
		Scorecards []remote.ScorecardNode `json:"scorecards"`
	}
	if err := s.client.Query(ctx, remote.OpListScorecards, nil, &payload); err != nil {
		return nil, err
	}
	scorecards := make([]catalog.Scorecard, 0, len(payload.Scorecards))
	for _, n := range payload.Scorecards {
		scorecards = append(scorecards, n.Scorecard())
	}
	return scorecards, nil
}
