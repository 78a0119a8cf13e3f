package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackmap/stackmap/pkg/catalog"
	"github.com/stackmap/stackmap/pkg/errors"
	"github.com/stackmap/stackmap/pkg/reconcile"
)

var applyFile string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile a spec file against the remote catalog",
	Long: `Apply reads a YAML spec and reconciles every declared resource:
missing resources are created, existing ones are updated to match the
spec, and each update prints its field-level change-log.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "spec file to apply")
	_ = applyCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	spec, err := catalog.LoadSpec(applyFile)
	if err != nil {
		return err
	}
	if spec.Empty() {
		fmt.Println("nothing to apply")
		return nil
	}

	r := newReconciler()

	// Metrics first so scorecard criteria can resolve them.
	for _, m := range spec.Metrics {
		if err := applyMetric(ctx, r, m); err != nil {
			return err
		}
	}

	// Components in two passes: scalars first so dependency targets
	// declared later in the same spec resolve, then the edges.
	for _, c := range spec.Components {
		scalars := c
		scalars.Dependencies = nil
		if err := applyComponent(ctx, r, scalars); err != nil {
			return err
		}
	}
	for _, c := range spec.Components {
		if len(c.Dependencies) == 0 {
			continue
		}
		if err := applyComponentDependencies(ctx, r, c); err != nil {
			return err
		}
	}

	for _, s := range spec.Scorecards {
		if err := applyScorecard(ctx, r, s); err != nil {
			return err
		}
	}
	return nil
}

func applyMetric(ctx context.Context, r *reconcile.Reconciler, m catalog.Metric) error {
	existing, err := r.Metrics.GetByName(ctx, m.Name)
	if errors.IsNotFound(err) {
		created, err := r.Metrics.Create(ctx, m)
		if err != nil {
			return err
		}
		fmt.Printf("metric/%s created\n", created.Name)
		return nil
	}
	if err != nil {
		return err
	}

	_, changes, err := r.Metrics.Update(ctx, existing.ID, reconcile.MetricPatch{
		Description: &m.Description,
		Type:        &m.Type,
		Owner:       &m.Owner,
		Schedule:    &m.Schedule,
		Labels:      &m.Labels,
	})
	if err != nil {
		return err
	}
	printChanges("metric", m.Name, changes)
	return nil
}

func applyComponent(ctx context.Context, r *reconcile.Reconciler, c catalog.Component) error {
	existing, err := r.Components.GetByName(ctx, c.Name)
	if errors.IsNotFound(err) {
		created, err := r.Components.Create(ctx, c)
		if err != nil {
			return err
		}
		fmt.Printf("component/%s created\n", created.Name)
		return nil
	}
	if err != nil {
		return err
	}

	_, changes, err := r.Components.Update(ctx, existing.ID, reconcile.ComponentPatch{
		Description: &c.Description,
		Type:        &c.Type,
		Owner:       &c.Owner,
		Labels:      &c.Labels,
		Links:       &c.Links,
	})
	if err != nil {
		return err
	}
	printChanges("component", c.Name, changes)
	return nil
}

func applyComponentDependencies(ctx context.Context, r *reconcile.Reconciler, c catalog.Component) error {
	existing, err := r.Components.GetByName(ctx, c.Name)
	if err != nil {
		return err
	}
	_, changes, err := r.Components.Update(ctx, existing.ID, reconcile.ComponentPatch{
		Dependencies: &c.Dependencies,
	})
	if err != nil {
		return err
	}
	printChanges("component", c.Name, changes)
	return nil
}

func applyScorecard(ctx context.Context, r *reconcile.Reconciler, s catalog.Scorecard) error {
	existing, err := r.Scorecards.GetByName(ctx, s.Name)
	if errors.IsNotFound(err) {
		created, err := r.Scorecards.Create(ctx, s)
		if err != nil {
			return err
		}
		fmt.Printf("scorecard/%s created\n", created.Name)
		return nil
	}
	if err != nil {
		return err
	}

	_, changes, err := r.Scorecards.Update(ctx, existing.ID, reconcile.ScorecardPatch{
		Description: &s.Description,
		Owner:       &s.Owner,
		Labels:      &s.Labels,
		Criteria:    &s.Criteria,
	})
	if err != nil {
		return err
	}
	printChanges("scorecard", s.Name, changes)
	return nil
}

func printChanges(kind, name string, changes []catalog.ChangeRecord) {
	if len(changes) == 0 {
		fmt.Printf("%s/%s unchanged\n", kind, name)
		return
	}
	fmt.Printf("%s/%s updated\n", kind, name)
	for _, change := range changes {
		fmt.Printf("  %s: %q -> %q\n", change.Path, change.Old, change.New)
	}
}
