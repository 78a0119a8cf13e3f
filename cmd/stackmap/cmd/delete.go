package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stackmap/stackmap/pkg/catalog"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <kind> <name>",
	Short: "Delete a catalog resource by name",
	Long: `Delete resolves a resource by name and removes it from the remote
catalog. Deletion is refused while other resources still reference the
target; the blocking dependents are listed.`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	name := args[1]
	r := newReconciler()

	switch kind {
	case catalog.KindComponent:
		component, err := r.Components.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if err := r.Components.Delete(ctx, component.ID); err != nil {
			return err
		}
	case catalog.KindMetric:
		metric, err := r.Metrics.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if err := r.Metrics.Delete(ctx, metric.ID); err != nil {
			return err
		}
	case catalog.KindScorecard:
		scorecard, err := r.Scorecards.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if err := r.Scorecards.Delete(ctx, scorecard.ID); err != nil {
			return err
		}
	}

	fmt.Printf("%s/%s deleted\n", kind, name)
	return nil
}
