package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stackmap/stackmap/pkg/catalog"
)

var getCmd = &cobra.Command{
	Use:   "get <kind> [name]",
	Short: "List catalog resources or fetch one by name",
	Long: `Get lists all resources of a kind in a table, or prints a single
named resource as YAML.

Kinds: component, metric, scorecard (plural forms accepted).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	r := newReconciler()

	if len(args) == 2 {
		var resource any
		switch kind {
		case catalog.KindComponent:
			resource, err = r.Components.GetByName(ctx, args[1])
		case catalog.KindMetric:
			resource, err = r.Metrics.GetByName(ctx, args[1])
		case catalog.KindScorecard:
			resource, err = r.Scorecards.GetByName(ctx, args[1])
		}
		if err != nil {
			return err
		}
		return printYAML(resource)
	}

	switch kind {
	case catalog.KindComponent:
		components, err := r.Components.GetAll(ctx)
		if err != nil {
			return err
		}
		return printTable(kind,
			[]string{"NAME", "TYPE", "OWNER", "DEPENDENCIES", "ID"},
			len(components), func(i int) []string {
				c := components[i]
				return []string{c.Name, string(c.Type), c.Owner, fmt.Sprint(len(c.Dependencies)), c.ID}
			})
	case catalog.KindMetric:
		metrics, err := r.Metrics.GetAll(ctx)
		if err != nil {
			return err
		}
		return printTable(kind,
			[]string{"NAME", "TYPE", "SCHEDULE", "OWNER", "ID"},
			len(metrics), func(i int) []string {
				m := metrics[i]
				return []string{m.Name, string(m.Type), m.Schedule, m.Owner, m.ID}
			})
	case catalog.KindScorecard:
		scorecards, err := r.Scorecards.GetAll(ctx)
		if err != nil {
			return err
		}
		return printTable(kind,
			[]string{"NAME", "CRITERIA", "OWNER", "ID"},
			len(scorecards), func(i int) []string {
				s := scorecards[i]
				return []string{s.Name, fmt.Sprint(len(s.Criteria)), s.Owner, s.ID}
			})
	}
	return nil
}

// parseKind normalizes a user-supplied kind, accepting plural forms.
func parseKind(arg string) (catalog.Kind, error) {
	normalized := strings.ToLower(strings.TrimSuffix(arg, "s"))
	kind := catalog.Kind(normalized)
	if !kind.Valid() {
		names := make([]string, len(catalog.Kinds()))
		for i, k := range catalog.Kinds() {
			names[i] = k.String()
		}
		return "", fmt.Errorf("unknown kind %q (expected one of: %s)", arg, strings.Join(names, ", "))
	}
	return kind, nil
}

func printTable(kind catalog.Kind, headers []string, rows int, row func(int) []string) error {
	title := cases.Title(language.English).String(kind.String())
	if rows == 0 {
		fmt.Printf("No %ss found.\n", kind)
		return nil
	}
	fmt.Printf("%ss:\n", title)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for i := 0; i < rows; i++ {
		fmt.Fprintln(w, strings.Join(row(i), "\t"))
	}
	return w.Flush()
}

func printYAML(resource any) error {
	data, err := yaml.Marshal(resource)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
