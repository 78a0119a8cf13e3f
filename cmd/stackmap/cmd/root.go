// Package cmd implements the stackmap CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stackmap/stackmap/internal/config"
	"github.com/stackmap/stackmap/pkg/errors"
	"github.com/stackmap/stackmap/pkg/logging"
	"github.com/stackmap/stackmap/pkg/reconcile"
	"github.com/stackmap/stackmap/pkg/remote"
)

var (
	configFile string
	verbose    bool
	quiet      bool

	cfg *config.Config

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stackmap",
	Short: "Engineering catalog reconciler",
	Long: `Stackmap keeps a declarative catalog of engineering resources
(components, metrics, scorecards) in sync with a remote graph catalog.

Resources are addressed by name. Applying a spec file creates missing
resources, updates drifted ones, and reports a field-level change-log
for every update.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		renderError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.stackmap.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
}

// setupCommand loads configuration and configures logging before any
// command runs. Commands that never touch the remote skip validation.
func setupCommand(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	configureLogging()

	switch cmd.Name() {
	case "version", "help", "completion":
		return nil
	}
	return cfg.Validate()
}

func configureLogging() {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		level = parsed
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.WarnLevel
	}
	logging.SetLevel(level)
}

// newReconciler builds the reconciliation engine over a graph catalog
// client configured from the loaded settings.
func newReconciler() *reconcile.Reconciler {
	client := remote.NewGraphClient(cfg.RemoteURL,
		remote.WithToken(cfg.Token),
		remote.WithTimeout(cfg.Timeout),
		remote.WithMaxRetries(cfg.MaxRetries))
	return reconcile.New(client)
}

// renderError prints a failure in a form that surfaces the structured
// detail the reconciliation engine collects.
func renderError(err error) {
	if ve, ok := errors.AsValidation(err); ok {
		fmt.Fprintln(os.Stderr, "Error: validation failed")
		for _, violation := range ve.Violations {
			fmt.Fprintf(os.Stderr, "  - %s: %s\n", violation.Field, violation.Message)
		}
		return
	}
	if ce, ok := errors.AsConflict(err); ok && len(ce.Dependents) > 0 {
		fmt.Fprintf(os.Stderr, "Error: %s %q is still referenced by:\n", ce.Kind, ce.Name)
		for _, dep := range ce.Dependents {
			fmt.Fprintf(os.Stderr, "  - %s\n", dep.String())
		}
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}
