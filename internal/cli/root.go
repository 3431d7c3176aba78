// Package cli implements the `app` command line: the HTTP service, migrations,
// reconciliation passes and operator tooling.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/donalcheung/dine-together-sub000/internal/config"
	"github.com/donalcheung/dine-together-sub000/internal/handler"
)

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "app",
		Short: "Dine Together progression service",
		Long: `Levels, XP and dining achievements for Dine Together users.

Run "app serve" to start the HTTP API. Configuration is read from the
environment and an optional .env file.`,
		Version:       handler.ResolveVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newReconcileCmd(),
		newCurveCmd(),
		newDeadLettersCmd(),
	)
	return root
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	if version != "" && version != "dev" {
		handler.Version = version
	}

	if err := NewRootCmd().Execute(); err != nil {
		PrintError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

// loadConfig validates the environment and loads the configuration.
// Non-fatal findings are printed as warnings.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return nil, fmt.Errorf("environment check failed: %w", err)
	}
	for _, w := range warnings {
		PrintWarning(cmd.ErrOrStderr(), "%s", w)
	}
	return cfg, nil
}
