package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donalcheung/dine-together-sub000/internal/bootstrap"
)

func newReconcileCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Repair drifted progression state for one user or everyone",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := bootstrap.NewApp(ctx, cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close(context.Background())

			out := cmd.OutOrStdout()
			if userID != "" {
				result, err := app.Reconciler.ReconcileUser(ctx, userID)
				if err != nil {
					return err
				}
				if !result.Changed() {
					PrintSuccess(out, "%s: nothing to repair", userID)
					return nil
				}
				PrintWarning(out, "%s: repaired", userID)
				if result.StatsRebuilt {
					PrintInfo(out, "  dining stats rebuilt from meal history")
				}
				if len(result.NewlyUnlocked) > 0 {
					PrintInfo(out, "  unlocked: %s", strings.Join(result.NewlyUnlocked, ", "))
				}
				if len(result.BackfilledKeys) > 0 {
					PrintInfo(out, "  bonuses backfilled: %s", strings.Join(result.BackfilledKeys, ", "))
				}
				if result.TotalXPBefore != result.TotalXPAfter {
					PrintInfo(out, "  total_xp %d -> %d", result.TotalXPBefore, result.TotalXPAfter)
				}
				return nil
			}

			summary, err := app.Reconciler.RunOnce(ctx)
			if err != nil {
				return err
			}
			PrintHeader(out, "Reconciliation pass")
			plain(out, "users:    %d\nrepaired: %d\nfailed:   %d\n", summary.Users, summary.Repaired, summary.Failed)
			if summary.Failed > 0 {
				PrintWarning(out, "%d users failed, see the logs", summary.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Reconcile a single user")
	return cmd
}
