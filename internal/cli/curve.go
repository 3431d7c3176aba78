package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/donalcheung/dine-together-sub000/internal/level"
)

const (
	defaultCurveLevels = 20
	maxCurveLevels     = 1000
)

func newCurveCmd() *cobra.Command {
	var (
		maxLevel int
		xp       int64
	)
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the level curve, or where an XP total lands on it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("xp") {
				p := level.ProgressWithinLevel(xp)
				PrintHeader(out, "%d XP", xp)
				plain(out, "level:    %d\ninto:     %d / %d\nprogress: %d%%\n",
					p.CurrentLevel, p.XPIntoLevel, p.XPNeededForNext, p.ProgressPercent)
				return nil
			}

			if maxLevel < level.MinLevel || maxLevel > maxCurveLevels {
				return fmt.Errorf("--levels must be between %d and %d", level.MinLevel, maxCurveLevels)
			}

			PrintHeader(out, "Level curve (1-%d)", maxLevel)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			plain(w, "LEVEL\tTOTAL XP\tBAND\t\n")
			for l := level.MinLevel; l <= maxLevel; l++ {
				plain(w, "%d\t%d\t%d\t\n", l, level.XPRequiredForLevel(l), level.BandWidth(l))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&maxLevel, "levels", defaultCurveLevels, "Number of levels to print")
	cmd.Flags().Int64Var(&xp, "xp", 0, "Show the level and progress for this XP total")
	return cmd
}
