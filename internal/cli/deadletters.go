package cli

import (
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/donalcheung/dine-together-sub000/internal/config"
	"github.com/donalcheung/dine-together-sub000/internal/event"
)

func newDeadLettersCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "dead-letters",
		Short: "List events that exhausted their publish retries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = os.Getenv("EVENT_DEADLETTER_PATH")
			}
			if path == "" {
				path = config.DefaultEventDeadLetterPath
			}

			entries, err := event.ReadDeadLetters(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				PrintSuccess(out, "no dead-lettered events in %s", path)
				return nil
			}

			PrintWarning(out, "%d dead-lettered events in %s", len(entries), path)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			plain(w, "TIME\tTYPE\tATTEMPTS\tERROR\n")
			for _, e := range entries {
				plain(w, "%s\t%s\t%d\t%s\n", e.Timestamp.Format(time.RFC3339), e.Event.Type, e.Attempts, e.LastError)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Dead-letter file (defaults to EVENT_DEADLETTER_PATH)")
	return cmd
}
