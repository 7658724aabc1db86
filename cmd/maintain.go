package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plancal/plancal/internal/dateutil"
)

var maintainAsOf string

// maintainCmd represents the maintain command
var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Run one maintenance pass over the calendar",
	Long: `Run a single maintenance pass: archive finished projects, prune aged
finished items, carry overdue todos forward to today, and expand recurring
templates up to the rolling horizon.

The pass is idempotent; running it twice changes nothing the second time.`,
	Example: `  # Maintain as of today
  plancal maintain

  # Replay a run as of a fixed date
  plancal maintain --as-of 2024-11-05`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		if maintainAsOf != "" {
			d, err := dateutil.Parse(maintainAsOf)
			if err != nil {
				return fmt.Errorf("invalid --as-of date %q (expected YYYY-MM-DD)", maintainAsOf)
			}
			now = d
		}

		logger := NewLogger()
		st, err := GetStore(logger)
		if err != nil {
			return fmt.Errorf("could not initialize the data store: %w", err)
		}
		defer func() { _ = st.Close() }()

		res, err := GetScheduler(st, logger).RunMaintenance(now)
		if err != nil {
			return err
		}

		fmt.Printf("Maintenance complete as of %s.\n", dateutil.Today(now))
		fmt.Printf("  projects: %s\n", changedWord(res.ProjectsChanged))
		fmt.Printf("  todos:    %s\n", changedWord(res.TodosChanged))
		fmt.Printf("  archive:  %s\n", changedWord(res.ArchiveChanged))
		return nil
	},
}

func changedWord(changed bool) string {
	if changed {
		return "updated"
	}
	return "unchanged"
}

func init() {
	rootCmd.AddCommand(maintainCmd)

	maintainCmd.Flags().StringVar(&maintainAsOf, "as-of", "", "run as of a fixed date (YYYY-MM-DD) instead of today")
}
