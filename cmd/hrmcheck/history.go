package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/networkteam/hrmcheck/collector"
	"github.com/networkteam/hrmcheck/store"
)

// defaultHistoryPath is shared by run --history and history.
const defaultHistoryPath = "hrmcheck.db"

func getCmdHistory(gs *globalState) *cobra.Command {
	var (
		dbPath       string
		limit        int
		scenarioName string
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs recorded with run --history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, st.Close())
			}()

			if scenarioName != "" {
				records, err := st.ScenarioHistory(cmd.Context(), scenarioName, limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintf(gs.stdOut, "No runs of %s recorded\n", scenarioName)
				}
				for _, record := range records {
					fmt.Fprintf(gs.stdOut, "%s  %s  %s\n",
						record.StartedAt.Local().Format(time.DateTime), statusText(record.Result), record.Result.Duration.Round(time.Millisecond))
					if record.Result.Error != "" {
						fmt.Fprintf(gs.stdOut, "    %s\n", record.Result.Error)
					}
				}
				return nil
			}

			runs, err := st.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(gs.stdOut, "No runs recorded")
			}
			for _, run := range runs {
				counts := fmt.Sprintf("%d passed, %d failed", run.Passed(), run.Failed())
				if run.Failed() > 0 {
					counts = color.RedString(counts)
				} else {
					counts = color.GreenString(counts)
				}
				fmt.Fprintf(gs.stdOut, "%s  %s  %s  %s %s\n",
					run.StartedAt.Local().Format(time.DateTime), counts, run.Duration.Round(time.Millisecond), run.Browser, run.BaseURL)
			}
			return nil
		},
	}

	flags := historyCmd.Flags()
	flags.StringVar(&dbPath, "history", defaultHistoryPath, "SQLite database written by run --history")
	flags.IntVar(&limit, "limit", 20, "number of entries to show")
	flags.StringVar(&scenarioName, "scenario", "", "show the results of one scenario")
	return historyCmd
}

func statusText(result collector.ScenarioResult) string {
	if result.Passed() {
		return color.GreenString(string(result.Status))
	}
	return color.RedString(string(result.Status))
}
