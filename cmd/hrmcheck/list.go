package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/networkteam/hrmcheck/scenario"
)

func getCmdList(gs *globalState) *cobra.Command {
	var filter string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := scenario.Filter(scenario.All(), filter)
			if err != nil {
				return err
			}
			name := color.New(color.Bold)
			for _, sc := range scenarios {
				fmt.Fprintf(gs.stdOut, "%s  %s\n", name.Sprintf("%-28s", sc.Name), sc.Description)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&filter, "filter", "", "only list scenarios whose name matches this regular expression")
	return listCmd
}
