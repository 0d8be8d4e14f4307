package main

import (
	"retroboard/application/queries"
	"retroboard/infrastructure/di"

	"github.com/spf13/cobra"
)

func compareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <retro-id> <retro-id>...",
		Short: "Compare retrospectives: action items, recurrences and trends",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), opts, func(c *di.Container) error {
				result, err := c.QueryBus.Ask(cmd.Context(), queries.CompareSessionsQuery{SessionIDs: args})
				if err != nil {
					return err
				}
				return printJSON(cmd, opts, result)
			})
		},
	}
}

func metricsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics [retro-id...]",
		Short: "Aggregate metrics over the given retrospectives, or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), opts, func(c *di.Container) error {
				result, err := c.QueryBus.Ask(cmd.Context(), queries.GlobalMetricsQuery{SessionIDs: args})
				if err != nil {
					return err
				}
				return printJSON(cmd, opts, result)
			})
		},
	}
}
