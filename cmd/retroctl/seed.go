package main

import (
	"fmt"
	"time"

	"retroboard/application/commands"
	"retroboard/domain/core/entities"
	"retroboard/infrastructure/di"

	"github.com/spf13/cobra"
)

func seedCmd(opts *options) *cobra.Command {
	var (
		sessions int
		start    string
		template string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store a deterministic series of demo retrospectives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse(time.DateOnly, start)
			if err != nil {
				return fmt.Errorf("invalid --start %q: %w", start, err)
			}

			return withContainer(cmd.Context(), opts, func(c *di.Container) error {
				seeded, err := c.Seeder.Seed(cmd.Context(), commands.SeedDemoDataCommand{
					Sessions:   sessions,
					StartDate:  startDate,
					TemplateID: template,
				})
				if err != nil {
					return err
				}

				ids := make([]string, len(seeded))
				for i, s := range seeded {
					ids[i] = s.ID.String()
				}
				return printJSON(cmd, opts, map[string]interface{}{"seeded": ids})
			})
		},
	}

	cmd.Flags().IntVarP(&sessions, "sessions", "n", 4, "Number of retrospectives")
	cmd.Flags().StringVar(&start, "start", "2025-01-06", "Date of the first retrospective (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&template, "template", "t", entities.TemplateWentWell, "System template id")

	return cmd
}
