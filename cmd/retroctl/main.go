package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"retroboard/application/commands"
	"retroboard/infrastructure/config"
	"retroboard/infrastructure/di"

	"github.com/spf13/cobra"
)

var Version = "dev"

// options shared by every subcommand
type options struct {
	demo   int
	pretty bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "retroctl",
		Short:         "Retroboard - retrospective analytics from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().IntVar(&opts.demo, "demo", 0, "Seed this many demo retrospectives before running")
	rootCmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", true, "Indent JSON output")

	rootCmd.AddCommand(seedCmd(opts))
	rootCmd.AddCommand(compareCmd(opts))
	rootCmd.AddCommand(metricsCmd(opts))
	rootCmd.AddCommand(importCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withContainer builds the container, optionally seeds demo data and runs fn
func withContainer(ctx context.Context, opts *options, fn func(*di.Container) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}
	defer cleanup()

	if opts.demo > 0 {
		_, err := container.Seeder.Seed(ctx, commands.SeedDemoDataCommand{
			Sessions:  opts.demo,
			StartDate: time.Now().UTC().AddDate(0, 0, -14*opts.demo).Truncate(24 * time.Hour),
		})
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	return fn(container)
}

func printJSON(cmd *cobra.Command, opts *options, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
