package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tiffinhub/tiffinhub/pkg/config"
	"github.com/tiffinhub/tiffinhub/pkg/db"
	"github.com/tiffinhub/tiffinhub/pkg/server"
)

// jobsCmd represents the jobs command
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage scheduled jobs",
	Long:  `Manage the scheduled background jobs.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'jobs' requires a subcommand (run, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var jobsRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run one scheduled job immediately",
	Long: `Run one scheduled job immediately, outside its schedule.

Example:
  tiffinctl jobs run payment-reminders
  tiffinctl jobs run trial-expiry
  tiffinctl jobs run photo-cleanup`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runJobOnce(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Job failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available jobs",
	Run: func(cmd *cobra.Command, args []string) {
		names := []string{"payment-reminders", "photo-cleanup", "trial-expiry"}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsRunCmd)
	jobsCmd.AddCommand(jobsListCmd)
}

func buildScheduler() (*server.Server, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := db.Connect(db.Config{})
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("unable to connect to DB: %w", err)
	}

	s := server.NewServer(gormDB, cfg, logger, "127.0.0.1", "0")
	cleanup := func() { _ = logger.Sync() }
	return s, cleanup, nil
}

func runJobOnce(name string) error {
	s, cleanup, err := buildScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	scheduler, err := newScheduler(s, s.Logger)
	if err != nil {
		return err
	}
	return scheduler.RunOnce(name)
}
