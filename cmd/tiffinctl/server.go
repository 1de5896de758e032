package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tiffinhub/tiffinhub/pkg/config"
	"github.com/tiffinhub/tiffinhub/pkg/db"
	"github.com/tiffinhub/tiffinhub/pkg/jobs"
	"github.com/tiffinhub/tiffinhub/pkg/server"
	"github.com/tiffinhub/tiffinhub/pkg/server/endpoints"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

func newLogger() (*zap.Logger, error) {
	if strings.EqualFold(os.Getenv("TIFFIN_LOG_LEVEL"), "debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the TiffinHub application server",
	Long: `Run the TiffinHub application server.

To run the server requires the environment variable DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.
Scheduled jobs run in-process unless disabled in configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		logger, err := newLogger()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()

		gormDB, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(gormDB, cfg, logger, host, port)

		endpoints.RegisterAll(s)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			if err := config.Watch(ctx, func(updated *config.Config) {
				logger.Info("configuration reloaded")
			}); err != nil {
				logger.Warn("config watch stopped", zap.Error(err))
			}
		}()

		if cfg.JobsEnabled {
			scheduler, err := newScheduler(s, logger)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to set up scheduled jobs: %v\n", err)
				os.Exit(1)
			}
			scheduler.Start()
			defer scheduler.Stop()
		}

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func newScheduler(s *server.Server, logger *zap.Logger) (*jobs.Scheduler, error) {
	cfg := s.Config
	scheduler := jobs.NewScheduler(logger)

	reminders := jobs.NewPaymentReminders(s.BillingStore, s.CustomersStore, s.Sender, cfg.ReminderGraceDays, logger)
	if err := scheduler.Register(jobs.ScheduleReminders, reminders); err != nil {
		return nil, err
	}

	trials := jobs.NewTrialExpiry(s.CustomersStore, s.Sender, logger)
	if err := scheduler.Register(jobs.ScheduleTrialExpiry, trials); err != nil {
		return nil, err
	}

	photos := jobs.NewPhotoCleanup(s.DeliveriesStore, cfg.PhotoRetentionDays, logger)
	if err := scheduler.Register(jobs.SchedulePhotoCleanup, photos); err != nil {
		return nil, err
	}

	return scheduler, nil
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
