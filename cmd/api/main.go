package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-scheduler/internal/db"
	infraRepo "github.com/BruksfildServices01/barbershop-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/logger"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/seed"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
)

const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "barber-scheduler",
		Short:        "Barbershop scheduling and walk-in queue API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap carrega config e logger, comum a todos os subcomandos.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.New(cfg.Env, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, log, err
	}
	timezone.SetDefault(cfg.DefaultTimezone)

	return cfg, log, nil
}

func serveCmd() *cobra.Command {
	var store string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if store != storePostgres && store != storeMemory {
				return fmt.Errorf("invalid --store %q (want %s or %s)", store, storePostgres, storeMemory)
			}

			cfg, log, err := bootstrap()
			if err != nil {
				log.Error().Err(err).Msg("invalid configuration")
				return err
			}

			return runServer(cfg, log, store)
		},
	}

	cmd.Flags().StringVar(&store, "store", storePostgres, "persistence backend: postgres or memory")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				log.Error().Err(err).Msg("invalid configuration")
				return err
			}

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}

			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo barbershop into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				log.Error().Err(err).Msg("invalid configuration")
				return err
			}

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			_, err = seed.Demo(
				context.Background(),
				infraRepo.NewAppointmentGormRepository(db),
				infraRepo.NewSettingsGormRepository(db),
				infraRepo.NewCatalogGormRepository(db),
				log,
			)
			return err
		},
	}
}
