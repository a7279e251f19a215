package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sixia/internal/database"
	"sixia/internal/database/repositories"
	"sixia/internal/server"
)

var serveMemory bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Run the HTTP API. Migrations are applied on start unless --memory is given, in which case nothing is persisted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		deps := server.Deps{Config: cfg, Logger: log}
		if serveMemory {
			log.Warn().Msg("using the in-memory store; data is lost on exit")
			deps.Users = repositories.NewMemoryUserRepository(nil)
			deps.Notes = repositories.NewMemoryNoteRepository(nil)
			deps.Preferences = repositories.NewMemoryPreferencesRepository(nil)
		} else {
			db, err := database.New(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := database.Migrate(db.DB()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			deps.DB = db
			deps.Users = repositories.NewUserRepository(db.DB())
			deps.Notes = repositories.NewNoteRepository(db.DB())
			deps.Preferences = repositories.NewPreferencesRepository(db.DB())
		}

		srv, err := server.New(deps)
		if err != nil {
			return err
		}
		srv.RegisterFiberRoutes()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", cfg.Addr()).Msg("server listening")
			errCh <- srv.Listen(cfg.Addr())
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		if err := srv.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
			return err
		}
		return <-errCh
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Keep everything in memory instead of postgres")
}
