package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"

	"github.com/fortress-labs/auth-service/db"
	"github.com/fortress-labs/auth-service/internal/auth/handler"
	"github.com/fortress-labs/auth-service/internal/obs"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), skipMigrations)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on startup")

	return cmd
}

func runServe(ctx context.Context, skipMigrations bool) error {
	cfg, pool, tokenService, userService, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if !skipMigrations {
		if err := db.Migrate(cfg.DBURL); err != nil {
			return err
		}
	}

	authHandler := handler.NewAuthHandler(userService, tokenService, cfg)
	healthHandler := handler.NewHealthHandler(pool)

	app := fiber.New(fiber.Config{
		AppName:               "auth-service",
		DisableStartupMessage: cfg.IsProduction(),
	})
	app.Use(requestid.New())
	app.Use(recover.New())

	handler.RegisterRoutes(app, authHandler, healthHandler)

	logger := obs.Logger()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	logger.Info("server started", "port", cfg.Port, "env", cfg.Env)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	}
}
