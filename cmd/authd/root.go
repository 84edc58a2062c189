package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/fortress-labs/auth-service/config"
	"github.com/fortress-labs/auth-service/db"
	repo "github.com/fortress-labs/auth-service/internal/auth/repository/postgres"
	"github.com/fortress-labs/auth-service/internal/auth/service"
	"github.com/fortress-labs/auth-service/internal/obs"
)

// NewRootCmd creates the root command for the authd CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "authd",
		Short:         "authd - authentication and session service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewCreateUserCmd())

	return cmd
}

// bootstrap loads config, connects the pool and wires the service graph
// shared by every subcommand.
func bootstrap(ctx context.Context) (*config.Config, *pgxpool.Pool, *service.TokenService, *service.UserService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	obs.Init(cfg.LogLevel)

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	authRepo := repo.NewPostgresRepository(pool)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL())
	userService := service.NewUserService(authRepo, tokenService, cfg)

	return cfg, pool, tokenService, userService, nil
}
