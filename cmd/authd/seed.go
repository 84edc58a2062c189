package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortress-labs/auth-service/internal/auth/domain"
	"github.com/fortress-labs/auth-service/internal/auth/dto"
	"github.com/fortress-labs/auth-service/internal/auth/service"
	apperrors "github.com/fortress-labs/auth-service/internal/errors"
)

// NewSeedCmd creates the seed subcommand. Seeding is idempotent: users
// that already exist are skipped.
func NewSeedCmd() *cobra.Command {
	var (
		adminEmail    string
		adminPassword string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed an admin and a demo user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, pool, _, userService, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			return runSeed(cmd, userService, adminEmail, adminPassword)
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@example.com", "email for the seeded admin")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "admin1234", "password for the seeded admin")

	return cmd
}

func runSeed(cmd *cobra.Command, userService *service.UserService, adminEmail, adminPassword string) error {
	ctx := cmd.Context()

	if err := seedUser(ctx, cmd, userService, adminEmail, adminPassword, domain.RoleAdmin); err != nil {
		return err
	}

	return seedUser(ctx, cmd, userService, "user@example.com", "password123", domain.RoleUser)
}

func seedUser(ctx context.Context, cmd *cobra.Command, userService *service.UserService, email, password string, role domain.Role) error {
	input := dto.RegisterInput{Email: email, Password: password}

	user, err := userService.Register(ctx, input, &role)
	if err != nil {
		var app *apperrors.AppError
		if errors.As(err, &app) && app.Kind == apperrors.KindConflict {
			cmd.Printf("User already exists (%s)\n", email)
			return nil
		}
		return fmt.Errorf("failed to seed %s: %w", email, err)
	}

	cmd.Printf("Seeded %s user %s\n", user.Role, user.Email)
	return nil
}
