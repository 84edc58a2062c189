package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortress-labs/auth-service/internal/auth/domain"
	"github.com/fortress-labs/auth-service/internal/auth/dto"
)

// NewCreateUserCmd creates the create-user subcommand. This is the
// trusted-caller path that may assign a non-default role.
func NewCreateUserCmd() *cobra.Command {
	var (
		email    string
		password string
		roleName string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user with the given credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, ok := domain.ParseRole(roleName)
			if !ok {
				return fmt.Errorf("invalid role: %s", roleName)
			}

			_, pool, _, userService, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			input := dto.RegisterInput{Email: email, Password: password}
			user, err := userService.Register(cmd.Context(), input, &role)
			if err != nil {
				return err
			}

			cmd.Printf("Created user %s (%s)\n", user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&roleName, "role", "user", "role (user or admin)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
