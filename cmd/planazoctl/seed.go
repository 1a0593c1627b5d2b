package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ivanquesadapalmero/planazo-backend/internal/apperr"
	"github.com/ivanquesadapalmero/planazo-backend/internal/auth"
	"github.com/ivanquesadapalmero/planazo-backend/internal/categories"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database"
	"github.com/ivanquesadapalmero/planazo-backend/internal/users"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type demoUser struct {
	email    string
	password string
	name     string
}

func newSeedCommand(e *env) *cobra.Command {
	var demo demoUser

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories and, optionally, a demo account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			created, err := categories.NewService(db, e.logger).Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "categories created: %d\n", created)

			if demo.email == "" {
				return nil
			}

			jwtService := auth.NewJWTService(e.cfg.JWT.Secret, e.cfg.JWT.Expiry())
			return seedDemoUser(ctx, db, jwtService, e.logger, demo, out)
		},
	}

	cmd.Flags().StringVar(&demo.email, "demo-email", "", "create a demo account with this e-mail")
	cmd.Flags().StringVar(&demo.password, "demo-password", "planazo123", "password of the demo account")
	cmd.Flags().StringVar(&demo.name, "demo-name", "Demo", "display name of the demo account")
	return cmd
}

// seedDemoUser registers the demo account unless its e-mail is already taken.
func seedDemoUser(ctx context.Context, db *gorm.DB, tokens auth.TokenService, logger *slog.Logger, demo demoUser, out io.Writer) error {
	existing, err := users.NewService(db, logger).GetByEmail(ctx, demo.email)
	if err == nil {
		fmt.Fprintf(out, "demo user already exists: %s (%s)\n", existing.Email, existing.ID)
		return nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return fmt.Errorf("looking up demo user: %w", err)
	}

	user, err := auth.NewService(db, tokens, logger).Register(ctx, auth.RegisterInput{
		Email:    demo.email,
		Password: demo.password,
		Name:     demo.name,
	})
	if err != nil {
		return fmt.Errorf("creating demo user: %w", err)
	}
	fmt.Fprintf(out, "demo user created: %s (%s)\n", user.Email, user.ID)
	return nil
}
