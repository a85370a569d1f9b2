// Command promote-admin grants the admin role to one account, for
// bootstrapping an installation before any admin exists.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"
	"stature-backend/internal/config"
	"stature-backend/internal/events"
	"stature-backend/internal/logger"
	"stature-backend/internal/services"
	"stature-backend/internal/supabase"
)

type settings struct {
	DatabaseURL            string `envconfig:"DATABASE_URL" required:"true"`
	SupabaseURL            string `envconfig:"SUPABASE_URL"`
	SupabaseServiceRoleKey string `envconfig:"SUPABASE_SERVICE_ROLE_KEY"`
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:      "promote-admin",
		Usage:     "promote a user to admin",
		ArgsUsage: "<uid>",
		Action:    promote,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error promoting user:", err)
		os.Exit(1)
	}
}

func promote(c *cli.Context) error {
	uid := c.Args().First()
	if uid == "" {
		return errors.New("a user id is required")
	}

	var s settings
	if err := envconfig.Process("", &s); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New("development")
	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()

	db, err := supabase.NewDatabaseClient(ctx, s.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	var identity services.IdentityAdmin
	cfg := &config.Config{SupabaseURL: s.SupabaseURL, SupabaseServiceRoleKey: s.SupabaseServiceRoleKey}
	if cfg.HasIdentityAdmin() {
		client, err := supabase.NewClient(cfg)
		if err != nil {
			return err
		}
		identity = client
	} else {
		log.Warn().Msg("SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY not set, only the database record is updated")
	}

	users := services.NewUserService(db, identity, events.NewLogPublisher(log), log)
	fmt.Printf("Attempting to promote user: %s\n", uid)
	if _, err := users.Promote(ctx, uid); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fmt.Errorf("no account with id %s, check the uid", uid)
		}
		return err
	}

	fmt.Println("Success! The user has been promoted to an admin.")
	fmt.Println("The user may need to sign out and back in for the change to take effect.")
	return nil
}
