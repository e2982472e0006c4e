// Command maintenance runs one-off administrative tasks against the
// database:
//
//	maintenance create-admin -email owner@example.com
//	maintenance cleanup -days 90
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/config"
	"github.com/turfspot/turf-booking-backend/internal/database"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: maintenance <create-admin|cleanup> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	_ = godotenv.Load()

	cmd, args := os.Args[1], os.Args[2:]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	dbURL := fs.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")

	var run func(ctx context.Context, db database.DB) error
	switch cmd {
	case "create-admin":
		email := fs.String("email", "", "email of the account to promote")
		_ = fs.Parse(args)
		run = func(ctx context.Context, db database.DB) error {
			return createAdmin(ctx, database.NewProfileRepository(db), *email, logger)
		}
	case "cleanup":
		days := fs.Int("days", 90, "delete audit logs and login attempts older than this many days")
		_ = fs.Parse(args)
		run = func(ctx context.Context, db database.DB) error {
			cutoff := time.Now().AddDate(0, 0, -*days)
			return cleanup(ctx, database.NewAuditRepository(db), database.NewLoginAttemptRepository(db), cutoff, logger)
		}
	default:
		usage()
	}

	if *dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                *dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, db); err != nil {
		logger.Fatalf("%s failed: %v", cmd, err)
	}
}

type adminStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	SetAdmin(ctx context.Context, email string, isAdmin bool) error
}

// createAdmin promotes an existing profile, or creates one with a generated
// password when the email is not registered yet.
func createAdmin(ctx context.Context, profiles adminStore, email string, logger logrus.FieldLogger) error {
	if email == "" {
		return errors.New("-email is required")
	}

	err := profiles.SetAdmin(ctx, email, true)
	if err == nil {
		logger.WithField("email", email).Info("Existing profile promoted to admin")
		return nil
	}
	if !errors.Is(err, database.ErrProfileNotFound) {
		return err
	}

	password, err := utils.GeneratePassword()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := profiles.Create(ctx, profile); err != nil {
		return err
	}

	logger.WithField("email", profile.Email).Info("Admin profile created")
	fmt.Printf("Temporary password for %s: %s\n", profile.Email, password)
	return nil
}

type retentionStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// cleanup prunes audit logs and login attempts recorded before cutoff
func cleanup(ctx context.Context, audit, attempts retentionStore, cutoff time.Time, logger logrus.FieldLogger) error {
	auditRows, err := audit.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	attemptRows, err := attempts.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"cutoff":         cutoff.Format(time.RFC3339),
		"audit_logs":     auditRows,
		"login_attempts": attemptRows,
	}).Info("Cleanup complete")
	return nil
}
