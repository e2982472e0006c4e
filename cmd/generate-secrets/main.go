// Command generate-secrets prints a .env block with fresh JWT signing
// secrets and, with -admin-password, a bootstrap admin password and its
// bcrypt hash for seeding the profiles table.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/turfspot/turf-booking-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type secrets struct {
	AccessSecret  string
	RefreshSecret string
	AdminPassword string
	AdminHash     string
}

func main() {
	withAdmin := flag.Bool("admin-password", false, "also generate a bootstrap admin password and bcrypt hash")
	cost := flag.Int("bcrypt-cost", bcrypt.DefaultCost, "bcrypt cost for the admin password hash")
	flag.Parse()

	s, err := generate(*withAdmin, *cost)
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}
	if err := writeEnv(os.Stdout, s); err != nil {
		log.Fatalf("Failed to write secrets: %v", err)
	}
}

func generate(withAdmin bool, cost int) (secrets, error) {
	var s secrets
	var err error

	s.AccessSecret, s.RefreshSecret, err = utils.GenerateJWTSecrets()
	if err != nil {
		return secrets{}, err
	}
	if !withAdmin {
		return s, nil
	}

	if s.AdminPassword, err = utils.GeneratePassword(); err != nil {
		return secrets{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.AdminPassword), cost)
	if err != nil {
		return secrets{}, fmt.Errorf("failed to hash admin password: %w", err)
	}
	s.AdminHash = string(hash)
	return s, nil
}

func writeEnv(w io.Writer, s secrets) error {
	lines := []string{
		"# TurfSpot secrets, keep out of version control",
		"JWT_SECRET=" + s.AccessSecret,
		"JWT_REFRESH_SECRET=" + s.RefreshSecret,
	}
	if s.AdminPassword != "" {
		lines = append(lines,
			"",
			"# Bootstrap admin (not read by the server)",
			"# password: "+s.AdminPassword,
			"# password_hash: "+s.AdminHash,
		)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
