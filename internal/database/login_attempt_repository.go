package database

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// LoginAttemptRepository records sign-in attempts for rate limiting
type LoginAttemptRepository struct {
	db DB
}

// NewLoginAttemptRepository creates a new login attempt repository
func NewLoginAttemptRepository(db DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{
		db: db,
	}
}

// Record inserts an attempt
func (r *LoginAttemptRepository) Record(ctx context.Context, email, ip string, success bool) error {
	query := `
		INSERT INTO login_attempts (email, ip_address, success, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := r.db.ExecContext(ctx, query, strings.ToLower(strings.TrimSpace(email)), ip, success); err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}

	return nil
}

// FailuresSince counts failed attempts for an email after since and returns
// the time of the latest one.
func (r *LoginAttemptRepository) FailuresSince(ctx context.Context, email string, since time.Time) (int, time.Time, error) {
	query := `
		SELECT COUNT(*), COALESCE(MAX(created_at), $3)
		FROM login_attempts
		WHERE email = $1
		  AND success = FALSE
		  AND created_at > $2
	`

	var count int
	var last time.Time
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email)), since, since).Scan(&count, &last)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to count login failures: %w", err)
	}

	return count, last, nil
}

// DeleteOlderThan removes attempts created before the cutoff
func (r *LoginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM login_attempts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup login attempts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
