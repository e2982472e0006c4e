package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/config"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxAttempts int           // Max failed sign-ins per email
	Window      time.Duration // Time window the failures are counted in
}

// DefaultRateLimitConfig returns the default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts: 5,                // 5 failures
		Window:      15 * time.Minute, // per 15 minutes
	}
}

// RateLimitConfigFrom reads the limits from the security configuration
func RateLimitConfigFrom(sec config.SecurityConfig) RateLimitConfig {
	cfg := DefaultRateLimitConfig()
	if sec.MaxLoginAttempts > 0 {
		cfg.MaxAttempts = sec.MaxLoginAttempts
	}
	if sec.LoginWindowMinutes > 0 {
		cfg.Window = time.Duration(sec.LoginWindowMinutes) * time.Minute
	}
	return cfg
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// RateLimitService throttles password guessing per email address
type RateLimitService struct {
	attempts LoginAttemptStore
	config   RateLimitConfig
	logger   logrus.FieldLogger
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(attempts LoginAttemptStore, cfg RateLimitConfig, logger logrus.FieldLogger) *RateLimitService {
	return &RateLimitService{
		attempts: attempts,
		config:   cfg,
		logger:   logger,
	}
}

// CheckLogin returns a RateLimitError when the email has too many recent failures
func (s *RateLimitService) CheckLogin(ctx context.Context, email string, now time.Time) error {
	failures, last, err := s.attempts.FailuresSince(ctx, email, now.Add(-s.config.Window))
	if err != nil {
		return fmt.Errorf("failed to check login rate limit: %w", err)
	}

	if failures >= s.config.MaxAttempts {
		retryAfter := last.Add(s.config.Window)
		return &RateLimitError{
			Message:    fmt.Sprintf("Too many failed sign-in attempts. Please try again after %s", retryAfter.Format("15:04:05")),
			RetryAfter: retryAfter,
		}
	}

	return nil
}

// RecordLogin records the outcome of a sign-in attempt. Errors are logged only.
func (s *RateLimitService) RecordLogin(ctx context.Context, email, ip string, success bool) {
	if err := s.attempts.Record(ctx, email, ip, success); err != nil {
		s.logger.WithFields(logrus.Fields{
			"email": email,
			"error": err.Error(),
		}).Warn("Failed to record login attempt")
	}
}
