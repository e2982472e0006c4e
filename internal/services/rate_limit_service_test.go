package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turfspot/turf-booking-backend/internal/config"
)

func setupRateLimitTest() (*RateLimitService, *fakeAttemptStore) {
	store := &fakeAttemptStore{}
	logger, _ := nullLogger()
	return NewRateLimitService(store, RateLimitConfig{MaxAttempts: 3, Window: 10 * time.Minute}, logger), store
}

func TestCheckLogin_UnderLimit(t *testing.T) {
	service, store := setupRateLimitTest()
	store.failures = 2

	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	assert.NoError(t, service.CheckLogin(context.Background(), "player@example.com", now))
	assert.Equal(t, now.Add(-10*time.Minute), store.since)
}

func TestCheckLogin_Exceeded(t *testing.T) {
	service, store := setupRateLimitTest()
	store.failures = 3
	store.last = time.Date(2024, 6, 10, 8, 55, 0, 0, time.UTC)

	err := service.CheckLogin(context.Background(), "player@example.com", time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))

	var rlErr *RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, time.Date(2024, 6, 10, 9, 5, 0, 0, time.UTC), rlErr.RetryAfter)
	assert.Contains(t, rlErr.Message, "09:05:00")
}

func TestRecordLogin(t *testing.T) {
	service, store := setupRateLimitTest()

	service.RecordLogin(context.Background(), "player@example.com", "10.0.0.1", false)
	service.RecordLogin(context.Background(), "player@example.com", "10.0.0.1", true)

	require.Len(t, store.attempts, 2)
	assert.False(t, store.attempts[0].success)
	assert.True(t, store.attempts[1].success)
}

func TestRateLimitConfigFrom(t *testing.T) {
	cfg := RateLimitConfigFrom(config.SecurityConfig{MaxLoginAttempts: 8, LoginWindowMinutes: 30})
	assert.Equal(t, 8, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Window)

	assert.Equal(t, DefaultRateLimitConfig(), RateLimitConfigFrom(config.SecurityConfig{}))
}
