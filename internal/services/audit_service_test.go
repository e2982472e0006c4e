package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turfspot/turf-booking-backend/internal/models"
)

const chromeAndroid = "Mozilla/5.0 (Linux; Android 12; Pixel 6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Mobile Safari/537.36"

func TestAuditService_LogBookingCreated(t *testing.T) {
	store := &fakeAuditStore{}
	logger, _ := nullLogger()
	svc := NewAuditService(store, true, logger)

	userID := uuid.New()
	booking := &models.Booking{
		ID:          uuid.New(),
		TurfID:      uuid.New(),
		BookingDate: mustDate(t, "2024-06-10"),
		StartTime:   "06:00 PM",
		TotalPrice:  decimal.NewFromInt(1200),
	}

	svc.LogBookingCreated(context.Background(), userID, booking, RequestMeta{IPAddress: "203.0.113.7", UserAgent: chromeAndroid})

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.Equal(t, ActionBookingCreated, entry.Action)
	assert.Equal(t, userID, entry.UserID.UUID)
	assert.Equal(t, booking.ID, entry.EntityID.UUID)
	assert.Equal(t, "booking", entry.EntityType.String)
	assert.Equal(t, "203.0.113.7", entry.IPAddress.String)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(entry.Details.String), &details))
	assert.Equal(t, "06:00 PM", details["start_time"])
	assert.Equal(t, "1200", details["total_price"])

	device, ok := details["device_info"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "mobile", device["device_type"])
}

func TestAuditService_LogLogin_Failed(t *testing.T) {
	store := &fakeAuditStore{}
	logger, _ := nullLogger()
	svc := NewAuditService(store, true, logger)

	svc.LogLogin(context.Background(), uuid.Nil, "ghost@example.com", false, "invalid_credentials", RequestMeta{})

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.Equal(t, ActionLoginFailed, entry.Action)
	assert.False(t, entry.UserID.Valid)
	assert.False(t, entry.IPAddress.Valid)
	assert.Contains(t, entry.Details.String, "invalid_credentials")
}

func TestAuditService_FailureIsLoggedOnly(t *testing.T) {
	store := &fakeAuditStore{err: errBackend}
	logger, hook := nullLogger()
	svc := NewAuditService(store, true, logger)

	svc.LogTurfChange(context.Background(), ActionTurfDeleted, uuid.New(), uuid.New(), RequestMeta{})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, ActionTurfDeleted, entry.Data["action"])
}

func TestAuditService_Disabled(t *testing.T) {
	store := &fakeAuditStore{}
	logger, _ := nullLogger()
	svc := NewAuditService(store, false, logger)

	svc.LogSignup(context.Background(), uuid.New(), "player@example.com", RequestMeta{})
	assert.Empty(t, store.entries)
}
