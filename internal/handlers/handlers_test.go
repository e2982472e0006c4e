package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turfspot/turf-booking-backend/internal/config"
	"github.com/turfspot/turf-booking-backend/internal/database"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/services"
	"github.com/turfspot/turf-booking-backend/internal/viewmodel"
	"github.com/turfspot/turf-booking-backend/pkg/jwt"
)

type harness struct {
	router   *gin.Engine
	jwt      *jwt.Service
	auth     *fakeAuth
	bookings *fakeBookings
	turfs    *fakeTurfs
	reports  *fakeReports
	audit    *recordingAuditor
	mailer   *fakeMailer
}

func newHarness() *harness {
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()

	h := &harness{
		jwt:      jwt.NewService("test-access-secret-key", "test-refresh-secret-key", time.Hour, 24*time.Hour),
		auth:     &fakeAuth{},
		bookings: &fakeBookings{},
		turfs:    &fakeTurfs{},
		reports:  &fakeReports{},
		audit:    &recordingAuditor{},
		mailer:   &fakeMailer{},
	}

	h.router = Router{
		JWT: h.jwt,
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		Logger:    logger,
		Auth:      NewAuthHandler(h.auth, h.audit, logger),
		Turfs:     NewTurfHandler(h.turfs, h.bookings, logger),
		Bookings:  NewBookingHandler(h.bookings, h.audit, logger),
		Admin:     NewAdminHandler(h.reports, h.turfs, h.audit, logger),
		Functions: NewFunctionsHandler(h.mailer, logger),
	}.Engine()
	return h
}

func (h *harness) token(t *testing.T, roles ...string) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := h.jwt.GenerateAccessToken(userID, "player@example.com", append([]string{models.RoleUser}, roles...))
	require.NoError(t, err)
	return token, userID
}

func (h *harness) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func sampleRow() *viewmodel.BookingRow {
	date, _ := models.ParseDate("2024-06-12")
	row := viewmodel.NewRow(models.BookingWithTurf{Booking: models.Booking{
		ID:          uuid.New(),
		BookingDate: date,
		StartTime:   "06:00 PM",
		EndTime:     "07:00 PM",
		TotalPrice:  decimal.NewFromInt(1200),
		Status:      models.BookingConfirmed,
	}}, true)
	return &row
}

func TestHealth(t *testing.T) {
	h := newHarness()
	w := h.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestAuthRoutes(t *testing.T) {
	t.Run("signup", func(t *testing.T) {
		h := newHarness()
		h.auth.resp = &models.AuthResponse{AccessToken: "a", RefreshToken: "r", Profile: &models.Profile{ID: uuid.New(), Email: "player@example.com"}}

		w := h.do(http.MethodPost, "/api/v1/auth/signup", gin.H{"email": "player@example.com", "password": "secret123"}, "")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "a", decode(t, w)["access_token"])
		assert.Equal(t, []string{services.ActionSignup}, h.audit.actions)
	})

	t.Run("signup short password", func(t *testing.T) {
		h := newHarness()
		w := h.do(http.MethodPost, "/api/v1/auth/signup", gin.H{"email": "player@example.com", "password": "123"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("signup duplicate email", func(t *testing.T) {
		h := newHarness()
		h.auth.err = database.ErrEmailTaken
		w := h.do(http.MethodPost, "/api/v1/auth/signup", gin.H{"email": "player@example.com", "password": "secret123"}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "email_taken", decode(t, w)["error"])
	})

	t.Run("login invalid credentials", func(t *testing.T) {
		h := newHarness()
		h.auth.err = services.ErrInvalidCredentials
		w := h.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "player@example.com", "password": "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, []string{services.ActionLoginFailed}, h.audit.actions)
	})

	t.Run("login rate limited", func(t *testing.T) {
		h := newHarness()
		h.auth.err = &services.RateLimitError{Message: "Too many failed sign-in attempts", RetryAfter: time.Now().Add(10 * time.Minute)}
		w := h.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "player@example.com", "password": "nope"}, "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("refresh rejected", func(t *testing.T) {
		h := newHarness()
		h.auth.err = errors.New("invalid refresh token: token is malformed")
		w := h.do(http.MethodPost, "/api/v1/auth/refresh", gin.H{"refresh_token": "garbage"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid_refresh_token", decode(t, w)["error"])
	})

	t.Run("profile requires token", func(t *testing.T) {
		h := newHarness()
		w := h.do(http.MethodGet, "/api/v1/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("update profile", func(t *testing.T) {
		h := newHarness()
		h.auth.profile = &models.Profile{ID: uuid.New(), Email: "player@example.com"}
		token, _ := h.token(t)

		w := h.do(http.MethodPut, "/api/v1/me", gin.H{"username": "Asha"}, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Asha", decode(t, w)["display_name"])
	})
}

func TestTurfRoutes(t *testing.T) {
	t.Run("list passes filters", func(t *testing.T) {
		h := newHarness()
		h.turfs.turfs = []models.Turf{{ID: uuid.New(), Name: "Green Arena"}}

		w := h.do(http.MethodGet, "/api/v1/turfs?search=arena&feature=Parking", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decode(t, w)["count"])
		assert.Equal(t, "arena", h.turfs.filter.Search)
		assert.Equal(t, "Parking", h.turfs.filter.Feature)
	})

	t.Run("get unknown turf", func(t *testing.T) {
		h := newHarness()
		h.turfs.err = database.ErrTurfNotFound
		w := h.do(http.MethodGet, "/api/v1/turfs/"+uuid.NewString(), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get malformed id", func(t *testing.T) {
		h := newHarness()
		w := h.do(http.MethodGet, "/api/v1/turfs/not-a-uuid", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("slots", func(t *testing.T) {
		h := newHarness()
		h.bookings.slots = &models.TurfSlots{Slots: []models.SlotAvailability{{StartTime: "06:00 AM", EndTime: "07:00 AM", Available: true}}}

		w := h.do(http.MethodGet, "/api/v1/turfs/"+uuid.NewString()+"/slots?date=2024-06-10", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		w = h.do(http.MethodGet, "/api/v1/turfs/"+uuid.NewString()+"/slots?date=10-06-2024", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookingRoutes(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		h := newHarness()
		h.bookings.row = sampleRow()
		token, userID := h.token(t)
		turfID := uuid.New()

		w := h.do(http.MethodPost, "/api/v1/bookings", gin.H{
			"turf_id":      turfID.String(),
			"booking_date": "2024-06-12",
			"start_time":   "06:00 PM",
		}, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		require.NotNil(t, h.bookings.created)
		assert.Equal(t, userID, h.bookings.created.userID)
		assert.Equal(t, "player@example.com", h.bookings.created.email)
		assert.Equal(t, turfID, h.bookings.created.turfID)
		assert.Equal(t, "2024-06-12", h.bookings.created.date.String())
		assert.Equal(t, []string{services.ActionBookingCreated}, h.audit.actions)

		booking := decode(t, w)["booking"].(map[string]interface{})
		assert.Equal(t, "₹1,200", booking["price_label"])
		assert.Equal(t, true, booking["can_cancel"])
	})

	t.Run("create incomplete selection", func(t *testing.T) {
		h := newHarness()
		token, _ := h.token(t)

		w := h.do(http.MethodPost, "/api/v1/bookings", gin.H{"turf_id": uuid.NewString(), "booking_date": "2024-06-12"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = h.do(http.MethodPost, "/api/v1/bookings", gin.H{"turf_id": "x", "booking_date": "2024-06-12", "start_time": "06:00 PM"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, h.bookings.created)
	})

	t.Run("create validation error", func(t *testing.T) {
		h := newHarness()
		h.bookings.err = &services.ValidationError{Field: "booking_date", Message: "booking date cannot be in the past"}
		token, _ := h.token(t)

		w := h.do(http.MethodPost, "/api/v1/bookings", gin.H{"turf_id": uuid.NewString(), "booking_date": "2024-06-01", "start_time": "06:00 PM"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "booking_date", body["field"])
		assert.Equal(t, "booking date cannot be in the past", body["message"])
	})

	t.Run("create slot taken", func(t *testing.T) {
		h := newHarness()
		h.bookings.err = database.ErrSlotTaken
		token, _ := h.token(t)

		w := h.do(http.MethodPost, "/api/v1/bookings", gin.H{"turf_id": uuid.NewString(), "booking_date": "2024-06-12", "start_time": "06:00 PM"}, token)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, h.audit.actions)
	})

	t.Run("create backend failure", func(t *testing.T) {
		h := newHarness()
		h.bookings.err = errors.New("pq: connection refused")
		token, _ := h.token(t)

		w := h.do(http.MethodPost, "/api/v1/bookings", gin.H{"turf_id": uuid.NewString(), "booking_date": "2024-06-12", "start_time": "06:00 PM"}, token)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("list", func(t *testing.T) {
		h := newHarness()
		h.bookings.view = viewmodel.Reduce(viewmodel.BookingsView{}, viewmodel.Loaded{Rows: []viewmodel.BookingRow{*sampleRow()}})
		token, _ := h.token(t)

		w := h.do(http.MethodGet, "/api/v1/bookings", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, float64(1), body["active_count"])
		assert.Len(t, body["bookings"], 1)
	})

	t.Run("cancel", func(t *testing.T) {
		h := newHarness()
		row := sampleRow()
		row.Status = models.BookingCancelled
		h.bookings.row = row
		token, _ := h.token(t)

		w := h.do(http.MethodPost, "/api/v1/bookings/"+row.ID.String()+"/cancel", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{services.ActionBookingCancelled}, h.audit.actions)
	})

	t.Run("cancel inside window", func(t *testing.T) {
		h := newHarness()
		h.bookings.err = services.ErrNotCancellable
		token, _ := h.token(t)

		w := h.do(http.MethodPost, "/api/v1/bookings/"+uuid.NewString()+"/cancel", nil, token)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "not_cancellable", decode(t, w)["error"])
	})
}

func TestAdminRoutes(t *testing.T) {
	t.Run("players are forbidden", func(t *testing.T) {
		h := newHarness()
		token, _ := h.token(t)

		w := h.do(http.MethodGet, "/api/v1/admin/dashboard/stats", nil, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("dashboard stats", func(t *testing.T) {
		h := newHarness()
		h.reports.stats = &models.DashboardStats{TotalUsers: 3, TotalBookings: 5, RevenueFormatted: "₹6,000"}
		token, _ := h.token(t, models.RoleAdmin)

		w := h.do(http.MethodGet, "/api/v1/admin/dashboard/stats", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "₹6,000", decode(t, w)["revenue_formatted"])
	})

	t.Run("bookings carry user labels", func(t *testing.T) {
		h := newHarness()
		b := models.BookingWithTurf{Booking: models.Booking{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		}}
		b.BookingDate, _ = models.ParseDate("2024-06-10")
		b.UserEmail.String, b.UserEmail.Valid = "asha@example.com", true
		h.reports.bookings = []models.BookingWithTurf{b}
		token, _ := h.token(t, models.RoleAdmin)

		w := h.do(http.MethodGet, "/api/v1/admin/bookings", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		rows := decode(t, w)["bookings"].([]interface{})
		row := rows[0].(map[string]interface{})
		assert.Equal(t, "asha@example.com", row["user_label"])
		assert.Equal(t, "10 Jun 2024", row["date_label"])
		assert.Equal(t, "01 Jun 2024, 09:00 AM", row["created_label"])
	})

	t.Run("create turf", func(t *testing.T) {
		h := newHarness()
		h.turfs.turf = &models.Turf{ID: uuid.New(), Name: "Green Arena"}
		token, _ := h.token(t, models.RoleAdmin)

		w := h.do(http.MethodPost, "/api/v1/admin/turfs", `{"name":"Green Arena","location":"Indiranagar","price":1200,"capacity":"14"}`, token)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, []string{services.ActionTurfCreated}, h.audit.actions)
	})

	t.Run("create turf non-numeric price", func(t *testing.T) {
		h := newHarness()
		token, _ := h.token(t, models.RoleAdmin)

		w := h.do(http.MethodPost, "/api/v1/admin/turfs", `{"name":"Green Arena","location":"Indiranagar","price":"abc","capacity":14}`, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "price and capacity must be numbers", decode(t, w)["message"])
	})

	t.Run("delete turf with bookings", func(t *testing.T) {
		h := newHarness()
		h.turfs.err = database.ErrTurfInUse
		token, _ := h.token(t, models.RoleAdmin)

		w := h.do(http.MethodDelete, "/api/v1/admin/turfs/"+uuid.NewString(), nil, token)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, h.audit.actions)
	})
}

func TestFunctionRoutes(t *testing.T) {
	t.Run("send email", func(t *testing.T) {
		h := newHarness()
		w := h.do(http.MethodPost, "/functions/v1/send-email", gin.H{"to": "player@example.com", "subject": "Hi", "body": "<p>Hello</p>"}, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decode(t, w)["success"])
		require.Len(t, h.mailer.sent, 1)
		assert.Equal(t, "<p>Hello</p>", h.mailer.sent[0].body)
	})

	t.Run("send email missing fields", func(t *testing.T) {
		h := newHarness()
		w := h.do(http.MethodPost, "/functions/v1/send-email", gin.H{"to": "player@example.com"}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, false, body["success"])
		assert.NotEmpty(t, body["error"])
	})

	t.Run("send email relay failure", func(t *testing.T) {
		h := newHarness()
		h.mailer.err = errors.New("535 authentication failed")
		w := h.do(http.MethodPost, "/functions/v1/send-email", gin.H{"to": "player@example.com", "subject": "Hi", "body": "x"}, "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "535 authentication failed", decode(t, w)["error"])
	})

	t.Run("send booking email", func(t *testing.T) {
		h := newHarness()
		w := h.do(http.MethodPost, "/functions/v1/send-booking-email", gin.H{
			"type":  "confirmation",
			"email": "player@example.com",
			"booking": gin.H{
				"id": uuid.NewString(), "date": "2024-06-10", "startTime": "06:00 PM", "turfName": "Green Arena", "price": 1200,
			},
		}, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Email logged successfully", decode(t, w)["message"])
		assert.Empty(t, h.mailer.sent)
	})

	t.Run("send booking email unknown type", func(t *testing.T) {
		h := newHarness()
		w := h.do(http.MethodPost, "/functions/v1/send-booking-email", gin.H{"type": "reminder", "email": "player@example.com"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("options", func(t *testing.T) {
		h := newHarness()
		w := h.do(http.MethodOptions, "/functions/v1/send-email", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})
}
