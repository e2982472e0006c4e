package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/services"
	"github.com/turfspot/turf-booking-backend/internal/utils"
)

// AuthHandler handles signup, sign-in and profile HTTP requests
type AuthHandler struct {
	auth   Authenticator
	audit  Auditor
	logger logrus.FieldLogger
	now    Clock
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator, audit Auditor, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		audit:  auditorOrNoop(audit),
		logger: logger,
		now:    clockOrNow(nil),
	}
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "A valid email and a password of at least 6 characters are required")
		return
	}

	resp, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.LogSignup(auditContext(c), resp.Profile.ID, resp.Profile.Email, requestMeta(c))
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required")
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req, utils.GetRealIP(c), h.now())
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.audit.LogLogin(auditContext(c), uuid.Nil, req.Email, false, "invalid_credentials", requestMeta(c))
		}
		h.logger.WithFields(logrus.Fields{
			"email": req.Email,
			"error": err.Error(),
		}).Warn("Login failed")
		respondError(c, h.logger, err)
		return
	}

	h.audit.LogLogin(auditContext(c), resp.Profile.ID, resp.Profile.Email, true, "", requestMeta(c))
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token is required")
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if services.IsNotFound(err) {
			respondError(c, h.logger, err)
			return
		}
		h.logger.WithError(err).Warn("Token refresh failed")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_refresh_token",
			Message: "Your session has expired. Please sign in again.",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile handles GET /api/v1/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.auth.Profile(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      profile,
		"display_name": profile.DisplayName(),
	})
}

// UpdateProfile handles PUT /api/v1/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username must be between 2 and 50 characters")
		return
	}

	profile, err := h.auth.UpdateProfile(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      profile,
		"display_name": profile.DisplayName(),
	})
}
