package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/database"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup, sign-in and profile business logic
type AuthService struct {
	profiles   ProfileStore
	limiter    *RateLimitService
	jwtService *jwt.Service
	bcryptCost int
	logger     logrus.FieldLogger
}

// NewAuthService creates a new auth service
func NewAuthService(
	profiles ProfileStore,
	limiter *RateLimitService,
	jwtService *jwt.Service,
	bcryptCost int,
	logger logrus.FieldLogger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		profiles:   profiles,
		limiter:    limiter,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup creates an account and signs it in
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &models.Profile{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashedPassword),
	}
	if username := strings.TrimSpace(req.Username); username != "" {
		profile.Username = nullString(username)
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", profile.ID).Info("Profile created")
	return s.issueTokens(profile)
}

// Login authenticates with email and password. Repeated failures for the
// same email are throttled.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, ip string, now time.Time) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.limiter.CheckLogin(ctx, email, now); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrProfileNotFound) {
			s.limiter.RecordLogin(ctx, email, ip, false)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		s.limiter.RecordLogin(ctx, email, ip, false)
		return nil, ErrInvalidCredentials
	}

	s.limiter.RecordLogin(ctx, email, ip, true)

	// Update last login
	if err := s.profiles.UpdateLastLogin(ctx, profile.ID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id": profile.ID,
			"error":   err.Error(),
		}).Warn("Failed to update last login")
	}

	return s.issueTokens(profile)
}

// Refresh issues a new token pair from a valid refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	// Roles are re-read so a promoted admin picks them up on refresh
	profile, err := s.profiles.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(profile)
}

// Profile returns the signed-in user's profile
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

// UpdateProfile changes the display name
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.Profile, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < 2 {
		return nil, invalid("username", "username must be at least 2 characters")
	}
	return s.profiles.UpdateUsername(ctx, userID, username)
}

func (s *AuthService) issueTokens(profile *models.Profile) (*models.AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(profile.ID, profile.Email, profile.Roles())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(profile.ID, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
		Profile:      profile,
	}, nil
}
