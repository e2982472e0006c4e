package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/config"
	"github.com/turfspot/turf-booking-backend/internal/database"
	"github.com/turfspot/turf-booking-backend/internal/handlers"
	"github.com/turfspot/turf-booking-backend/internal/mailer"
	"github.com/turfspot/turf-booking-backend/internal/notify"
	"github.com/turfspot/turf-booking-backend/internal/services"
	"github.com/turfspot/turf-booking-backend/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting TurfSpot booking backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	loc, err := cfg.Booking.Location()
	if err != nil {
		logger.Fatalf("Failed to load booking timezone: %v", err)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	turfRepository := database.NewTurfRepository(db)
	bookingRepository := database.NewBookingRepository(db)
	profileRepository := database.NewProfileRepository(db)
	auditRepository := database.NewAuditRepository(db)
	loginAttemptRepository := database.NewLoginAttemptRepository(db)

	// Notifications
	notifier, closeNotifier, err := notify.New(cfg.Notify, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize notifier: %v", err)
	}
	defer func() {
		if err := closeNotifier(); err != nil {
			logger.WithError(err).Warn("Failed to close notifier")
		}
	}()
	logger.WithField("mode", cfg.Notify.Mode).Info("Notification dispatch configured")

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	dispatcher := services.NewDispatcher(notifier, cfg.Notify.Timeout, logger)
	bookingService := services.NewBookingService(bookingRepository, turfRepository, dispatcher, cfg.Booking, loc, logger)
	turfService := services.NewTurfService(turfRepository, logger)
	dashboardService := services.NewDashboardService(bookingRepository, profileRepository, loc)
	rateLimitService := services.NewRateLimitService(loginAttemptRepository, services.RateLimitConfigFrom(cfg.Security), logger)
	authService := services.NewAuthService(profileRepository, rateLimitService, jwtService, cfg.Security.BcryptCost, logger)
	auditService := services.NewAuditService(auditRepository, cfg.Security.EnableAuditLog, logger)

	// Initialize handlers
	router := handlers.Router{
		JWT:       jwtService,
		CORS:      cfg.CORS,
		Logger:    logger,
		Health:    healthHandler(db),
		Auth:      handlers.NewAuthHandler(authService, auditService, logger),
		Turfs:     handlers.NewTurfHandler(turfService, bookingService, logger),
		Bookings:  handlers.NewBookingHandler(bookingService, auditService, logger),
		Admin:     handlers.NewAdminHandler(dashboardService, turfService, auditService, logger),
		Functions: handlers.NewFunctionsHandler(mailer.New(cfg.SMTP, logger), logger),
	}.Engine()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := dispatcher.Drain(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Notification drain timed out")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("Server stopped with error: %v", err)
		return
	}
	logger.Info("Server exited")
}

func healthHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "connected",
			"version":  version,
		})
	}
}
