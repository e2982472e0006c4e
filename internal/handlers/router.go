package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/turfspot/turf-booking-backend/internal/config"
	"github.com/turfspot/turf-booking-backend/internal/metrics"
	"github.com/turfspot/turf-booking-backend/internal/middleware"
	"github.com/turfspot/turf-booking-backend/pkg/jwt"
)

// Router bundles everything the HTTP routes are served from
type Router struct {
	JWT       *jwt.Service
	CORS      config.CORSConfig
	Logger    logrus.FieldLogger
	Health    gin.HandlerFunc
	Auth      *AuthHandler
	Turfs     *TurfHandler
	Bookings  *BookingHandler
	Admin     *AdminHandler
	Functions *FunctionsHandler
}

// Engine builds the gin engine with middleware and all routes
func (r Router) Engine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(r.Logger))
	router.Use(metrics.Middleware())
	router.Use(middleware.CORS(r.CORS))

	health := r.Health
	if health == nil {
		health = func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		}
	}
	router.GET("/health", health)
	router.GET("/metrics", metrics.Handler())

	functions := router.Group("/functions/v1")
	{
		functions.POST("/send-booking-email", r.Functions.SendBookingEmail)
		functions.OPTIONS("/send-booking-email", r.Functions.Options)
		functions.POST("/send-email", r.Functions.SendEmail)
		functions.OPTIONS("/send-email", r.Functions.Options)
	}

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", r.Auth.Signup)
			auth.POST("/login", r.Auth.Login)
			auth.POST("/refresh", r.Auth.Refresh)
		}

		turfs := v1.Group("/turfs")
		{
			turfs.GET("", r.Turfs.List)
			turfs.GET("/:id", r.Turfs.Get)
			turfs.GET("/:id/slots", r.Turfs.Slots)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(r.JWT, r.Logger))
		{
			protected.GET("/me", r.Auth.GetProfile)
			protected.PUT("/me", r.Auth.UpdateProfile)

			protected.POST("/bookings", r.Bookings.Create)
			protected.GET("/bookings", r.Bookings.List)
			protected.POST("/bookings/:id/cancel", r.Bookings.Cancel)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(r.JWT, r.Logger), middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.GET("/dashboard/stats", r.Admin.DashboardStats)
			admin.GET("/bookings", r.Admin.ListBookings)
			admin.GET("/users", r.Admin.ListUsers)
			admin.POST("/turfs", r.Admin.CreateTurf)
			admin.PUT("/turfs/:id", r.Admin.UpdateTurf)
			admin.DELETE("/turfs/:id", r.Admin.DeleteTurf)
		}
	}

	return router
}
