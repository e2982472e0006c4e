package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/turfspot/turf-booking-backend/internal/models"
	"github.com/turfspot/turf-booking-backend/internal/services"
	"github.com/turfspot/turf-booking-backend/internal/utils"
)

// requestMeta captures the client address and agent for audit entries
func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}
}

// auditContext detaches audit writes from request cancellation
func auditContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// noopAuditor is used when audit logging is not wired
type noopAuditor struct{}

func (noopAuditor) LogSignup(context.Context, uuid.UUID, string, services.RequestMeta) {}
func (noopAuditor) LogLogin(context.Context, uuid.UUID, string, bool, string, services.RequestMeta) {
}
func (noopAuditor) LogBookingCreated(context.Context, uuid.UUID, *models.Booking, services.RequestMeta) {
}
func (noopAuditor) LogBookingCancelled(context.Context, uuid.UUID, *models.Booking, services.RequestMeta) {
}
func (noopAuditor) LogTurfChange(context.Context, string, uuid.UUID, uuid.UUID, services.RequestMeta) {
}

func auditorOrNoop(a Auditor) Auditor {
	if a == nil {
		return noopAuditor{}
	}
	return a
}
