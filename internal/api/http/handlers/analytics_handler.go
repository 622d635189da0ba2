package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AnalyticsHandler serves the role-scoped dashboard.
type AnalyticsHandler struct {
	queries *service.QueryService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(queryService *service.QueryService) *AnalyticsHandler {
	return &AnalyticsHandler{queries: queryService}
}

// Dashboard GET /analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	stats, err := h.queries.Aggregate(c.Context(), principal.Context)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
