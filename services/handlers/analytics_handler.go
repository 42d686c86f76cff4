package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

type AnalyticsHandler struct {
	analyticsSvc AnalyticsServiceInterface
}

func NewAnalyticsHandler(analyticsSvc AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
	}
}

// @Summary Track a custom event
// @Description Record a named analytics event for the current visitor
// @Tags analytics
// @Accept json
// @Produce json
// @Param trackRequest body dto.TrackEventRequest true "Event details"
// @Success 200 {object} shared.Response{data=dto.TrackResponse}
// @Router /api/analytics/events [post]
func (h *AnalyticsHandler) TrackEvent(c *fiber.Ctx) error {
	var req dto.TrackEventRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if !h.analyticsSvc.TrackEvent(req.EventName, optionalUserID(c), req.Data) {
		return shared.NewBadRequestError(nil, "Failed to track event")
	}

	return shared.ResponseJSON(c, http.StatusOK, "Event tracked successfully", dto.TrackResponse{Message: "Event tracked successfully"})
}

// @Summary Track a page view
// @Description Record a page view for the current visitor
// @Tags analytics
// @Accept json
// @Produce json
// @Param trackRequest body dto.TrackPageViewRequest true "Page view details"
// @Success 200 {object} shared.Response{data=dto.TrackResponse}
// @Router /api/analytics/pageview [post]
func (h *AnalyticsHandler) TrackPageView(c *fiber.Ctx) error {
	var req dto.TrackPageViewRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if !h.analyticsSvc.TrackPageView(req.Page, optionalUserID(c), req.Data) {
		return shared.NewBadRequestError(nil, "Failed to track event")
	}

	return shared.ResponseJSON(c, http.StatusOK, "Page view tracked successfully", dto.TrackResponse{Message: "Page view tracked successfully"})
}

// @Summary Analytics summary
// @Description Aggregated event counts, unique users and top rankings for a date range
// @Tags analytics
// @Produce json
// @Security Bearer
// @Param startDate query string false "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string false "Range end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} shared.Response{data=dto.AnalyticsSummary}
// @Router /api/analytics [get]
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	startDate := parseDateQuery(c, "startDate")
	endDate := parseDateQuery(c, "endDate")

	summary := h.analyticsSvc.GetAnalytics(startDate, endDate)
	return shared.ResponseJSON(c, http.StatusOK, "Success", summary)
}

// @Summary List analytics events
// @Description Paginated raw event listing, newest first
// @Tags analytics
// @Produce json
// @Security Bearer
// @Param startDate query string false "Range start (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string false "Range end (RFC 3339 or YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} shared.Response{data=dto.EventListResponse}
// @Router /api/analytics/events [get]
func (h *AnalyticsHandler) ListEvents(c *fiber.Ctx) error {
	startDate := parseDateQuery(c, "startDate")
	endDate := parseDateQuery(c, "endDate")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 0)

	resp := h.analyticsSvc.ListEvents(startDate, endDate, page, limit)
	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// optionalUserID returns the authenticated user id, or "" for anonymous
// visitors. Tracking endpoints accept both.
func optionalUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals(shared.UserID).(string); ok {
		return userID
	}
	return ""
}

// parseDateQuery accepts RFC 3339 timestamps and plain dates. Unparseable
// values are treated as absent rather than rejected.
func parseDateQuery(c *fiber.Ctx, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}
