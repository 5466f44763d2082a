package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

// ActivityHandler serves the current activity
type ActivityHandler struct {
	activityService ports.ActivityService
	logger          *logger.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService ports.ActivityService, logger *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// SetPageRequest moves today's habit progress to a page
type SetPageRequest struct {
	PageNumber *int `json:"page_number" validate:"required,min=0"`
}

// GetCurrentActivity godoc
// @Summary Resolve the current activity
// @Description Event, habit page or queue, by fixed precedence
// @Tags activity
// @Produce json
// @Success 200 {object} entities.ActivityDescriptor
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /current-activity [get]
func (h *ActivityHandler) GetCurrentActivity(c echo.Context) error {
	activity, err := h.activityService.Resolve(c.Request().Context())
	if err != nil {
		return errorResponse(h.logger, "Resolve activity", err)
	}
	return c.JSON(http.StatusOK, activity)
}

// SetPage godoc
// @Summary Set today's habit page
// @Tags activity
// @Accept json
// @Produce json
// @Param request body SetPageRequest true "Page"
// @Success 200 {object} entities.ActivityDescriptor
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /current-activity/set-page [put]
func (h *ActivityHandler) SetPage(c echo.Context) error {
	var req SetPageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	activity, err := h.activityService.SetPage(c.Request().Context(), *req.PageNumber)
	if err != nil {
		return errorResponse(h.logger, "Set page", err)
	}
	return c.JSON(http.StatusOK, activity)
}
