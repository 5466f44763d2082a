package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

// DayPlanHandler handles time block requests
type DayPlanHandler struct {
	dayPlanService ports.DayPlanService
	logger         *logger.Logger
}

// NewDayPlanHandler creates a new day plan handler
func NewDayPlanHandler(dayPlanService ports.DayPlanService, logger *logger.Logger) *DayPlanHandler {
	return &DayPlanHandler{
		dayPlanService: dayPlanService,
		logger:         logger,
	}
}

// ListDayPlans godoc
// @Summary List today's time blocks
// @Description Pulls new calendar events first when possible; serves stored blocks if the calendar is unreachable
// @Tags dayplans
// @Produce json
// @Success 200 {array} entities.TimeBlock
// @Security BearerAuth
// @Router /dayplans [get]
func (h *DayPlanHandler) ListDayPlans(c echo.Context) error {
	blocks, err := h.dayPlanService.ListToday(c.Request().Context())
	if err != nil {
		return errorResponse(h.logger, "List day plans", err)
	}
	return c.JSON(http.StatusOK, blocks)
}

// SyncDayPlans godoc
// @Summary Import today's calendar events
// @Tags dayplans
// @Produce json
// @Success 200 {array} entities.TimeBlock
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /dayplans/sync [post]
func (h *DayPlanHandler) SyncDayPlans(c echo.Context) error {
	blocks, err := h.dayPlanService.SyncToday(c.Request().Context())
	if err != nil {
		return errorResponse(h.logger, "Sync day plans", err)
	}
	return c.JSON(http.StatusOK, blocks)
}

// GetCurrentDayPlan godoc
// @Summary Get the time block containing now
// @Tags dayplans
// @Produce json
// @Success 200 {object} entities.TimeBlock
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /dayplans/current [get]
func (h *DayPlanHandler) GetCurrentDayPlan(c echo.Context) error {
	block, err := h.dayPlanService.GetCurrent(c.Request().Context())
	if err != nil {
		return errorResponse(h.logger, "Get current day plan", err)
	}
	return c.JSON(http.StatusOK, block)
}

// CreateDayPlan godoc
// @Summary Create a time block for today
// @Tags dayplans
// @Accept json
// @Produce json
// @Param request body ports.CreateTimeBlockRequest true "Time block"
// @Success 201 {object} ports.TimeBlockResult
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /dayplans [post]
func (h *DayPlanHandler) CreateDayPlan(c echo.Context) error {
	var req ports.CreateTimeBlockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.dayPlanService.CreateTimeBlock(c.Request().Context(), req)
	if err != nil {
		return errorResponse(h.logger, "Create day plan", err)
	}
	return c.JSON(http.StatusCreated, result)
}

// UpdateDayPlan godoc
// @Summary Update a time block
// @Description Partial update; also patches the linked calendar event
// @Tags dayplans
// @Accept json
// @Produce json
// @Param id path int true "Time block ID"
// @Param request body ports.UpdateTimeBlockRequest true "Fields to change"
// @Success 200 {object} ports.TimeBlockResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /dayplans/{id} [put]
func (h *DayPlanHandler) UpdateDayPlan(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateTimeBlockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.dayPlanService.UpdateTimeBlock(c.Request().Context(), id, req)
	if err != nil {
		return errorResponse(h.logger, "Update day plan", err)
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteDayPlan godoc
// @Summary Delete a time block
// @Tags dayplans
// @Produce json
// @Param id path int true "Time block ID"
// @Success 200 {object} ports.TimeBlockResult
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /dayplans/{id} [delete]
func (h *DayPlanHandler) DeleteDayPlan(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	result, err := h.dayPlanService.DeleteTimeBlock(c.Request().Context(), id)
	if err != nil {
		return errorResponse(h.logger, "Delete day plan", err)
	}
	return c.JSON(http.StatusOK, result)
}
