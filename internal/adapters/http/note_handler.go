package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

// NoteHandler handles reminders and goals
type NoteHandler struct {
	noteService ports.NoteService
	logger      *logger.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService ports.NoteService, logger *logger.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// CreateReminder godoc
// @Summary Create a reminder
// @Tags notes
// @Accept json
// @Produce json
// @Param request body ports.CreateNoteRequest true "Reminder"
// @Success 201 {object} entities.Reminder
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /reminders [post]
func (h *NoteHandler) CreateReminder(c echo.Context) error {
	var req ports.CreateNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reminder, err := h.noteService.CreateReminder(c.Request().Context(), req)
	if err != nil {
		return errorResponse(h.logger, "Create reminder", err)
	}
	return c.JSON(http.StatusCreated, reminder)
}

// ListReminders godoc
// @Summary List reminders, newest first
// @Tags notes
// @Produce json
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {array} entities.Reminder
// @Security BearerAuth
// @Router /reminders [get]
func (h *NoteHandler) ListReminders(c echo.Context) error {
	var page ports.Pagination
	if err := bindAndValidate(c, &page); err != nil {
		return err
	}

	reminders, err := h.noteService.ListReminders(c.Request().Context(), page.Normalize())
	if err != nil {
		return errorResponse(h.logger, "List reminders", err)
	}
	return c.JSON(http.StatusOK, reminders)
}

// CreateGoal godoc
// @Summary Create a goal for today
// @Tags notes
// @Accept json
// @Produce json
// @Param request body ports.CreateNoteRequest true "Goal"
// @Success 201 {object} entities.Goal
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /goals [post]
func (h *NoteHandler) CreateGoal(c echo.Context) error {
	var req ports.CreateNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	goal, err := h.noteService.CreateGoal(c.Request().Context(), req)
	if err != nil {
		return errorResponse(h.logger, "Create goal", err)
	}
	return c.JSON(http.StatusCreated, goal)
}

// ListGoals godoc
// @Summary List goals, newest first
// @Tags notes
// @Produce json
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {array} entities.Goal
// @Security BearerAuth
// @Router /goals [get]
func (h *NoteHandler) ListGoals(c echo.Context) error {
	var page ports.Pagination
	if err := bindAndValidate(c, &page); err != nil {
		return err
	}

	goals, err := h.noteService.ListGoals(c.Request().Context(), page.Normalize())
	if err != nil {
		return errorResponse(h.logger, "List goals", err)
	}
	return c.JSON(http.StatusOK, goals)
}

// GetLatestNotes godoc
// @Summary Latest reminder and goal
// @Tags notes
// @Produce json
// @Success 200 {object} ports.LatestNotes
// @Security BearerAuth
// @Router /notes/latest [get]
func (h *NoteHandler) GetLatestNotes(c echo.Context) error {
	latest, err := h.noteService.Latest(c.Request().Context())
	if err != nil {
		return errorResponse(h.logger, "Get latest notes", err)
	}
	return c.JSON(http.StatusOK, latest)
}
