package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/ports"
)

// JournalHandler handles journal requests
type JournalHandler struct {
	journalService ports.JournalService
	logger         *logger.Logger
}

// NewJournalHandler creates a new journal handler
func NewJournalHandler(journalService ports.JournalService, logger *logger.Logger) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
		logger:         logger,
	}
}

// CreateJournal godoc
// @Summary Write a journal entry
// @Tags journals
// @Accept json
// @Produce json
// @Param request body ports.CreateJournalRequest true "Sections"
// @Success 201 {object} entities.Journal
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /journals [post]
func (h *JournalHandler) CreateJournal(c echo.Context) error {
	var req ports.CreateJournalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	journal, err := h.journalService.CreateJournal(c.Request().Context(), req)
	if err != nil {
		return errorResponse(h.logger, "Create journal", err)
	}
	return c.JSON(http.StatusCreated, journal)
}

// GetJournal godoc
// @Summary Get a journal entry with its sections
// @Tags journals
// @Produce json
// @Param id path int true "Journal ID"
// @Success 200 {object} entities.Journal
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *JournalHandler) GetJournal(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	journal, err := h.journalService.GetJournal(c.Request().Context(), id)
	if err != nil {
		return errorResponse(h.logger, "Get journal", err)
	}
	return c.JSON(http.StatusOK, journal)
}

// ListJournals godoc
// @Summary List journal entries, newest first
// @Tags journals
// @Produce json
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {array} entities.Journal
// @Security BearerAuth
// @Router /journals [get]
func (h *JournalHandler) ListJournals(c echo.Context) error {
	var page ports.Pagination
	if err := bindAndValidate(c, &page); err != nil {
		return err
	}

	journals, err := h.journalService.ListJournals(c.Request().Context(), page.Normalize())
	if err != nil {
		return errorResponse(h.logger, "List journals", err)
	}
	return c.JSON(http.StatusOK, journals)
}
