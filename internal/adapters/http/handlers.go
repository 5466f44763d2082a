// Package http exposes the application services over Echo.
package http

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/focusqueue/core/internal/domain/entities"
	"github.com/focusqueue/core/internal/infrastructure/logger"
)

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator used by every handler
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return entities.WrapError(entities.CodeValidation, "validation failed", err)
	}
	return nil
}

// Request/Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type PaginatedResponse[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

var statusByCode = map[entities.ErrorCode]int{
	entities.CodeNotFound:     http.StatusNotFound,
	entities.CodeInvalidState: http.StatusConflict,
	entities.CodeValidation:   http.StatusBadRequest,
	entities.CodeExternalSync: http.StatusBadGateway,
	entities.CodeAuthRequired: http.StatusUnauthorized,
	entities.CodeStorage:      http.StatusInternalServerError,
}

// StatusOf maps a domain error to its HTTP status.
func StatusOf(err error) int {
	if status, ok := statusByCode[entities.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// errorResponse turns a service error into an HTTP error. Storage failures
// are logged and their details withheld.
func errorResponse(log *logger.Logger, op string, err error) *echo.HTTPError {
	code := entities.CodeOf(err)
	status := StatusOf(err)

	body := ErrorResponse{Error: string(code), Details: err.Error()}
	if status >= http.StatusInternalServerError && code != entities.CodeExternalSync {
		log.Errorw(op+" failed", "error", err)
		body.Details = http.StatusText(status)
	} else {
		log.Debugw(op+" rejected", "error", err, "status", status)
	}
	return echo.NewHTTPError(status, body).SetInternal(err)
}

func badRequest(details string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Error: string(entities.CodeValidation), Details: details})
}

// bindAndValidate binds the request into req and validates it
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("Invalid ID")
	}
	return id, nil
}
