package entities

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an error for every transport layer.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeInvalidState ErrorCode = "INVALID_STATE"
	CodeValidation   ErrorCode = "VALIDATION"
	CodeExternalSync ErrorCode = "EXTERNAL_SYNC"
	CodeStorage      ErrorCode = "STORAGE"
	CodeAuthRequired ErrorCode = "AUTH_REQUIRED"
)

// Error is a classified domain error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError classifies an existing error.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Common errors
var (
	ErrTaskNotFound        = NewError(CodeNotFound, "task not found")
	ErrTimeBlockNotFound   = NewError(CodeNotFound, "time block not found")
	ErrJournalNotFound     = NewError(CodeNotFound, "journal not found")
	ErrTaskAlreadyComplete = NewError(CodeInvalidState, "task is already completed")
	ErrMissingExternalID   = NewError(CodeInvalidState, "time block has no calendar event to update")
	ErrInvalidTimeRange    = NewError(CodeValidation, "start time must be before end time on the same day")
	ErrInvalidDuration     = NewError(CodeValidation, "invalid duration, use HH:MM:SS or seconds")
	ErrAuthRequired        = NewError(CodeAuthRequired, "calendar authorization required")
	ErrExternalEventGone   = NewError(CodeNotFound, "calendar event not found")
)

// CodeOf returns the code of the first classified error in the chain.
// Unclassified errors report CodeStorage, since nothing else escapes a
// repository unwrapped.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return CodeStorage
}

// IsCode reports whether the first classified error in the chain has the code.
func IsCode(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ExternalSyncError wraps a calendar failure that must not undo local state.
func ExternalSyncError(operation string, err error) *Error {
	if IsCode(err, CodeAuthRequired) {
		return WrapError(CodeExternalSync, "calendar "+operation+" skipped", err)
	}
	return WrapError(CodeExternalSync, "calendar "+operation+" failed", err)
}
