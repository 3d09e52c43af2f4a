package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type ErrorCode string

const (
	CodeNotFound                 ErrorCode = "NOT_FOUND"
	CodeUnauthorized             ErrorCode = "UNAUTHORIZED"
	CodeInvalidState             ErrorCode = "INVALID_STATE"
	CodeInvalidTransition        ErrorCode = "INVALID_TRANSITION"
	CodeConflict                 ErrorCode = "CONFLICT"
	CodeRecoverableInconsistency ErrorCode = "RECOVERABLE_INCONSISTENCY"
	CodeValidation               ErrorCode = "VALIDATION_ERROR"
)

// Sentinels for errors.Is. Repositories wrap ErrNotFound and ErrConflict,
// services return *AppError values that match them by code.
var (
	ErrNotFound                 = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrUnauthorized             = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrInvalidState             = &AppError{Code: CodeInvalidState, Message: "invalid state"}
	ErrInvalidTransition        = &AppError{Code: CodeInvalidTransition, Message: "invalid transition"}
	ErrConflict                 = &AppError{Code: CodeConflict, Message: "conflict"}
	ErrRecoverableInconsistency = &AppError{Code: CodeRecoverableInconsistency, Message: "recoverable inconsistency"}
	ErrValidation               = &AppError{Code: CodeValidation, Message: "validation error"}
)

type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func NotFound(format string, args ...any) error {
	return NewAppError(CodeNotFound, fmt.Sprintf(format, args...), nil)
}

func Unauthorized(format string, args ...any) error {
	return NewAppError(CodeUnauthorized, fmt.Sprintf(format, args...), nil)
}

func InvalidState(format string, args ...any) error {
	return NewAppError(CodeInvalidState, fmt.Sprintf(format, args...), nil)
}

func InvalidTransition(from, to BookingStatus) error {
	return NewAppError(CodeInvalidTransition, fmt.Sprintf("booking cannot move from %s to %s", from, to), nil)
}

func Conflict(format string, args ...any) error {
	return NewAppError(CodeConflict, fmt.Sprintf(format, args...), nil)
}

func Validation(format string, args ...any) error {
	return NewAppError(CodeValidation, fmt.Sprintf(format, args...), nil)
}

// CodeOf returns the code of the first *AppError in err's chain, or "" for
// errors that did not originate in the domain (store I/O and the like).
func CodeOf(err error) ErrorCode {
	var incErr *InconsistencyError
	if errors.As(err, &incErr) {
		return CodeRecoverableInconsistency
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// InconsistencyError reports a dependent-entity write that failed after the
// owning entity's write had already committed. The fields describe the state
// observed at failure time so a reconciliation pass can find the drift.
type InconsistencyError struct {
	Operation      string
	BookingID      uuid.UUID
	PropertyID     uuid.UUID
	PaymentID      *uuid.UUID
	BookingStatus  BookingStatus
	PropertyStatus PropertyStatus
	Cause          error
}

func (e *InconsistencyError) Error() string {
	msg := fmt.Sprintf("[%s] %s left booking %s (%s) and property %s (%s) out of step",
		CodeRecoverableInconsistency, e.Operation, e.BookingID, e.BookingStatus, e.PropertyID, e.PropertyStatus)
	if e.PaymentID != nil {
		msg += fmt.Sprintf(", payment %s", *e.PaymentID)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *InconsistencyError) Unwrap() error {
	return e.Cause
}

func (e *InconsistencyError) Is(target error) bool {
	return target == ErrRecoverableInconsistency
}

// Inconsistency is the signal pushed to the reconciliation stream.
type Inconsistency struct {
	ID             string         `json:"id,omitempty"`
	Operation      string         `json:"operation"`
	BookingID      uuid.UUID      `json:"booking_id"`
	PropertyID     uuid.UUID      `json:"property_id"`
	PaymentID      *uuid.UUID     `json:"payment_id,omitempty"`
	BookingStatus  BookingStatus  `json:"booking_status"`
	PropertyStatus PropertyStatus `json:"property_status"`
	Cause          string         `json:"cause"`
}

func (e *InconsistencyError) Signal() Inconsistency {
	sig := Inconsistency{
		Operation:      e.Operation,
		BookingID:      e.BookingID,
		PropertyID:     e.PropertyID,
		PaymentID:      e.PaymentID,
		BookingStatus:  e.BookingStatus,
		PropertyStatus: e.PropertyStatus,
	}
	if e.Cause != nil {
		sig.Cause = e.Cause.Error()
	}
	return sig
}
