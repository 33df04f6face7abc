package helper

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors shared by the service layer. Controllers translate them to
// HTTP via JsonAppError; batch jobs count them instead of aborting.
var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("conflict")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError marks bad input shape/range (DNI format, date window, ...).
// Field names the offending field so the caller can highlight it.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// InvalidStateError marks an illegal lifecycle transition (e.g. renewing a
// returned loan). It is surfaced to the user as a warning, not a hard error.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{Msg: msg}
}

// JsonAppError maps a service error to the matching HTTP response.
func JsonAppError(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return JsonValidationError(c, map[string][]string{ve.Field: {ve.Msg}})
	}
	var ise *InvalidStateError
	if errors.As(err, &ise) {
		return JsonWarning(c, fiber.StatusConflict, ise.Msg)
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrForbidden):
		return JsonError(c, fiber.StatusForbidden, err.Error())
	}
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}
