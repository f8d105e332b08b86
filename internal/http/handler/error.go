package handler

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"docstore/internal/http/middleware"
	"docstore/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "VALIDATION", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceError translates a service-layer failure into an HTTP response.
// Rule rejections carry their reason verbatim; stale-state and missing rows
// map to 404; everything else is an opaque 500.
func serviceError(c *fiber.Ctx, err error) error {
	var (
		ve *service.ValidationError
		ce *service.CapacityExceededError
		se *service.ScheduleConflictError
		st *service.StateConflictError
		cv *service.ContainmentViolationError
		dn *service.DuplicateNameError
	)
	switch {
	case errors.As(err, &ve):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION", ve.Error())
	case errors.As(err, &ce):
		return writeError(c, fiber.StatusBadRequest, "CAPACITY_EXCEEDED", ce.Error())
	case errors.As(err, &se):
		return writeError(c, fiber.StatusBadRequest, "SCHEDULE_CONFLICT", se.Error())
	case errors.As(err, &cv):
		return writeError(c, fiber.StatusBadRequest, "CONTAINMENT_VIOLATION", cv.Error())
	case errors.As(err, &dn):
		return writeError(c, fiber.StatusBadRequest, "DUPLICATE_NAME", dn.Error())
	case errors.Is(err, service.ErrBorrowTooEarly),
		errors.Is(err, service.ErrBorrowWindowPassed):
		return writeError(c, fiber.StatusBadRequest, "BORROW_WINDOW", err.Error())
	case errors.As(err, &st):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", st.Error())
	case errors.Is(err, sql.ErrNoRows):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			message = e.Message
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", message)
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", message)
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
