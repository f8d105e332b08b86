package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID across service boundaries.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the request ID lives in Fiber locals.
	RequestIDLocalKey = "request_id"
)

// RequestID tags every request with an ID: the caller's X-Request-ID when
// present, a fresh UUID otherwise. The ID is stored in locals for the error
// envelope and the request logger, and echoed on the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}
