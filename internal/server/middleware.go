package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alchemist-backend/internal/instrument"
)

// Instrumentation attaches the instrumenter and a fresh trace ID to each
// request's context so engine spans correlate per request.
func Instrumentation(inst instrument.Instrumenter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		ctx = instrument.WithInstrumenter(ctx, inst)
		ctx = instrument.WithTraceID(ctx, uuid.New().String())
		c.SetUserContext(ctx)
		return c.Next()
	}
}
