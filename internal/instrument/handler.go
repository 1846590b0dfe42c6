package instrument

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// EventHandler exposes the recent-events endpoint backed by the memory sink.
type EventHandler struct {
	sink *MemorySink
}

func NewEventHandler(sink *MemorySink) *EventHandler {
	return &EventHandler{sink: sink}
}

// List handles GET /_events — the most recent events, newest first.
// Optional filters: ?limit=N, ?component=..., ?action=...
func (h *EventHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	component := c.Query("component")
	action := c.Query("action")

	events := h.sink.Recent(0)
	filtered := make([]Event, 0, limit)
	for _, e := range events {
		if component != "" && e.Component != component {
			continue
		}
		if action != "" && e.Action != action {
			continue
		}
		filtered = append(filtered, e)
		if len(filtered) == limit {
			break
		}
	}

	return c.JSON(fiber.Map{"data": filtered})
}
