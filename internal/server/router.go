package server

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the API under /api. Middleware (auth, when
// enabled) is supplied by the caller.
func RegisterRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	api := app.Group("/api")
	for _, mw := range middleware {
		api.Use(mw)
	}

	api.Get("/datasets", h.ListDatasets)
	api.Delete("/datasets", h.ClearDatasets)
	api.Put("/datasets/:kind", h.PutDataset)
	api.Get("/datasets/:kind", h.GetDataset)

	api.Post("/validate", h.Validate)
	api.Post("/query", h.Query)

	api.Post("/rules/interpret", h.InterpretRule)
	api.Get("/rules", h.ListRules)
	api.Post("/rules", h.CreateRule)
	api.Get("/rules/:id", h.GetRule)
	api.Put("/rules/:id", h.UpdateRule)
	api.Delete("/rules/:id", h.DeleteRule)
	api.Post("/rules/:id/preview", h.PreviewRule)

	api.Get("/priorities", h.GetPriorities)
	api.Put("/priorities", h.PutPriorities)
}
