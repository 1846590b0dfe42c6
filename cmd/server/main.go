package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alchemist-backend/internal/auth"
	"alchemist-backend/internal/config"
	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/instrument"
	"alchemist-backend/internal/metadata"
	"alchemist-backend/internal/priority"
	"alchemist-backend/internal/rules"
	"alchemist-backend/internal/server"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d)", cfg.Server.Port)

	// 2. Load validation schemas
	schemas := metadata.NewRegistry()
	if cfg.Schemas.Path != "" {
		loaded, err := metadata.LoadFile(cfg.Schemas.Path)
		if err != nil {
			log.Fatalf("Failed to load schemas: %v", err)
		}
		schemas.Load(loaded)
	} else {
		schemas.Load(metadata.Defaults())
	}
	log.Printf("Loaded %d validation schemas", len(schemas.All()))

	// 3. In-memory session state
	datasets := entity.NewStore()
	ruleStore := rules.NewStore()
	weights := priority.NewStore()

	// 4. Instrumentation
	var inst instrument.Instrumenter = &instrument.NoopInstrumenter{}
	var sink *instrument.MemorySink
	if cfg.Instrumentation.Enabled {
		sink = instrument.NewMemorySink(cfg.Instrumentation.BufferSize)
		inst = instrument.NewInstrumenter(sink)
	}

	// 5. Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(server.Instrumentation(inst))

	// 6. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 7. Recent-events endpoint
	if sink != nil {
		eventHandler := instrument.NewEventHandler(sink)
		app.Get("/_events", eventHandler.List)
	}

	// 8. API routes (auth middleware no-ops when no secret is configured)
	handler := server.NewHandler(datasets, schemas, ruleStore, weights, cfg.Limits.MaxRows)
	server.RegisterRoutes(app, handler, auth.Middleware(cfg.Auth.JWTSecret))

	// 9. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	log.Fatal(app.Listen(addr))
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	var appErr *server.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(server.ErrorResponse{Error: appErr})
	}

	log.Printf("ERROR: %v", err)
	return c.Status(code).JSON(server.ErrorResponse{
		Error: &server.AppError{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		},
	})
}
