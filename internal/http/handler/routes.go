package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"docstore/internal/http/middleware"
	"docstore/internal/service"
)

// Handlers bundles the service dependencies of the HTTP layer.
type Handlers struct {
	DB        *sql.DB
	Imports   service.ImportRequestService
	Borrows   service.BorrowRequestService
	Documents service.DocumentService
	Hierarchy service.HierarchyService
}

// success writes the standard success envelope.
func success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

// listEnvelope shapes paginated results as {data, total}.
func listEnvelope(items any, total int) fiber.Map {
	return fiber.Map{"data": items, "total": total}
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Handlers stay free of business logic; they decode, delegate and encode.
func RegisterRoutes(app *fiber.App, h Handlers) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// Everything below requires a resolved actor.
	authed := app.Group("", middleware.Identity())
	manager := middleware.RequireManager()

	registerHierarchyRoutes(authed, manager, h.Hierarchy, h.Documents)
	registerImportRequestRoutes(authed, manager, h.Imports)
	registerBorrowRequestRoutes(authed, manager, h.Borrows)
	registerDocumentRoutes(authed, manager, h.Documents)
}
