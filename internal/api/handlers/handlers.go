package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/acme/intake-call-retry/internal/app"
	"github.com/acme/intake-call-retry/internal/engine"
)

// HandlerSet bundles all HTTP handlers.
type HandlerSet struct {
	container *app.Container
	engine    *engine.Engine
}

// NewHandlerSet creates a new handler bundle. The engine is validated during
// container bootstrap, so construction cannot fail here.
func NewHandlerSet(container *app.Container) (*HandlerSet, error) {
	eng, err := container.Engine()
	if err != nil {
		return nil, err
	}
	return &HandlerSet{container: container, engine: eng}, nil
}

// Register wires all routes onto the fiber app.
func (h *HandlerSet) Register(app *fiber.App) {
	app.Get("/healthz", h.health)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Post("/decisions", h.decide)

	timezones := v1.Group("/timezones")
	timezones.Get("/resolve", h.resolveTimezone)

	businessHours := v1.Group("/business-hours")
	businessHours.Get("/check", h.checkBusinessHours)

	contacts := v1.Group("/contacts")
	contacts.Get("/due", h.listDueContacts)
	contacts.Get("/:phone", h.getContact)
	contacts.Get("/:phone/outcomes", h.listOutcomes)
}

// ErrorHandler provides centralized error responses.
func (h *HandlerSet) ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	if fiberErr, ok := err.(*fiber.Error); ok {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code == fiber.StatusInternalServerError {
		h.container.Logger.Error("request failed", zap.Error(err))
	}

	return ctx.Status(code).JSON(fiber.Map{
		"error":    message,
		"trace_id": ctx.GetRespHeader("Trace-Id"),
	})
}

func (h *HandlerSet) health(ctx *fiber.Ctx) error {
	healthCtx, cancel := context.WithTimeout(ctx.Context(), 2*time.Second)
	defer cancel()

	errs := make(map[string]string)

	if err := h.container.Postgres.DB().PingContext(healthCtx); err != nil {
		errs["postgres"] = err.Error()
	}

	if err := h.container.Redis.Inner().Ping(healthCtx).Err(); err != nil {
		errs["redis"] = err.Error()
	}

	if err := h.container.Scylla.Session().Query("SELECT now() FROM system.local").WithContext(healthCtx).Exec(); err != nil {
		errs["scylla"] = err.Error()
	}

	status := fiber.StatusOK
	if len(errs) > 0 {
		status = fiber.StatusServiceUnavailable
	}

	return ctx.Status(status).JSON(fiber.Map{"status": "ok", "errors": errs})
}
