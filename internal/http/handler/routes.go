package handler

import (
	"context"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"urlexport/internal/auth"
	"urlexport/internal/diagnostics"
	"urlexport/internal/http/middleware"
	"urlexport/internal/service"
)

const (
	AdminPagePath = "/wp-admin/export-all-urls"
	AdminAjaxPath = "/wp-admin/admin-ajax.php"
)

// Pinger reports whether the content database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB            Pinger
	Exports       service.ExportService
	Auth          *auth.Manager
	SessionCookie string
	Flash         *diagnostics.FlashStore
	DiagSink      io.Writer // shared diagnostics log file
	DiagPath      string    // shown on the admin page
	Gatherer      prometheus.Gatherer
	Log           logrus.FieldLogger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.Flash == nil {
		d.Flash = diagnostics.NewFlashStore()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError})))

	admin := app.Group("/wp-admin", middleware.Session(d.Auth, d.SessionCookie))
	admin.Get("/export-all-urls", AdminPage(d))
	admin.Post("/admin-ajax.php", AdminAjax(d))
}

// HealthCheck pings the content database.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  503 {object} errorPayload
// @Router   /health [get]
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
//
// @Summary  Liveness probe
// @Tags     health
// @Success  200
// @Router   /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
