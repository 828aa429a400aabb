// server.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/config"
	"github.com/Abraxas-365/talentgate/pkg/errx"
	"github.com/Abraxas-365/talentgate/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}

	logx.Configure(cfg.Server.LogFormat, "talentgate-api")
	logx.SetLevel(logx.ParseLevel(cfg.Server.LogLevel))
	defer logx.Sync()

	logx.Infof("🚀 Starting TalentGate API (%s)", cfg.Environment)

	container := NewContainer(cfg)
	defer container.Cleanup()

	// Workers outlive the HTTP listener; shutdown cancels them after draining requests.
	workers, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	container.StartBackgroundServices(workers)

	app := newApp(cfg, container)
	printRouteSummary()
	startServer(app, cfg, stopWorkers)
}

func newApp(cfg *config.Config, container *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "TalentGate API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler(cfg),
		BodyLimit:             1 * 1024 * 1024,
		IdleTimeout:           120 * time.Second,
	})

	setupMiddleware(app, cfg)

	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler(cfg))
	registerRoutes(app, container)
	app.Use(notFoundHandler)

	return app
}

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	// Panic recovery
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.IsDevelopment(),
	}))

	// Request ID
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	// CORS
	corsOrigins := "*"
	if len(cfg.Server.CORSOrigins) > 0 {
		corsOrigins = strings.Join(cfg.Server.CORSOrigins, ",")
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, PATCH, HEAD, OPTIONS",
		AllowCredentials: corsOrigins != "*",
		ExposeHeaders:    "X-Request-ID",
	}))

	// Request logger
	logFormat := "${time} | ${status} | ${latency} | ${method} ${path}"
	if cfg.IsDevelopment() {
		logFormat += " | ${ip} | ${reqHeader:X-Request-ID}\n"
	} else {
		logFormat += "\n"
	}

	app.Use(logger.New(logger.Config{
		Format:     logFormat,
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))
}

func registerRoutes(app *fiber.App, container *Container) {
	logx.Info("📝 Registering routes...")

	// Public application form: /public/jobs/:id/apply
	container.ApplicantHandlers.RegisterPublicRoutes(app.Group("/public"))
	logx.Info("✓ Public routes registered")

	api := app.Group("/api/v1")

	// Caller profile: /api/v1/me
	container.AuthMiddleware.RegisterRoutes(api)

	// Jobs & events: /api/v1/jobs/*, /api/v1/events
	container.JobHandlers.RegisterRoutes(api, container.AuthMiddleware)
	container.EventHandlers.RegisterRoutes(api, container.AuthMiddleware)
	logx.Info("✓ Job and event routes registered")

	// Applicants: /api/v1/applicants/*
	container.ApplicantHandlers.RegisterRoutes(api, container.AuthMiddleware)
	logx.Info("✓ Applicant routes registered")

	// Subscriptions: /api/v1/subscriptions/*
	container.SubscriptionHandlers.RegisterRoutes(api, container.AuthMiddleware)
	logx.Info("✓ Subscription routes registered")

	logx.Info("✅ All routes registered")
}

type probe struct {
	name string
	ping func(ctx context.Context) error
}

func healthProbes(container *Container) []probe {
	probes := []probe{{name: "db", ping: container.DB.PingContext}}
	if container.Redis != nil {
		probes = append(probes, probe{name: "redis", ping: func(ctx context.Context) error {
			return container.Redis.Ping(ctx).Err()
		}})
	}
	return probes
}

// healthCheckHandler reports 503 when any dependency fails its ping.
func healthCheckHandler(container *Container) fiber.Handler {
	probes := healthProbes(container)

	return func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		checks := fiber.Map{}
		for _, p := range probes {
			if err := p.ping(c.UserContext()); err != nil {
				checks[p.name] = fiber.Map{"status": "down", "error": err.Error()}
				status = fiber.StatusServiceUnavailable
				continue
			}
			checks[p.name] = fiber.Map{"status": "up"}
		}

		state := "healthy"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":      state,
			"service":     "talentgate-api",
			"environment": container.Config.Environment,
			"queue":       container.Config.Notification.QueueBackend,
			"checks":      checks,
			"time":        time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func infoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "TalentGate API",
			"version":     "1.0.0",
			"description": "Scoped applicant tracking with subscription-based notifications",
			"environment": cfg.Environment,
			"endpoints": fiber.Map{
				"health":        "GET /health",
				"me":            "GET /api/v1/me",
				"apply":         "POST /public/jobs/:id/apply",
				"jobs":          "GET /api/v1/jobs, GET /api/v1/jobs/:id",
				"events":        "GET /api/v1/events",
				"applicants":    "GET|POST /api/v1/applicants, GET /api/v1/applicants/:id, PATCH /api/v1/applicants/:id/stage, POST|PATCH|DELETE /api/v1/applicants/:id/interview",
				"subscriptions": "GET|PUT /api/v1/subscriptions, GET /api/v1/subscriptions/me, POST /api/v1/subscriptions/migrate-legacy",
			},
			"authentication": fiber.Map{
				"jwt":    "Authorization: Bearer <jwt_token>",
				"cookie": "Cookie: " + cfg.Auth.Cookie.AccessTokenName + "=<jwt_token>",
			},
		})
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":  "No route for " + c.Method() + " " + c.Path(),
		"code":   "ROUTE_NOT_FOUND",
		"status": fiber.StatusNotFound,
	})
}

// globalErrorHandler renders errx errors with their status. Anything else is a 500.
func globalErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID, _ := c.Locals("requestid").(string)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error":      fe.Message,
				"code":       "FIBER_ERROR",
				"status":     fe.Code,
				"request_id": requestID,
			})
		}

		if e, ok := errx.As(err); ok {
			fields := logx.Fields{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
				"code":       string(e.Code),
			}
			if e.HTTPStatus >= fiber.StatusInternalServerError {
				logx.WithFields(fields).Errorf("Request error: %v", err)
			} else {
				logx.WithFields(fields).Debugf("Request rejected: %v", err)
			}

			response := fiber.Map{
				"error":      e.Message,
				"code":       e.Code,
				"type":       string(e.Type),
				"status":     e.HTTPStatus,
				"request_id": requestID,
			}

			// Access denials carry the resource id; keep them opaque.
			if len(e.Details) > 0 && e.Type != errx.TypeNotFound {
				response["details"] = e.Details
			}
			if cfg.IsDevelopment() && e.Err != nil {
				response["underlying_error"] = e.Err.Error()
			}

			return c.Status(e.HTTPStatus).JSON(response)
		}

		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"request_id": requestID,
		}).Errorf("Unhandled error: %v", err)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "Something went wrong",
			"type":       string(errx.TypeInternal),
			"code":       "INTERNAL_ERROR",
			"request_id": requestID,
		})
	}
}

func printRouteSummary() {
	logx.Info("📋 Routes:")
	logx.Info("   ├─ /health, /")
	logx.Info("   ├─ Public: /public/jobs/:id/apply")
	logx.Info("   ├─ Me: /api/v1/me")
	logx.Info("   ├─ Jobs: /api/v1/jobs/*")
	logx.Info("   ├─ Events: /api/v1/events")
	logx.Info("   ├─ Applicants: /api/v1/applicants/*")
	logx.Info("   └─ Subscriptions: /api/v1/subscriptions/*")
}

// startServer listens until SIGINT or SIGTERM, then drains in-flight
// requests before stopping the workers. Deferred Cleanup drains the dispatcher.
func startServer(app *fiber.App, cfg *config.Config, stopWorkers context.CancelFunc) {
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		logx.Infof("🚀 Listening on %s (health: http://localhost%s/health)", addr, addr)
		logx.Infof("📬 Post-commit queue: %s, %d workers", cfg.Notification.QueueBackend, cfg.Notification.Workers)

		if err := app.Listen(addr); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	signals, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-signals.Done()

	logx.Info("🛑 Shutdown requested, draining requests...")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.WithError(err).Warn("Shutdown timed out; remaining connections were closed")
	}
	stopWorkers()

	logx.Info("✅ Server stopped")
}
