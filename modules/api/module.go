package api

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/modules/auth"
)

// APIModule is the HTTP API module. It owns the Fiber server and
// forwards every request to the owning module through its service
// container.
type APIModule struct {
	cfg *config.Config
	app *fiber.App

	authContainer  mono.ServiceContainer
	tasksContainer mono.ServiceContainer
	adminContainer mono.ServiceContainer
	cepContainer   mono.ServiceContainer
	authAdapter    auth.AuthPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg *config.Config) *APIModule {
	return &APIModule{cfg: cfg}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "tasks", "admin", "cep"}
}

// SetDependencyServiceContainer receives service containers from
// dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAdapter(container)
	case "tasks":
		m.tasksContainer = container
	case "admin":
		m.adminContainer = container
	case "cep":
		m.cepContainer = container
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	for name, container := range map[string]mono.ServiceContainer{
		"auth": m.authContainer, "tasks": m.tasksContainer,
		"admin": m.adminContainer, "cep": m.cepContainer,
	} {
		if container == nil {
			return fmt.Errorf("%s dependency not set", name)
		}
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	addr := m.cfg.HTTPAddr
	go func() {
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", addr)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{"addr": m.cfg.HTTPAddr},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.tasksContainer, m.adminContainer, m.cepContainer)
	requireAuth := RequireAuth(m.authAdapter)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := m.app.Group("/api/v1")

	// Public auth routes.
	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/refresh", handlers.Refresh)

	// Step 2 of registration happens after step 1 issued tokens.
	authRoutes.Post("/register/step2", requireAuth, handlers.RegisterStep2)
	authRoutes.Get("/me", requireAuth, handlers.Profile)
	authRoutes.Post("/logout", requireAuth, handlers.Logout)
	authRoutes.Delete("/account", requireAuth, handlers.DeleteAccount)

	// Task routes, all owner-scoped.
	taskRoutes := v1.Group("/tasks", requireAuth)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Get("/by-month", handlers.TasksByMonth)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Post("/:id", handlers.UpdateTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)
	taskRoutes.Post("/:id/complete", handlers.CompleteTask)

	// Admin routes. The admin module enforces the staff capability on
	// the caller, so these only require authentication here.
	adminRoutes := v1.Group("/admin", requireAuth)
	adminRoutes.Get("/users", handlers.ListUsers)
	adminRoutes.Get("/users/:id", handlers.UserDetails)
	adminRoutes.Post("/users/:id/role", handlers.UpdateRole)
	adminRoutes.Post("/users/:id/deactivate", handlers.DeactivateUser)
	adminRoutes.Post("/users/:id/activate", handlers.ActivateUser)
	adminRoutes.Delete("/users/:id", handlers.DeleteUser)
	adminRoutes.Get("/stats/gender", handlers.GenderStats)
	adminRoutes.Get("/stats/age", handlers.AgeStats)

	// Zipcode lookup for the address form.
	v1.Get("/cep/:zipcode", requireAuth, handlers.CepLookup)
}

// errorHandler renders Fiber-level errors (unknown routes, bad
// methods) into the response envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		switch code {
		case fiber.StatusNotFound:
			message = "resource not found"
		case fiber.StatusMethodNotAllowed:
			message = "method not allowed"
		default:
			message = fiberErr.Message
		}
	}

	return respondError(c, code, message)
}
