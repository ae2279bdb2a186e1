package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/modules/tasks"
)

// AdminModule provides administrator-only account management and
// statistics services.
type AdminModule struct {
	cfg     *config.Config
	db      *gorm.DB
	service *AdminService
	tasks   TasksPort
}

// Compile-time interface checks.
var _ mono.Module = (*AdminModule)(nil)
var _ mono.DependentModule = (*AdminModule)(nil)
var _ mono.ServiceProviderModule = (*AdminModule)(nil)
var _ mono.HealthCheckableModule = (*AdminModule)(nil)

// NewModule creates a new AdminModule.
func NewModule(cfg *config.Config) *AdminModule {
	return &AdminModule{cfg: cfg}
}

// Name returns the module name.
func (m *AdminModule) Name() string {
	return "admin"
}

// Dependencies returns the list of module dependencies.
func (m *AdminModule) Dependencies() []string {
	return []string{"tasks"}
}

// SetDependencyServiceContainer receives service containers from
// dependencies.
func (m *AdminModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "tasks" {
		m.tasks = tasks.NewAdapter(container)
	}
}

// Start opens the database and builds the service. The account schema
// is migrated by the auth module; this module only reads and mutates
// it.
func (m *AdminModule) Start(_ context.Context) error {
	if m.tasks == nil {
		return fmt.Errorf("tasks dependency not set")
	}

	logLevel := logger.Silent
	if m.cfg.Database.Debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(m.cfg.Database.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db
	m.service = NewAdminService(NewRepository(db), m.tasks)

	log.Printf("[admin] Module started (database: %s)", m.cfg.Database.Path)
	return nil
}

// Stop shuts down the module.
func (m *AdminModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[admin] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AdminModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("failed to get database connection: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// RegisterServices registers request-reply services in the service
// container.
func (m *AdminModule) RegisterServices(container mono.ServiceContainer) error {
	registrations := []struct {
		name     string
		register func() error
	}{
		{"update-role", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update-role", json.Unmarshal, json.Marshal, m.handleUpdateRole)
		}},
		{"user-details", func() error {
			return helper.RegisterTypedRequestReplyService(container, "user-details", json.Unmarshal, json.Marshal, m.handleUserDetails)
		}},
		{"deactivate", func() error {
			return helper.RegisterTypedRequestReplyService(container, "deactivate", json.Unmarshal, json.Marshal, m.handleDeactivate)
		}},
		{"activate", func() error {
			return helper.RegisterTypedRequestReplyService(container, "activate", json.Unmarshal, json.Marshal, m.handleActivate)
		}},
		{"delete", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete", json.Unmarshal, json.Marshal, m.handleDelete)
		}},
		{"list-users", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list-users", json.Unmarshal, json.Marshal, m.handleListUsers)
		}},
		{"gender-stats", func() error {
			return helper.RegisterTypedRequestReplyService(container, "gender-stats", json.Unmarshal, json.Marshal, m.handleGenderStats)
		}},
		{"age-stats", func() error {
			return helper.RegisterTypedRequestReplyService(container, "age-stats", json.Unmarshal, json.Marshal, m.handleAgeStats)
		}},
	}
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", reg.name, err)
		}
	}

	log.Printf("[admin] Registered services: update-role, user-details, deactivate, activate, delete, list-users, gender-stats, age-stats")
	return nil
}

func (m *AdminModule) handleUpdateRole(ctx context.Context, req UpdateRoleRequest, _ *mono.Msg) (UpdateRoleResponse, error) {
	return m.service.UpdateRole(ctx, req)
}

func (m *AdminModule) handleUserDetails(ctx context.Context, req UserDetailsRequest, _ *mono.Msg) (UserDetailsResponse, error) {
	return m.service.UserDetails(ctx, req)
}

func (m *AdminModule) handleDeactivate(ctx context.Context, req AccountActionRequest, _ *mono.Msg) (AccountActionResponse, error) {
	return m.service.Deactivate(ctx, req)
}

func (m *AdminModule) handleActivate(ctx context.Context, req AccountActionRequest, _ *mono.Msg) (AccountActionResponse, error) {
	return m.service.Activate(ctx, req)
}

func (m *AdminModule) handleDelete(ctx context.Context, req AccountActionRequest, _ *mono.Msg) (AccountActionResponse, error) {
	return m.service.Delete(ctx, req)
}

func (m *AdminModule) handleListUsers(ctx context.Context, req ListUsersRequest, _ *mono.Msg) (ListUsersResponse, error) {
	return m.service.ListUsers(ctx, req)
}

func (m *AdminModule) handleGenderStats(ctx context.Context, req StatsRequest, _ *mono.Msg) (GenderStatsResponse, error) {
	return m.service.GenderStats(ctx, req)
}

func (m *AdminModule) handleAgeStats(ctx context.Context, req StatsRequest, _ *mono.Msg) (AgeStatsResponse, error) {
	return m.service.AgeStats(ctx, req)
}
