package tasks

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
	"github.com/example/task-tracker/domain/task"
)

// TasksModule provides the task lifecycle services via GORM + SQLite.
type TasksModule struct {
	cfg  *config.Config
	db   *gorm.DB
	repo *Repository
}

// Compile-time interface checks.
var _ mono.Module = (*TasksModule)(nil)
var _ mono.ServiceProviderModule = (*TasksModule)(nil)
var _ mono.HealthCheckableModule = (*TasksModule)(nil)

// NewModule creates a new TasksModule.
func NewModule(cfg *config.Config) *TasksModule {
	return &TasksModule{cfg: cfg}
}

// Name returns the module name.
func (m *TasksModule) Name() string {
	return "tasks"
}

// Start opens the database and migrates the task schema.
func (m *TasksModule) Start(_ context.Context) error {
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

	if err := db.AutoMigrate(&task.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	m.repo = NewRepository(db)

	log.Printf("[tasks] Module started (database: %s)", m.cfg.Database.Path)
	return nil
}

// Stop shuts down the module.
func (m *TasksModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[tasks] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TasksModule) Health(ctx context.Context) mono.HealthStatus {
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
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"database": m.cfg.Database.Path},
	}
}

// RegisterServices registers request-reply services in the service
// container.
func (m *TasksModule) RegisterServices(container mono.ServiceContainer) error {
	registrations := []struct {
		name     string
		register func() error
	}{
		{"create", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create", json.Unmarshal, json.Marshal, m.createTask)
		}},
		{"update", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update", json.Unmarshal, json.Marshal, m.updateTask)
		}},
		{"get", func() error {
			return helper.RegisterTypedRequestReplyService(container, "get", json.Unmarshal, json.Marshal, m.getTask)
		}},
		{"delete", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete", json.Unmarshal, json.Marshal, m.deleteTask)
		}},
		{"complete", func() error {
			return helper.RegisterTypedRequestReplyService(container, "complete", json.Unmarshal, json.Marshal, m.completeTask)
		}},
		{"list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list", json.Unmarshal, json.Marshal, m.listTasks)
		}},
		{"by-month", func() error {
			return helper.RegisterTypedRequestReplyService(container, "by-month", json.Unmarshal, json.Marshal, m.tasksByMonth)
		}},
		{"stats", func() error {
			return helper.RegisterTypedRequestReplyService(container, "stats", json.Unmarshal, json.Marshal, m.userStats)
		}},
		{"purge-user", func() error {
			return helper.RegisterTypedRequestReplyService(container, "purge-user", json.Unmarshal, json.Marshal, m.purgeUser)
		}},
	}
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", reg.name, err)
		}
	}

	log.Printf("[tasks] Registered services: create, update, get, delete, complete, list, by-month, stats, purge-user")
	return nil
}
