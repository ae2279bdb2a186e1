package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/tasks"
)

// AuthModule provides registration, login and session services.
type AuthModule struct {
	cfg     *config.Config
	db      *gorm.DB
	service *AuthService
	tasks   TasksPort
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.DependentModule = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(cfg *config.Config) *AuthModule {
	return &AuthModule{cfg: cfg}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Dependencies returns the list of module dependencies.
func (m *AuthModule) Dependencies() []string {
	return []string{"tasks"}
}

// SetDependencyServiceContainer receives service containers from
// dependencies.
func (m *AuthModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "tasks" {
		m.tasks = tasks.NewAdapter(container)
	}
}

// Start opens the database, migrates the account schema and builds the
// service.
func (m *AuthModule) Start(_ context.Context) error {
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

	if err := db.AutoMigrate(&user.User{}, &user.Address{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(db)
	m.service = NewAuthService(repo, NewPasswordHasher(), NewJWTManager(m.cfg.JWT), m.tasks)

	log.Printf("[auth] Module started (database: %s)", m.cfg.Database.Path)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
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
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{"register", func() error {
			return helper.RegisterTypedRequestReplyService(container, "register", json.Unmarshal, json.Marshal, m.handleRegister)
		}},
		{"complete-profile", func() error {
			return helper.RegisterTypedRequestReplyService(container, "complete-profile", json.Unmarshal, json.Marshal, m.handleCompleteProfile)
		}},
		{"login", func() error {
			return helper.RegisterTypedRequestReplyService(container, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		}},
		{"refresh-token", func() error {
			return helper.RegisterTypedRequestReplyService(container, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh)
		}},
		{"validate-token", func() error {
			return helper.RegisterTypedRequestReplyService(container, "validate-token", json.Unmarshal, json.Marshal, m.handleValidateToken)
		}},
		{"get-user", func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-user", json.Unmarshal, json.Marshal, m.handleGetUser)
		}},
		{"delete-account", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-account", json.Unmarshal, json.Marshal, m.handleDeleteAccount)
		}},
	}
	for _, svc := range services {
		if err := svc.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
	}

	log.Printf("[auth] Registered services: register, complete-profile, login, refresh-token, validate-token, get-user, delete-account")
	return nil
}

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	return m.service.Register(ctx, req)
}

func (m *AuthModule) handleCompleteProfile(ctx context.Context, req CompleteProfileRequest, _ *mono.Msg) (CompleteProfileResponse, error) {
	return m.service.CompleteProfile(ctx, req)
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	return m.service.Login(ctx, req)
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (RefreshResponse, error) {
	return m.service.Refresh(ctx, req)
}

func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		// Validation failures are a response, not an error.
		return ValidateTokenResponse{Valid: false, Error: errMsg}, nil
	}
	return ValidateTokenResponse{Valid: true, UserID: claims.UserID, Email: claims.Email}, nil
}

func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	return m.service.GetUser(ctx, req.UserID)
}

func (m *AuthModule) handleDeleteAccount(ctx context.Context, req DeleteAccountRequest, _ *mono.Msg) (DeleteAccountResponse, error) {
	return m.service.DeleteAccount(ctx, req)
}
