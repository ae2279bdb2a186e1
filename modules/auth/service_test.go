package auth

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/failure"
)

// stubTasks is a TasksPort that records purge calls.
type stubTasks struct {
	purged []string
}

func (s *stubTasks) PurgeUser(_ context.Context, userID string) error {
	s.purged = append(s.purged, userID)
	return nil
}

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&user.User{}, &user.Address{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func setupService(t *testing.T) (*AuthService, *stubTasks) {
	t.Helper()

	tasks := &stubTasks{}
	svc := NewAuthService(
		NewUserRepository(setupTestDB(t)),
		NewPasswordHasher(),
		NewJWTManager(config.JWT{
			Secret:           "test-secret",
			Issuer:           "task-tracker-test",
			AccessTTLMinutes: 15,
			RefreshTTLHours:  24,
		}),
		tasks,
	)
	return svc, tasks
}

func validRegister() RegisterRequest {
	return RegisterRequest{
		FirstName:       "maria",
		LastName:        "silva",
		Email:           "Maria@Example.com",
		Password:        "Abcdef1!",
		PasswordConfirm: "Abcdef1!",
	}
}

func TestRegister(t *testing.T) {
	svc, _ := setupService(t)

	resp, err := svc.Register(context.Background(), validRegister())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.Failure != nil {
		t.Fatalf("Register() failure = %v", resp.Failure)
	}

	if resp.User.Email != "maria@example.com" {
		t.Errorf("Email = %q, want normalized %q", resp.User.Email, "maria@example.com")
	}
	if resp.User.FirstName != "Maria" || resp.User.LastName != "Silva" {
		t.Errorf("names = %q %q, want title cased", resp.User.FirstName, resp.User.LastName)
	}
	if resp.User.Role != string(user.RoleUser) {
		t.Errorf("Role = %q, want %q", resp.User.Role, user.RoleUser)
	}
	if !resp.User.NextStep {
		t.Error("NextStep = false after step 1, want true")
	}
	if resp.User.ProfileCompleted {
		t.Error("ProfileCompleted = true after step 1, want false")
	}
	if resp.Tokens == nil || resp.Tokens.AccessToken == "" {
		t.Error("Register() issued no session tokens")
	}
}

func TestRegisterValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{
			name:   "short first name",
			mutate: func(r *RegisterRequest) { r.FirstName = "m" },
		},
		{
			name:   "malformed email",
			mutate: func(r *RegisterRequest) { r.Email = "not-an-email" },
		},
		{
			name: "password mismatch",
			mutate: func(r *RegisterRequest) {
				r.PasswordConfirm = "Different1!"
			},
		},
		{
			name:   "weak password",
			mutate: func(r *RegisterRequest) { r.Password = "alllowercase1!"; r.PasswordConfirm = "alllowercase1!" },
		},
		{
			name:   "future birthdate",
			mutate: func(r *RegisterRequest) { r.Birthdate = "01/01/2100" },
		},
		{
			name:   "unknown gender code",
			mutate: func(r *RegisterRequest) { r.Gender = "X" },
		},
		{
			name:   "invalid CPF checksum",
			mutate: func(r *RegisterRequest) { r.CPF = "111.111.111-11" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupService(t)
			req := validRegister()
			tt.mutate(&req)

			resp, err := svc.Register(context.Background(), req)
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if resp.Failure == nil {
				t.Fatal("Register() failure = nil, want validation failure")
			}
			if resp.Failure.Kind != failure.KindValidation {
				t.Errorf("failure kind = %q, want %q", resp.Failure.Kind, failure.KindValidation)
			}
			if resp.Tokens != nil {
				t.Error("Register() issued tokens despite rejection")
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupService(t)

	if resp, err := svc.Register(context.Background(), validRegister()); err != nil || resp.Failure != nil {
		t.Fatalf("first Register() = %v, %v", resp.Failure, err)
	}

	resp, err := svc.Register(context.Background(), validRegister())
	if err != nil {
		t.Fatalf("second Register() error = %v", err)
	}
	if resp.Failure == nil || resp.Failure.Kind != failure.KindValidation {
		t.Fatalf("second Register() failure = %v, want validation failure", resp.Failure)
	}
}

func validProfile(userID string) CompleteProfileRequest {
	return CompleteProfileRequest{
		UserID:       userID,
		Birthdate:    "15/03/1990",
		Gender:       "F",
		CPF:          "529.982.247-25",
		Phone:        "(11) 93456-7890",
		Zipcode:      "01310-100",
		Street:       "Avenida Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
	}
}

func registerUser(t *testing.T, svc *AuthService) UserPayload {
	t.Helper()
	resp, err := svc.Register(context.Background(), validRegister())
	if err != nil || resp.Failure != nil {
		t.Fatalf("Register() = %v, %v", resp.Failure, err)
	}
	return resp.User
}

func TestCompleteProfile(t *testing.T) {
	svc, _ := setupService(t)
	u := registerUser(t, svc)

	resp, err := svc.CompleteProfile(context.Background(), validProfile(u.ID))
	if err != nil {
		t.Fatalf("CompleteProfile() error = %v", err)
	}
	if resp.Failure != nil {
		t.Fatalf("CompleteProfile() failure = %v", resp.Failure)
	}

	if resp.User.NextStep {
		t.Error("NextStep = true after step 2, want false")
	}
	if !resp.User.ProfileCompleted {
		t.Error("ProfileCompleted = false after step 2, want true")
	}
	want := "Avenida Paulista, 1000 - Bela Vista - São Paulo/SP - 01310100"
	if resp.FormattedAddress != want {
		t.Errorf("FormattedAddress = %q, want %q", resp.FormattedAddress, want)
	}
}

func TestCompleteProfileAlreadyDone(t *testing.T) {
	svc, _ := setupService(t)
	u := registerUser(t, svc)

	if resp, err := svc.CompleteProfile(context.Background(), validProfile(u.ID)); err != nil || resp.Failure != nil {
		t.Fatalf("first CompleteProfile() = %v, %v", resp.Failure, err)
	}

	// The second call must be a pure no-op redirect.
	resp, err := svc.CompleteProfile(context.Background(), validProfile(u.ID))
	if err != nil {
		t.Fatalf("second CompleteProfile() error = %v", err)
	}
	if resp.Failure == nil || resp.Failure.Kind != failure.KindRedirect {
		t.Fatalf("second CompleteProfile() failure = %v, want redirect", resp.Failure)
	}
}

func TestCompleteProfileValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CompleteProfileRequest)
	}{
		{
			name:   "missing birthdate",
			mutate: func(r *CompleteProfileRequest) { r.Birthdate = "" },
		},
		{
			name:   "bad CPF",
			mutate: func(r *CompleteProfileRequest) { r.CPF = "12345678900" },
		},
		{
			name:   "short phone",
			mutate: func(r *CompleteProfileRequest) { r.Phone = "12345" },
		},
		{
			name:   "bad zipcode",
			mutate: func(r *CompleteProfileRequest) { r.Zipcode = "0131010" },
		},
		{
			name:   "missing street",
			mutate: func(r *CompleteProfileRequest) { r.Street = "  " },
		},
		{
			name:   "unknown state code",
			mutate: func(r *CompleteProfileRequest) { r.State = "XX" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupService(t)
			u := registerUser(t, svc)
			req := validProfile(u.ID)
			tt.mutate(&req)

			resp, err := svc.CompleteProfile(context.Background(), req)
			if err != nil {
				t.Fatalf("CompleteProfile() error = %v", err)
			}
			if resp.Failure == nil || resp.Failure.Kind != failure.KindValidation {
				t.Fatalf("CompleteProfile() failure = %v, want validation failure", resp.Failure)
			}

			// The rejection must not have advanced the state machine.
			again, err := svc.CompleteProfile(context.Background(), validProfile(u.ID))
			if err != nil {
				t.Fatalf("retry CompleteProfile() error = %v", err)
			}
			if again.Failure != nil {
				t.Errorf("retry after rejection failed: %v", again.Failure)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := setupService(t)
	registerUser(t, svc)

	t.Run("correct credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), LoginRequest{
			Email:    "maria@example.com",
			Password: "Abcdef1!",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.Failure != nil {
			t.Fatalf("Login() failure = %v", resp.Failure)
		}
		if resp.Tokens == nil {
			t.Fatal("Login() issued no tokens")
		}
		if !resp.NextStep {
			t.Error("NextStep = false for a half-registered account, want true")
		}
	})

	t.Run("case-insensitive email", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), LoginRequest{
			Email:    "MARIA@EXAMPLE.COM",
			Password: "Abcdef1!",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.Failure != nil {
			t.Errorf("Login() failure = %v", resp.Failure)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), LoginRequest{
			Email:    "maria@example.com",
			Password: "WrongPass1!",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.Failure == nil || resp.Failure.Kind != failure.KindUnauthorized {
			t.Fatalf("Login() failure = %v, want unauthorized", resp.Failure)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), LoginRequest{
			Email:    "nobody@example.com",
			Password: "Abcdef1!",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.Failure == nil || resp.Failure.Kind != failure.KindUnauthorized {
			t.Fatalf("Login() failure = %v, want unauthorized", resp.Failure)
		}
		// Unknown account and wrong password read the same.
		if resp.Failure.Message != "invalid email or password" {
			t.Errorf("message = %q, want the generic one", resp.Failure.Message)
		}
	})
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, _ := setupService(t)
	u := registerUser(t, svc)

	stored, err := svc.repo.FindByID(u.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	stored.IsActive = false
	if err := svc.repo.Save(stored); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maria@example.com",
		Password: "Abcdef1!",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Failure == nil || resp.Failure.Message != "this account is inactive" {
		t.Fatalf("Login() failure = %v, want inactive account rejection", resp.Failure)
	}
}

func TestRefresh(t *testing.T) {
	svc, _ := setupService(t)
	registerUser(t, svc)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "maria@example.com",
		Password: "Abcdef1!",
	})
	if err != nil || login.Failure != nil {
		t.Fatalf("Login() = %v, %v", login.Failure, err)
	}

	t.Run("valid refresh token", func(t *testing.T) {
		resp, err := svc.Refresh(context.Background(), RefreshRequest{
			RefreshToken: login.Tokens.RefreshToken,
		})
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if resp.Failure != nil {
			t.Fatalf("Refresh() failure = %v", resp.Failure)
		}
		if resp.Tokens == nil || resp.Tokens.AccessToken == "" {
			t.Error("Refresh() issued no tokens")
		}
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		resp, err := svc.Refresh(context.Background(), RefreshRequest{
			RefreshToken: login.Tokens.AccessToken,
		})
		if err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if resp.Failure == nil || resp.Failure.Kind != failure.KindUnauthorized {
			t.Fatalf("Refresh() failure = %v, want unauthorized", resp.Failure)
		}
	})
}

func TestDeleteAccount(t *testing.T) {
	svc, tasks := setupService(t)
	u := registerUser(t, svc)

	t.Run("wrong password", func(t *testing.T) {
		resp, err := svc.DeleteAccount(context.Background(), DeleteAccountRequest{
			UserID:   u.ID,
			Password: "WrongPass1!",
		})
		if err != nil {
			t.Fatalf("DeleteAccount() error = %v", err)
		}
		if resp.Failure == nil || resp.Failure.Kind != failure.KindUnauthorized {
			t.Fatalf("DeleteAccount() failure = %v, want unauthorized", resp.Failure)
		}
		if len(tasks.purged) != 0 {
			t.Error("tasks were purged despite rejection")
		}
	})

	t.Run("correct password", func(t *testing.T) {
		resp, err := svc.DeleteAccount(context.Background(), DeleteAccountRequest{
			UserID:   u.ID,
			Password: "Abcdef1!",
		})
		if err != nil {
			t.Fatalf("DeleteAccount() error = %v", err)
		}
		if resp.Failure != nil {
			t.Fatalf("DeleteAccount() failure = %v", resp.Failure)
		}
		if len(tasks.purged) != 1 || tasks.purged[0] != u.ID {
			t.Errorf("purged = %v, want [%s]", tasks.purged, u.ID)
		}
		if _, err := svc.repo.FindByID(u.ID); err != ErrUserNotFound {
			t.Errorf("FindByID() error = %v, want ErrUserNotFound", err)
		}
	})
}
