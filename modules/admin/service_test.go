package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/failure"
	"github.com/example/task-tracker/modules/tasks"
)

// stubTasks is a TasksPort with canned stats that records purges.
type stubTasks struct {
	purged []string
	stats  tasks.StatusStats
}

func (s *stubTasks) PurgeUser(_ context.Context, userID string) error {
	s.purged = append(s.purged, userID)
	return nil
}

func (s *stubTasks) UserStats(_ context.Context, _ string) (tasks.StatusStats, error) {
	return s.stats, nil
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

func setupTestService(t *testing.T) (*AdminService, *stubTasks, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	stub := &stubTasks{}
	return NewAdminService(NewRepository(db), stub), stub, db
}

// seedUser inserts an account directly into the store.
func seedUser(t *testing.T, db *gorm.DB, mutate func(*user.User)) *user.User {
	t.Helper()

	u := &user.User{
		ID:                uuid.New().String(),
		Email:             uuid.New().String() + "@example.com",
		FirstName:         "Test",
		LastName:          "User",
		PasswordHash:      "irrelevant",
		Role:              user.RoleUser,
		IsActive:          true,
		RegistrationState: user.StateStep1,
	}
	u.Username = u.Email
	if mutate != nil {
		mutate(u)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}

func seedAdmin(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()
	return seedUser(t, db, func(u *user.User) {
		u.Role = user.RoleAdmin
		u.IsStaff = true
	})
}

func TestRequireStaff(t *testing.T) {
	svc, _, db := setupTestService(t)
	regular := seedUser(t, db, nil)
	target := seedUser(t, db, nil)

	resp, err := svc.UpdateRole(context.Background(), UpdateRoleRequest{
		CallerID: regular.ID,
		TargetID: target.ID,
		Role:     string(user.RoleObserver),
	})
	if err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}
	if resp.Failure == nil || resp.Failure.Kind != failure.KindForbidden {
		t.Fatalf("failure = %v, want forbidden", resp.Failure)
	}

	// An unknown caller reads the same as a non-staff one.
	unknown, err := svc.UpdateRole(context.Background(), UpdateRoleRequest{
		CallerID: "no-such-user",
		TargetID: target.ID,
		Role:     string(user.RoleObserver),
	})
	if err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}
	if unknown.Failure == nil || unknown.Failure.Kind != failure.KindForbidden {
		t.Fatalf("failure = %v, want forbidden", unknown.Failure)
	}
}

func TestSelfTargetRejected(t *testing.T) {
	svc, _, db := setupTestService(t)
	admin := seedAdmin(t, db)

	tests := []struct {
		name string
		call func() (*failure.Failure, error)
	}{
		{
			name: "update role",
			call: func() (*failure.Failure, error) {
				resp, err := svc.UpdateRole(context.Background(), UpdateRoleRequest{
					CallerID: admin.ID, TargetID: admin.ID, Role: string(user.RoleUser),
				})
				return resp.Failure, err
			},
		},
		{
			name: "user details",
			call: func() (*failure.Failure, error) {
				resp, err := svc.UserDetails(context.Background(), UserDetailsRequest{
					CallerID: admin.ID, TargetID: admin.ID,
				})
				return resp.Failure, err
			},
		},
		{
			name: "deactivate",
			call: func() (*failure.Failure, error) {
				resp, err := svc.Deactivate(context.Background(), AccountActionRequest{
					CallerID: admin.ID, TargetID: admin.ID,
				})
				return resp.Failure, err
			},
		},
		{
			name: "activate",
			call: func() (*failure.Failure, error) {
				resp, err := svc.Activate(context.Background(), AccountActionRequest{
					CallerID: admin.ID, TargetID: admin.ID,
				})
				return resp.Failure, err
			},
		},
		{
			name: "delete",
			call: func() (*failure.Failure, error) {
				resp, err := svc.Delete(context.Background(), AccountActionRequest{
					CallerID: admin.ID, TargetID: admin.ID,
				})
				return resp.Failure, err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fail, err := tt.call()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if fail == nil || fail.Kind != failure.KindValidation {
				t.Fatalf("failure = %v, want self-target validation rejection", fail)
			}
		})
	}
}

func TestUpdateRole(t *testing.T) {
	tests := []struct {
		name      string
		role      user.Role
		fromStaff bool
		wantStaff bool
	}{
		{name: "promote to admin grants staff", role: user.RoleAdmin, fromStaff: false, wantStaff: true},
		{name: "observer revokes staff", role: user.RoleObserver, fromStaff: true, wantStaff: false},
		{name: "demote to user keeps staff", role: user.RoleUser, fromStaff: true, wantStaff: true},
		{name: "user on non-staff stays non-staff", role: user.RoleUser, fromStaff: false, wantStaff: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, db := setupTestService(t)
			admin := seedAdmin(t, db)
			target := seedUser(t, db, func(u *user.User) { u.IsStaff = tt.fromStaff })

			resp, err := svc.UpdateRole(context.Background(), UpdateRoleRequest{
				CallerID: admin.ID,
				TargetID: target.ID,
				Role:     string(tt.role),
			})
			if err != nil {
				t.Fatalf("UpdateRole() error = %v", err)
			}
			if resp.Failure != nil {
				t.Fatalf("UpdateRole() failure = %v", resp.Failure)
			}

			stored, err := svc.repo.FindByID(target.ID)
			if err != nil {
				t.Fatalf("FindByID() error = %v", err)
			}
			if stored.Role != tt.role {
				t.Errorf("Role = %q, want %q", stored.Role, tt.role)
			}
			if stored.IsStaff != tt.wantStaff {
				t.Errorf("IsStaff = %v, want %v", stored.IsStaff, tt.wantStaff)
			}
		})
	}
}

func TestUpdateRoleUnknownRole(t *testing.T) {
	svc, _, db := setupTestService(t)
	admin := seedAdmin(t, db)
	target := seedUser(t, db, nil)

	resp, err := svc.UpdateRole(context.Background(), UpdateRoleRequest{
		CallerID: admin.ID,
		TargetID: target.ID,
		Role:     "SUPERUSER",
	})
	if err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}
	if resp.Failure == nil || resp.Failure.Kind != failure.KindValidation {
		t.Fatalf("failure = %v, want validation", resp.Failure)
	}
}

func TestUserDetails(t *testing.T) {
	svc, stub, db := setupTestService(t)
	stub.stats = tasks.StatusStats{Total: 3, Pending: 1, Completed: 2}
	admin := seedAdmin(t, db)

	birthdate := time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)
	target := seedUser(t, db, func(u *user.User) {
		u.FirstName = "Maria"
		u.LastName = "Silva"
		u.Birthdate = &birthdate
		u.Gender = user.GenderFemale
	})

	resp, err := svc.UserDetails(context.Background(), UserDetailsRequest{
		CallerID: admin.ID,
		TargetID: target.ID,
	})
	if err != nil {
		t.Fatalf("UserDetails() error = %v", err)
	}
	if resp.Failure != nil {
		t.Fatalf("UserDetails() failure = %v", resp.Failure)
	}

	if resp.User.FullName != "Maria Silva" {
		t.Errorf("FullName = %q, want %q", resp.User.FullName, "Maria Silva")
	}
	if resp.User.Birthdate != "15/03/1990" {
		t.Errorf("Birthdate = %q, want %q", resp.User.Birthdate, "15/03/1990")
	}
	if resp.User.GenderDisplay != "Female" {
		t.Errorf("GenderDisplay = %q, want %q", resp.User.GenderDisplay, "Female")
	}
	// Fields never provided render as the placeholder.
	if resp.User.CPF != "Not provided" {
		t.Errorf("CPF = %q, want placeholder", resp.User.CPF)
	}
	if resp.Address.FormattedAddress != "Not provided" {
		t.Errorf("FormattedAddress = %q, want placeholder", resp.Address.FormattedAddress)
	}
	if resp.TaskStats.Total != 3 {
		t.Errorf("TaskStats.Total = %d, want 3", resp.TaskStats.Total)
	}
}

func TestDeactivateAndActivate(t *testing.T) {
	svc, _, db := setupTestService(t)
	admin := seedAdmin(t, db)
	target := seedUser(t, db, nil)

	if resp, err := svc.Deactivate(context.Background(), AccountActionRequest{
		CallerID: admin.ID, TargetID: target.ID,
	}); err != nil || resp.Failure != nil {
		t.Fatalf("Deactivate() = %v, %v", resp.Failure, err)
	}
	stored, _ := svc.repo.FindByID(target.ID)
	if stored.IsActive {
		t.Error("IsActive = true after Deactivate, want false")
	}

	if resp, err := svc.Activate(context.Background(), AccountActionRequest{
		CallerID: admin.ID, TargetID: target.ID,
	}); err != nil || resp.Failure != nil {
		t.Fatalf("Activate() = %v, %v", resp.Failure, err)
	}
	stored, _ = svc.repo.FindByID(target.ID)
	if !stored.IsActive {
		t.Error("IsActive = false after Activate, want true")
	}
}

func TestDelete(t *testing.T) {
	svc, stub, db := setupTestService(t)
	admin := seedAdmin(t, db)
	target := seedUser(t, db, nil)

	resp, err := svc.Delete(context.Background(), AccountActionRequest{
		CallerID: admin.ID,
		TargetID: target.ID,
	})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if resp.Failure != nil {
		t.Fatalf("Delete() failure = %v", resp.Failure)
	}

	if len(stub.purged) != 1 || stub.purged[0] != target.ID {
		t.Errorf("purged = %v, want [%s]", stub.purged, target.ID)
	}
	if _, err := svc.repo.FindByID(target.ID); err != ErrUserNotFound {
		t.Errorf("FindByID() error = %v, want ErrUserNotFound", err)
	}

	unknown, err := svc.Delete(context.Background(), AccountActionRequest{
		CallerID: admin.ID,
		TargetID: "no-such-user",
	})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if unknown.Failure == nil || unknown.Failure.Kind != failure.KindNotFound {
		t.Fatalf("failure = %v, want not_found", unknown.Failure)
	}
}

func TestListUsers(t *testing.T) {
	svc, _, db := setupTestService(t)
	admin := seedAdmin(t, db)
	birthdate := time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)
	seedUser(t, db, func(u *user.User) { u.Birthdate = &birthdate })
	seedUser(t, db, nil)

	resp, err := svc.ListUsers(context.Background(), ListUsersRequest{CallerID: admin.ID})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if resp.Failure != nil {
		t.Fatalf("ListUsers() failure = %v", resp.Failure)
	}
	if len(resp.Users) != 3 {
		t.Fatalf("len(Users) = %d, want 3", len(resp.Users))
	}

	withAge, withoutAge := 0, 0
	for _, row := range resp.Users {
		if row.Age != nil {
			withAge++
		} else {
			withoutAge++
		}
	}
	if withAge != 1 || withoutAge != 2 {
		t.Errorf("ages = %d set / %d unset, want 1/2", withAge, withoutAge)
	}
}

func TestGenderStats(t *testing.T) {
	svc, _, db := setupTestService(t)
	admin := seedAdmin(t, db) // no gender recorded
	seedUser(t, db, func(u *user.User) { u.Gender = user.GenderFemale })
	seedUser(t, db, func(u *user.User) { u.Gender = user.GenderFemale })
	seedUser(t, db, func(u *user.User) { u.Gender = user.GenderMale })

	resp, err := svc.GenderStats(context.Background(), StatsRequest{CallerID: admin.ID})
	if err != nil {
		t.Fatalf("GenderStats() error = %v", err)
	}
	if resp.Failure != nil {
		t.Fatalf("GenderStats() failure = %v", resp.Failure)
	}

	byLabel := make(map[string]GenderStat, len(resp.Data))
	for _, stat := range resp.Data {
		byLabel[stat.Label] = stat
	}
	if got := byLabel["Female"]; got.Value != 2 || got.Percentage != 50.0 {
		t.Errorf("Female = %+v, want value 2, percentage 50", got)
	}
	if got := byLabel["Male"]; got.Value != 1 || got.Percentage != 25.0 {
		t.Errorf("Male = %+v, want value 1, percentage 25", got)
	}
	if got := byLabel["Not provided"]; got.Value != 1 {
		t.Errorf("Not provided = %+v, want value 1", got)
	}
}

func TestAgeStats(t *testing.T) {
	svc, _, db := setupTestService(t)
	admin := seedAdmin(t, db)

	now := time.Now()
	ages := []int{20, 30, 30, 60}
	for _, age := range ages {
		birthdate := time.Date(now.Year()-age, now.Month(), 1, 0, 0, 0, 0, time.UTC)
		seedUser(t, db, func(u *user.User) { u.Birthdate = &birthdate })
	}
	seedUser(t, db, nil) // no birthdate, excluded from the histogram

	resp, err := svc.AgeStats(context.Background(), StatsRequest{CallerID: admin.ID})
	if err != nil {
		t.Fatalf("AgeStats() error = %v", err)
	}
	if resp.Failure != nil {
		t.Fatalf("AgeStats() failure = %v", resp.Failure)
	}

	byLabel := make(map[string]int, len(resp.Data))
	for _, bracket := range resp.Data {
		byLabel[bracket.Label] = bracket.Value
	}
	if byLabel["18-25"] != 1 {
		t.Errorf("18-25 = %d, want 1", byLabel["18-25"])
	}
	if byLabel["26-35"] != 2 {
		t.Errorf("26-35 = %d, want 2", byLabel["26-35"])
	}
	if byLabel["56+"] != 1 {
		t.Errorf("56+ = %d, want 1", byLabel["56+"])
	}
}
