package admin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/failure"
	"github.com/example/task-tracker/modules/tasks"
)

// TasksPort is the slice of the tasks module the admin module needs.
type TasksPort interface {
	PurgeUser(ctx context.Context, userID string) error
	UserStats(ctx context.Context, userID string) (tasks.StatusStats, error)
}

// trueFlag and falseFlag back the staff-privilege mapping table.
var (
	trueFlag  = true
	falseFlag = false
)

// staffPrivilege maps each role to the staff flag it implies. A nil
// entry leaves the current flag untouched. RoleUser is deliberately
// nil: the original system never revoked staff privilege when
// demoting to USER, and that behavior is preserved here (see
// DESIGN.md).
var staffPrivilege = map[user.Role]*bool{
	user.RoleAdmin:    &trueFlag,
	user.RoleUser:     nil,
	user.RoleObserver: &falseFlag,
}

// AdminService owns the administrator-only account lifecycle
// operations and aggregate statistics. Every operation receives the
// caller identity explicitly and verifies the staff capability itself.
type AdminService struct {
	repo  *Repository
	tasks TasksPort
}

// NewAdminService creates a new AdminService.
func NewAdminService(repo *Repository, tasks TasksPort) *AdminService {
	return &AdminService{repo: repo, tasks: tasks}
}

// requireStaff loads the caller and checks the staff capability.
func (s *AdminService) requireStaff(callerID string) (*failure.Failure, error) {
	caller, err := s.repo.FindByID(callerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return failure.Forbidden("administrator capability required"), nil
		}
		return nil, err
	}
	if !caller.IsStaff {
		return failure.Forbidden("administrator capability required"), nil
	}
	return nil, nil
}

// loadTarget loads the target account and rejects self-targeting: no
// admin operation may act on the caller's own account.
func (s *AdminService) loadTarget(callerID, targetID string) (*user.User, *failure.Failure, error) {
	target, err := s.repo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, failure.NotFound("user not found"), nil
		}
		return nil, nil, err
	}
	if target.ID == callerID {
		return nil, failure.Validation("you cannot perform this action on your own account"), nil
	}
	return target, nil, nil
}

// UpdateRole changes the target's role and derives the staff flag from
// the privilege mapping table.
func (s *AdminService) UpdateRole(_ context.Context, req UpdateRoleRequest) (UpdateRoleResponse, error) {
	if fail, err := s.requireStaff(req.CallerID); fail != nil || err != nil {
		return UpdateRoleResponse{Failure: fail}, err
	}
	target, fail, err := s.loadTarget(req.CallerID, req.TargetID)
	if fail != nil || err != nil {
		return UpdateRoleResponse{Failure: fail}, err
	}

	role := user.Role(req.Role)
	if !role.Valid() {
		return UpdateRoleResponse{Failure: failure.Validation("invalid role")}, nil
	}

	target.Role = role
	if staff := staffPrivilege[role]; staff != nil {
		target.IsStaff = *staff
	}
	if err := s.repo.Save(target); err != nil {
		return UpdateRoleResponse{}, fmt.Errorf("failed to save user: %w", err)
	}

	return UpdateRoleResponse{
		Message: fmt.Sprintf("user role changed to %s", role.Display()),
	}, nil
}

// UserDetails returns the full admin view of one account: profile,
// address and per-status task counts.
func (s *AdminService) UserDetails(ctx context.Context, req UserDetailsRequest) (UserDetailsResponse, error) {
	if fail, err := s.requireStaff(req.CallerID); fail != nil || err != nil {
		return UserDetailsResponse{Failure: fail}, err
	}
	target, fail, err := s.loadTarget(req.CallerID, req.TargetID)
	if fail != nil || err != nil {
		return UserDetailsResponse{Failure: fail}, err
	}

	detail := DetailPayload{
		ID:               target.ID,
		FullName:         target.FullName(),
		Email:            target.Email,
		CPF:              orNotProvided(deref(target.CPF)),
		Phone:            orNotProvided(target.Phone),
		Birthdate:        notProvided,
		Age:              notProvided,
		GenderDisplay:    target.Gender.Display(),
		RoleDisplay:      target.Role.Display(),
		IsActive:         activeLabel(target.IsActive),
		DateJoined:       target.DateJoined.Format(dateTimeLayout),
		ProfileCompleted: yesNo(target.ProfileCompleted()),
	}
	if target.Birthdate != nil {
		detail.Birthdate = target.Birthdate.Format(dateLayout)
		detail.Age = fmt.Sprintf("%d years", target.Age(time.Now()))
	}

	address := AddressPayload{
		FormattedAddress: notProvided,
		Zipcode:          notProvided,
		CityState:        notProvided,
	}
	if addr, err := s.repo.FindAddress(target.ID); err != nil {
		return UserDetailsResponse{}, err
	} else if addr != nil {
		address.FormattedAddress = orNotProvided(addr.FormattedAddress)
		address.Zipcode = orNotProvided(addr.Zipcode)
		if addr.City != "" && addr.State != "" {
			address.CityState = addr.City + "/" + addr.State
		}
	}

	stats, err := s.tasks.UserStats(ctx, target.ID)
	if err != nil {
		return UserDetailsResponse{}, fmt.Errorf("failed to load task stats: %w", err)
	}

	return UserDetailsResponse{User: detail, Address: address, TaskStats: stats}, nil
}

// Deactivate marks the target account inactive.
func (s *AdminService) Deactivate(_ context.Context, req AccountActionRequest) (AccountActionResponse, error) {
	return s.setActive(req, false)
}

// Activate marks the target account active again.
func (s *AdminService) Activate(_ context.Context, req AccountActionRequest) (AccountActionResponse, error) {
	return s.setActive(req, true)
}

func (s *AdminService) setActive(req AccountActionRequest, active bool) (AccountActionResponse, error) {
	if fail, err := s.requireStaff(req.CallerID); fail != nil || err != nil {
		return AccountActionResponse{Failure: fail}, err
	}
	target, fail, err := s.loadTarget(req.CallerID, req.TargetID)
	if fail != nil || err != nil {
		return AccountActionResponse{Failure: fail}, err
	}

	target.IsActive = active
	if err := s.repo.Save(target); err != nil {
		return AccountActionResponse{}, fmt.Errorf("failed to save user: %w", err)
	}

	verb := "deactivated"
	if active {
		verb = "activated"
	}
	return AccountActionResponse{
		Message: fmt.Sprintf("user %q %s successfully", target.Email, verb),
	}, nil
}

// Delete removes the target account, its address and its tasks
// permanently.
func (s *AdminService) Delete(ctx context.Context, req AccountActionRequest) (AccountActionResponse, error) {
	if fail, err := s.requireStaff(req.CallerID); fail != nil || err != nil {
		return AccountActionResponse{Failure: fail}, err
	}
	target, fail, err := s.loadTarget(req.CallerID, req.TargetID)
	if fail != nil || err != nil {
		return AccountActionResponse{Failure: fail}, err
	}

	if err := s.tasks.PurgeUser(ctx, target.ID); err != nil {
		return AccountActionResponse{}, fmt.Errorf("failed to purge tasks: %w", err)
	}
	if err := s.repo.Delete(target.ID); err != nil {
		return AccountActionResponse{}, fmt.Errorf("failed to delete user: %w", err)
	}

	return AccountActionResponse{
		Message: fmt.Sprintf("user %q removed successfully", target.FullName()),
	}, nil
}

// ListUsers returns one grid row per account.
func (s *AdminService) ListUsers(_ context.Context, req ListUsersRequest) (ListUsersResponse, error) {
	if fail, err := s.requireStaff(req.CallerID); fail != nil || err != nil {
		return ListUsersResponse{Failure: fail}, err
	}

	users, err := s.repo.ListAll()
	if err != nil {
		return ListUsersResponse{}, err
	}

	now := time.Now()
	rows := make([]GridRow, 0, len(users))
	for i := range users {
		u := &users[i]
		row := GridRow{
			ID:                  u.ID,
			FullName:            u.FullName(),
			Email:               u.Email,
			GenderDisplay:       u.Gender.Display(),
			RoleDisplay:         u.Role.Display(),
			RoleCode:            string(u.Role),
			IsActive:            u.IsActive,
			DateJoinedFormatted: u.DateJoined.Format(dateLayout),
		}
		if age := u.Age(now); age >= 0 {
			row.Age = &age
		}
		rows = append(rows, row)
	}
	return ListUsersResponse{Users: rows}, nil
}

// GenderStats returns the gender distribution with percentages.
func (s *AdminService) GenderStats(_ context.Context, req StatsRequest) (GenderStatsResponse, error) {
	if fail, err := s.requireStaff(req.CallerID); fail != nil || err != nil {
		return GenderStatsResponse{Failure: fail}, err
	}

	counts, err := s.repo.GenderCounts()
	if err != nil {
		return GenderStatsResponse{}, err
	}
	total, err := s.repo.Count()
	if err != nil {
		return GenderStatsResponse{}, err
	}

	data := make([]GenderStat, 0, len(counts))
	for _, gender := range []user.Gender{user.GenderMale, user.GenderFemale, user.GenderOther, ""} {
		count, ok := counts[gender]
		if !ok {
			continue
		}
		var percentage float64
		if total > 0 {
			percentage = math.Round(float64(count)/float64(total)*1000) / 10
		}
		data = append(data, GenderStat{
			Label:      gender.Display(),
			Value:      count,
			Percentage: percentage,
		})
	}
	return GenderStatsResponse{Data: data}, nil
}

// ageBrackets are the histogram bars of the age distribution, in
// display order.
var ageBrackets = []struct {
	label    string
	min, max int
}{
	{"18-25", 18, 25},
	{"26-35", 26, 35},
	{"36-45", 36, 45},
	{"46-55", 46, 55},
	{"56+", 56, math.MaxInt},
}

// AgeStats returns the age-bracket distribution across accounts with a
// recorded birthdate.
func (s *AdminService) AgeStats(_ context.Context, req StatsRequest) (AgeStatsResponse, error) {
	if fail, err := s.requireStaff(req.CallerID); fail != nil || err != nil {
		return AgeStatsResponse{Failure: fail}, err
	}

	birthdates, err := s.repo.Birthdates()
	if err != nil {
		return AgeStatsResponse{}, err
	}

	now := time.Now()
	values := make(map[string]int, len(ageBrackets))
	for _, birthdate := range birthdates {
		b := birthdate
		u := user.User{Birthdate: &b}
		age := u.Age(now)
		for _, bracket := range ageBrackets {
			if age >= bracket.min && age <= bracket.max {
				values[bracket.label]++
				break
			}
		}
	}

	data := make([]AgeBracket, 0, len(ageBrackets))
	for _, bracket := range ageBrackets {
		data = append(data, AgeBracket{Label: bracket.label, Value: values[bracket.label]})
	}
	return AgeStatsResponse{Data: data}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orNotProvided(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
