package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/failure"
	"github.com/example/task-tracker/validation"
)

// TasksPort is the slice of the tasks module the auth module needs:
// purging the tasks of an account that is being deleted.
type TasksPort interface {
	PurgeUser(ctx context.Context, userID string) error
}

// AuthService owns the two-step registration state machine, login and
// self-service account deletion. Expected failures are reported
// in-band; returned errors are reserved for unexpected conditions.
type AuthService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	jwt    *JWTManager
	tasks  TasksPort
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, jwt *JWTManager, tasks TasksPort) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		jwt:    jwt,
		tasks:  tasks,
	}
}

// Register runs registration step 1: create the account in the step1
// state and authenticate the caller immediately. The optional profile
// fields are validated when present but completion stays pending until
// step 2.
func (s *AuthService) Register(_ context.Context, req RegisterRequest) (RegisterResponse, error) {
	firstName, err := validation.Name(req.FirstName)
	if err != nil {
		return registerFailure("first name: %v", err)
	}
	lastName, err := validation.Name(req.LastName)
	if err != nil {
		return registerFailure("last name: %v", err)
	}
	email, err := validation.Email(req.Email, s.repo)
	if err != nil {
		if isValidationErr(err) {
			return registerFailure("%v", err)
		}
		return RegisterResponse{}, err
	}
	if req.Password != req.PasswordConfirm {
		return RegisterResponse{Failure: failure.Validation("passwords do not match")}, nil
	}
	if err := validation.Password(req.Password); err != nil {
		return registerFailure("%v", err)
	}

	u := &user.User{
		ID:                uuid.New().String(),
		Email:             email,
		Username:          email,
		FirstName:         firstName,
		LastName:          lastName,
		Role:              user.RoleUser,
		IsActive:          true,
		RegistrationState: user.StateStep1,
	}

	if req.Birthdate != "" {
		birthdate, err := validation.Birthdate(req.Birthdate, time.Now())
		if err != nil {
			return registerFailure("%v", err)
		}
		u.Birthdate = &birthdate
	}
	if req.Gender != "" {
		gender := user.Gender(req.Gender)
		if !gender.Valid() {
			return RegisterResponse{Failure: failure.Validation("invalid gender")}, nil
		}
		u.Gender = gender
	}
	if req.CPF != "" {
		cpf, err := validation.CPF(req.CPF, s.repo)
		if err != nil {
			if isValidationErr(err) {
				return registerFailure("%v", err)
			}
			return RegisterResponse{}, err
		}
		u.CPF = &cpf
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash

	if err := s.repo.Create(u); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			// Lost a concurrent registration race: the unique index
			// on email/username/cpf picked the winner.
			return RegisterResponse{Failure: failure.Validation(err.Error())}, nil
		}
		return RegisterResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.jwt.IssuePair(u.ID, u.Email)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("failed to issue session: %w", err)
	}

	return RegisterResponse{User: toUserPayload(u), Tokens: tokens}, nil
}

// CompleteProfile runs registration step 2 for an authenticated
// caller. Calling it when the account is not in the step1 state is a
// no-op redirect, never a mutation.
func (s *AuthService) CompleteProfile(_ context.Context, req CompleteProfileRequest) (CompleteProfileResponse, error) {
	u, err := s.repo.FindByID(req.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return CompleteProfileResponse{Failure: failure.NotFound("account not found")}, nil
		}
		return CompleteProfileResponse{}, err
	}
	if !u.NextStep() {
		return CompleteProfileResponse{Failure: failure.Redirect("profile already completed")}, nil
	}

	birthdate, err := validation.Birthdate(req.Birthdate, time.Now())
	if err != nil {
		return profileFailure("%v", err)
	}
	gender := user.Gender(req.Gender)
	if !gender.Valid() {
		return CompleteProfileResponse{Failure: failure.Validation("invalid gender")}, nil
	}
	cpf, err := validation.CPF(req.CPF, s.repo)
	if err != nil {
		if isValidationErr(err) {
			return profileFailure("%v", err)
		}
		return CompleteProfileResponse{}, err
	}
	phone, err := validation.Phone(req.Phone)
	if err != nil {
		return profileFailure("%v", err)
	}
	zipcode, err := validation.Zipcode(req.Zipcode)
	if err != nil {
		return profileFailure("%v", err)
	}
	required := []struct{ field, value string }{
		{"street", req.Street},
		{"number", req.Number},
		{"neighborhood", req.Neighborhood},
		{"city", req.City},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return CompleteProfileResponse{Failure: failure.Validation(f.field + " is required")}, nil
		}
	}
	if !user.ValidUF(req.State) {
		return CompleteProfileResponse{Failure: failure.Validation("invalid state")}, nil
	}

	u.Birthdate = &birthdate
	u.Gender = gender
	u.CPF = &cpf
	u.Phone = phone
	u.RegistrationState = user.StateComplete

	// Upsert: update the existing address in place, else create one.
	addr, err := s.repo.FindAddress(u.ID)
	if err != nil {
		if !errors.Is(err, ErrAddressNotFound) {
			return CompleteProfileResponse{}, err
		}
		addr = &user.Address{ID: uuid.New().String(), UserID: u.ID}
	}
	addr.Zipcode = zipcode
	addr.Street = strings.TrimSpace(req.Street)
	addr.Number = strings.TrimSpace(req.Number)
	addr.Complement = strings.TrimSpace(req.Complement)
	addr.Neighborhood = strings.TrimSpace(req.Neighborhood)
	addr.City = strings.TrimSpace(req.City)
	addr.State = req.State

	if err := s.repo.SaveProfile(u, addr); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return CompleteProfileResponse{Failure: failure.Validation("this CPF is already in use")}, nil
		}
		return CompleteProfileResponse{}, err
	}

	return CompleteProfileResponse{
		User:             toUserPayload(u),
		FormattedAddress: addr.FormattedAddress,
	}, nil
}

// Login authenticates by normalized email and password. Wrong
// identifier and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(_ context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := validation.Email(req.Email, nil)
	if err != nil {
		return LoginResponse{Failure: failure.Validation(err.Error())}, nil
	}

	u, err := s.repo.FindByLogin(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResponse{Failure: failure.Unauthorized("invalid email or password")}, nil
		}
		return LoginResponse{}, err
	}
	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return LoginResponse{Failure: failure.Unauthorized("invalid email or password")}, nil
	}
	if !u.IsActive {
		return LoginResponse{Failure: failure.Unauthorized("this account is inactive")}, nil
	}

	tokens, err := s.jwt.IssuePair(u.ID, u.Email)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to issue session: %w", err)
	}

	return LoginResponse{
		User:     toUserPayload(u),
		Tokens:   tokens,
		NextStep: u.NextStep(),
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(_ context.Context, req RefreshRequest) (RefreshResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return RefreshResponse{Failure: failure.Unauthorized("invalid or expired refresh token")}, nil
	}
	u, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return RefreshResponse{Failure: failure.Unauthorized("invalid or expired refresh token")}, nil
		}
		return RefreshResponse{}, err
	}
	if !u.IsActive {
		return RefreshResponse{Failure: failure.Unauthorized("this account is inactive")}, nil
	}
	tokens, err := s.jwt.IssuePair(u.ID, u.Email)
	if err != nil {
		return RefreshResponse{}, fmt.Errorf("failed to issue session: %w", err)
	}
	return RefreshResponse{Tokens: tokens}, nil
}

// ValidateToken checks an access token and returns the caller claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*user.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	return &user.Claims{UserID: claims.UserID, Email: claims.Email}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(_ context.Context, userID string) (GetUserResponse, error) {
	u, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return GetUserResponse{Failure: failure.NotFound("account not found")}, nil
		}
		return GetUserResponse{}, err
	}
	return GetUserResponse{User: toUserPayload(u), IsStaff: u.IsStaff}, nil
}

// DeleteAccount is the self-service deletion path: the owner confirms
// with their password and the account, address and tasks go away
// permanently.
func (s *AuthService) DeleteAccount(ctx context.Context, req DeleteAccountRequest) (DeleteAccountResponse, error) {
	u, err := s.repo.FindByID(req.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return DeleteAccountResponse{Failure: failure.NotFound("account not found")}, nil
		}
		return DeleteAccountResponse{}, err
	}
	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return DeleteAccountResponse{Failure: failure.Unauthorized("incorrect password")}, nil
	}

	if err := s.tasks.PurgeUser(ctx, u.ID); err != nil {
		return DeleteAccountResponse{}, fmt.Errorf("failed to purge tasks: %w", err)
	}
	if err := s.repo.Delete(u.ID); err != nil {
		return DeleteAccountResponse{}, fmt.Errorf("failed to delete account: %w", err)
	}

	return DeleteAccountResponse{
		Message: fmt.Sprintf("account %q deleted", u.Email),
	}, nil
}

// registerFailure formats a validation failure for step 1.
func registerFailure(format string, args ...any) (RegisterResponse, error) {
	return RegisterResponse{Failure: failure.Validation(fmt.Sprintf(format, args...))}, nil
}

// profileFailure formats a validation failure for step 2.
func profileFailure(format string, args ...any) (CompleteProfileResponse, error) {
	return CompleteProfileResponse{Failure: failure.Validation(fmt.Sprintf(format, args...))}, nil
}

// isValidationErr separates validator rejections from store errors on
// the paths that consult the account directory.
func isValidationErr(err error) bool {
	switch {
	case errors.Is(err, validation.ErrInvalidEmail),
		errors.Is(err, validation.ErrEmailTaken),
		errors.Is(err, validation.ErrInvalidCPF),
		errors.Is(err, validation.ErrCPFTaken):
		return true
	}
	return false
}
