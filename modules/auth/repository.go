package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/example/task-tracker/domain/user"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when a unique constraint on the
	// users table rejects a write. Concurrent registrations racing on
	// email or CPF surface here: the store picks the winner.
	ErrDuplicateUser = errors.New("account with this email or CPF already exists")
	// ErrAddressNotFound is returned when a user has no address yet.
	ErrAddressNotFound = errors.New("address not found")
)

// UserRepository handles user and address persistence using GORM. It
// also implements validation.AccountDirectory for the uniqueness
// checks the validators need.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(u *user.User) error {
	if err := r.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

// Save persists changes to an existing user.
func (r *UserRepository) Save(u *user.User) error {
	if err := r.db.Save(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

// FindByID finds a user by ID.
func (r *UserRepository) FindByID(id string) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByLogin finds a user whose email or username matches the login
// identifier.
func (r *UserRepository) FindByLogin(login string) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, "email = ? OR username = ?", login, login).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EmailTaken reports whether the email is registered, either as an
// email or as a username.
func (r *UserRepository) EmailTaken(email string) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).
		Where("email = ? OR username = ?", email, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CPFTaken reports whether the CPF is registered.
func (r *UserRepository) CPFTaken(cpf string) (bool, error) {
	var count int64
	err := r.db.Model(&user.User{}).Where("cpf = ?", cpf).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAddress returns the one-to-one address of a user.
func (r *UserRepository) FindAddress(userID string) (*user.Address, error) {
	var a user.Address
	if err := r.db.First(&a, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return &a, nil
}

// SaveProfile persists the profile-step mutation atomically: the user
// update and the address upsert either both land or neither does.
func (r *UserRepository) SaveProfile(u *user.User, a *user.Address) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(u).Error; err != nil {
			return err
		}
		return tx.Save(a).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Delete removes a user and their address permanently. Task cleanup is
// the caller's responsibility through the tasks module.
func (r *UserRepository) Delete(userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&user.Address{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		result := tx.Delete(&user.User{}, "id = ?", userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
