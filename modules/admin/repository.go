package admin

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/example/task-tracker/domain/user"
)

// ErrUserNotFound is returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// Repository is the administrative view over the account store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID finds a user by ID.
func (r *Repository) FindByID(id string) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Save persists changes to an existing user.
func (r *Repository) Save(u *user.User) error {
	return r.db.Save(u).Error
}

// Delete removes a user and their address permanently.
func (r *Repository) Delete(userID string) error {
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

// FindAddress returns the one-to-one address of a user, or nil without
// error when none exists.
func (r *Repository) FindAddress(userID string) (*user.Address, error) {
	var a user.Address
	if err := r.db.First(&a, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// ListAll returns every account, oldest first.
func (r *Repository) ListAll() ([]user.User, error) {
	var users []user.User
	if err := r.db.Order("date_joined").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the total number of accounts.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&user.User{}).Count(&count).Error
	return count, err
}

// GenderCounts counts accounts per gender code. The empty code groups
// accounts that never provided one.
func (r *Repository) GenderCounts() (map[user.Gender]int64, error) {
	type row struct {
		Gender user.Gender
		N      int64
	}
	var rows []row
	err := r.db.Model(&user.User{}).
		Select("gender, COUNT(*) AS n").
		Group("gender").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[user.Gender]int64, len(rows))
	for _, row := range rows {
		counts[row.Gender] = row.N
	}
	return counts, nil
}

// Birthdates returns every recorded birthdate.
func (r *Repository) Birthdates() ([]time.Time, error) {
	var dates []time.Time
	err := r.db.Model(&user.User{}).
		Where("birthdate IS NOT NULL").
		Pluck("birthdate", &dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}
