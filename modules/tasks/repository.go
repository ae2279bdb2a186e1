package tasks

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/example/task-tracker/domain/task"
)

// ErrTaskNotFound is returned when a task does not exist for the given
// owner. A task owned by someone else reports the same error, so
// callers cannot tell foreign tasks from absent ones.
var ErrTaskNotFound = errors.New("task not found")

// Repository handles task persistence using GORM. Every query is
// scoped to an owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new task.
func (r *Repository) Create(t *task.Task) error {
	return r.db.Create(t).Error
}

// Save persists changes to an existing task.
func (r *Repository) Save(t *task.Task) error {
	return r.db.Save(t).Error
}

// FindByOwner finds the owner's task by ID.
func (r *Repository) FindByOwner(id, ownerID string) (*task.Task, error) {
	var t task.Task
	err := r.db.First(&t, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// DeleteByOwner permanently deletes the owner's task by ID.
func (r *Repository) DeleteByOwner(id, ownerID string) error {
	result := r.db.Delete(&task.Task{}, "id = ? AND user_id = ?", id, ownerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListByOwner returns the owner's tasks, newest first, optionally
// filtered by status.
func (r *Repository) ListByOwner(ownerID string, status task.Status) ([]task.Task, error) {
	query := r.db.Where("user_id = ?", ownerID).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var list []task.Task
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CountByStatus counts the owner's tasks per status.
func (r *Repository) CountByStatus(ownerID string) (StatusStats, error) {
	type row struct {
		Status task.Status
		N      int64
	}
	var rows []row
	err := r.db.Model(&task.Task{}).
		Select("status, COUNT(*) AS n").
		Where("user_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusStats{}, err
	}

	var stats StatusStats
	for _, row := range rows {
		stats.Total += row.N
		switch row.Status {
		case task.StatusPending:
			stats.Pending = row.N
		case task.StatusInProgress:
			stats.InProgress = row.N
		case task.StatusCompleted:
			stats.Completed = row.N
		}
	}
	return stats, nil
}

// CreationTimes returns the creation timestamps of the owner's tasks
// within the given calendar year.
func (r *Repository) CreationTimes(ownerID string, year int) ([]time.Time, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	var times []time.Time
	err := r.db.Model(&task.Task{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", ownerID, start, end).
		Pluck("created_at", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// PurgeByOwner removes every task of one owner and reports the count.
func (r *Repository) PurgeByOwner(ownerID string) (int64, error) {
	result := r.db.Delete(&task.Task{}, "user_id = ?", ownerID)
	return result.RowsAffected, result.Error
}
