package task

import (
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Valid reports whether s is a member of the status set.
// Transitions between any two members are allowed; there is no
// enforced ordering.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// MaxTitleLength is the upper bound for task titles.
const MaxTitleLength = 200

// Task represents a single to-do item owned by one user.
type Task struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"size:36;not null;index"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	Status      Status `gorm:"size:20;not null;default:PENDING"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
