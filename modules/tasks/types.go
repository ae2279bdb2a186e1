package tasks

import (
	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/failure"
)

// dateTimeLayout is the rendering format for timestamps in responses.
const dateTimeLayout = "02/01/2006 15:04"

// TaskPayload is the task shape returned to clients. Description is
// always a string, empty when absent.
type TaskPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// toTaskPayload converts a task entity into its response shape.
func toTaskPayload(t *task.Task) TaskPayload {
	return TaskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.Format(dateTimeLayout),
		UpdatedAt:   t.UpdatedAt.Format(dateTimeLayout),
	}
}

// CreateRequest creates a task for the calling user.
type CreateRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// CreateResponse is the creation outcome.
type CreateResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Message string           `json:"message,omitempty"`
	Task    TaskPayload      `json:"task,omitempty"`
}

// UpdateRequest updates a task owned by the calling user. An empty
// status keeps the current one.
type UpdateRequest struct {
	UserID      string `json:"user_id"`
	TaskID      string `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

// UpdateResponse is the update outcome.
type UpdateResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Message string           `json:"message,omitempty"`
	Task    TaskPayload      `json:"task,omitempty"`
}

// GetRequest fetches a task owned by the calling user.
type GetRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// GetResponse is the fetch outcome.
type GetResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Task    TaskPayload      `json:"task,omitempty"`
}

// DeleteRequest permanently deletes a task owned by the calling user.
type DeleteRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteResponse is the deletion outcome.
type DeleteResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Message string           `json:"message,omitempty"`
}

// CompleteRequest marks a task as completed.
type CompleteRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// CompleteResponse is the completion outcome.
type CompleteResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Message string           `json:"message,omitempty"`
}

// ListRequest lists the calling user's tasks, optionally filtered by
// status, newest first.
type ListRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status,omitempty"`
}

// ListResponse is the listing outcome with per-status stats.
type ListResponse struct {
	Failure *failure.Failure `json:"failure,omitempty"`
	Tasks   []TaskPayload    `json:"tasks"`
	Stats   StatusStats      `json:"stats"`
}

// StatusStats counts a user's tasks per status.
type StatusStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

// ByMonthRequest requests the calendar-year creation histogram.
type ByMonthRequest struct {
	UserID string `json:"user_id"`
	Year   int    `json:"year,omitempty"`
}

// ByMonthResponse maps English month names to creation counts. All
// twelve months are present, zero-filled.
type ByMonthResponse struct {
	Year   int            `json:"year"`
	Counts map[string]int `json:"counts"`
}

// StatsRequest requests per-status counts for one user.
type StatsRequest struct {
	UserID string `json:"user_id"`
}

// StatsResponse carries per-status counts for one user.
type StatsResponse struct {
	Stats StatusStats `json:"stats"`
}

// PurgeUserRequest removes every task of one user. Used when an
// account is deleted.
type PurgeUserRequest struct {
	UserID string `json:"user_id"`
}

// PurgeUserResponse reports how many tasks were removed.
type PurgeUserResponse struct {
	Purged int64 `json:"purged"`
}
