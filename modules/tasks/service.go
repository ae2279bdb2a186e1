package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-monolith/mono"
	"github.com/google/uuid"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/failure"
)

// validateTitle applies the single required-field rule of the task
// lifecycle: a title that is non-empty after trimming and within the
// length bound.
func validateTitle(raw string) (string, *failure.Failure) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", failure.Validation("title is required")
	}
	if len([]rune(title)) > task.MaxTitleLength {
		return "", failure.Validation(fmt.Sprintf("title must have at most %d characters", task.MaxTitleLength))
	}
	return title, nil
}

// createTask handles the tasks.create service request.
func (m *TasksModule) createTask(_ context.Context, req CreateRequest, _ *mono.Msg) (CreateResponse, error) {
	title, fail := validateTitle(req.Title)
	if fail != nil {
		return CreateResponse{Failure: fail}, nil
	}

	status := task.StatusPending
	if req.Status != "" {
		status = task.Status(req.Status)
		if !status.Valid() {
			return CreateResponse{Failure: failure.Validation("invalid status")}, nil
		}
	}

	t := &task.Task{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Title:       title,
		Description: req.Description,
		Status:      status,
	}
	if err := m.repo.Create(t); err != nil {
		return CreateResponse{}, fmt.Errorf("failed to create task: %w", err)
	}

	return CreateResponse{
		Message: "task created successfully",
		Task:    toTaskPayload(t),
	}, nil
}

// updateTask handles the tasks.update service request. Title and
// description are replaced; an empty status keeps the current one.
func (m *TasksModule) updateTask(_ context.Context, req UpdateRequest, _ *mono.Msg) (UpdateResponse, error) {
	t, err := m.repo.FindByOwner(req.TaskID, req.UserID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return UpdateResponse{Failure: failure.NotFound("task not found")}, nil
		}
		return UpdateResponse{}, err
	}

	title, fail := validateTitle(req.Title)
	if fail != nil {
		return UpdateResponse{Failure: fail}, nil
	}
	if req.Status != "" && !task.Status(req.Status).Valid() {
		return UpdateResponse{Failure: failure.Validation("invalid status")}, nil
	}

	t.Title = title
	t.Description = req.Description
	if req.Status != "" {
		t.Status = task.Status(req.Status)
	}
	if err := m.repo.Save(t); err != nil {
		return UpdateResponse{}, fmt.Errorf("failed to update task: %w", err)
	}

	return UpdateResponse{
		Message: "task updated successfully",
		Task:    toTaskPayload(t),
	}, nil
}

// getTask handles the tasks.get service request.
func (m *TasksModule) getTask(_ context.Context, req GetRequest, _ *mono.Msg) (GetResponse, error) {
	t, err := m.repo.FindByOwner(req.TaskID, req.UserID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return GetResponse{Failure: failure.NotFound("task not found")}, nil
		}
		return GetResponse{}, err
	}
	return GetResponse{Task: toTaskPayload(t)}, nil
}

// deleteTask handles the tasks.delete service request. Deletion is
// permanent.
func (m *TasksModule) deleteTask(_ context.Context, req DeleteRequest, _ *mono.Msg) (DeleteResponse, error) {
	t, err := m.repo.FindByOwner(req.TaskID, req.UserID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return DeleteResponse{Failure: failure.NotFound("task not found")}, nil
		}
		return DeleteResponse{}, err
	}
	if err := m.repo.DeleteByOwner(t.ID, req.UserID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return DeleteResponse{Failure: failure.NotFound("task not found")}, nil
		}
		return DeleteResponse{}, fmt.Errorf("failed to delete task: %w", err)
	}
	return DeleteResponse{
		Message: fmt.Sprintf("task %q removed successfully", t.Title),
	}, nil
}

// completeTask handles the tasks.complete service request. The status
// is set to COMPLETED unconditionally, so repeating the call is
// harmless.
func (m *TasksModule) completeTask(_ context.Context, req CompleteRequest, _ *mono.Msg) (CompleteResponse, error) {
	t, err := m.repo.FindByOwner(req.TaskID, req.UserID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return CompleteResponse{Failure: failure.NotFound("task not found")}, nil
		}
		return CompleteResponse{}, err
	}

	t.Status = task.StatusCompleted
	if err := m.repo.Save(t); err != nil {
		return CompleteResponse{}, fmt.Errorf("failed to complete task: %w", err)
	}

	return CompleteResponse{
		Message: fmt.Sprintf("task %q marked as completed", t.Title),
	}, nil
}

// listTasks handles the tasks.list service request.
func (m *TasksModule) listTasks(_ context.Context, req ListRequest, _ *mono.Msg) (ListResponse, error) {
	status := task.Status(req.Status)
	if req.Status != "" && !status.Valid() {
		return ListResponse{Failure: failure.Validation("invalid status")}, nil
	}

	list, err := m.repo.ListByOwner(req.UserID, status)
	if err != nil {
		return ListResponse{}, err
	}
	stats, err := m.repo.CountByStatus(req.UserID)
	if err != nil {
		return ListResponse{}, err
	}

	resp := ListResponse{
		Tasks: make([]TaskPayload, 0, len(list)),
		Stats: stats,
	}
	for i := range list {
		resp.Tasks = append(resp.Tasks, toTaskPayload(&list[i]))
	}
	return resp, nil
}

// tasksByMonth handles the tasks.by-month service request: a calendar
// histogram of task creation. Every month is present even at zero.
func (m *TasksModule) tasksByMonth(_ context.Context, req ByMonthRequest, _ *mono.Msg) (ByMonthResponse, error) {
	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}

	times, err := m.repo.CreationTimes(req.UserID, year)
	if err != nil {
		return ByMonthResponse{}, err
	}

	counts := make(map[string]int, 12)
	for month := time.January; month <= time.December; month++ {
		counts[month.String()] = 0
	}
	for _, created := range times {
		counts[created.Month().String()]++
	}
	return ByMonthResponse{Year: year, Counts: counts}, nil
}

// userStats handles the tasks.stats service request.
func (m *TasksModule) userStats(_ context.Context, req StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	stats, err := m.repo.CountByStatus(req.UserID)
	if err != nil {
		return StatsResponse{}, err
	}
	return StatsResponse{Stats: stats}, nil
}

// purgeUser handles the tasks.purge-user service request.
func (m *TasksModule) purgeUser(_ context.Context, req PurgeUserRequest, _ *mono.Msg) (PurgeUserResponse, error) {
	purged, err := m.repo.PurgeByOwner(req.UserID)
	if err != nil {
		return PurgeUserResponse{}, fmt.Errorf("failed to purge tasks: %w", err)
	}
	return PurgeUserResponse{Purged: purged}, nil
}
