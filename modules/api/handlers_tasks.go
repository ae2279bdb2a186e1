package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/task-tracker/modules/tasks"
)

// CreateTask creates a task for the authenticated caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	var body TaskBody
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	req := tasks.CreateRequest{
		UserID:      claims.UserID,
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
	}
	var resp tasks.CreateResponse
	if err := call(c, h.tasks, "create", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, resp.Message, fiber.Map{"task": resp.Task})
}

// UpdateTask updates a task owned by the authenticated caller.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	var body TaskBody
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	req := tasks.UpdateRequest{
		UserID:      claims.UserID,
		TaskID:      c.Params("id"),
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
	}
	var resp tasks.UpdateResponse
	if err := call(c, h.tasks, "update", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, resp.Message, fiber.Map{"task": resp.Task})
}

// GetTask returns one task owned by the authenticated caller.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := tasks.GetRequest{UserID: claims.UserID, TaskID: c.Params("id")}
	var resp tasks.GetResponse
	if err := call(c, h.tasks, "get", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, "", fiber.Map{"task": resp.Task})
}

// DeleteTask permanently deletes a task owned by the authenticated
// caller.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := tasks.DeleteRequest{UserID: claims.UserID, TaskID: c.Params("id")}
	var resp tasks.DeleteResponse
	if err := call(c, h.tasks, "delete", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, resp.Message, nil)
}

// CompleteTask marks a task as completed.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := tasks.CompleteRequest{UserID: claims.UserID, TaskID: c.Params("id")}
	var resp tasks.CompleteResponse
	if err := call(c, h.tasks, "complete", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, resp.Message, nil)
}

// ListTasks returns the caller's tasks with per-status stats,
// optionally filtered by status.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := tasks.ListRequest{UserID: claims.UserID, Status: c.Query("status")}
	var resp tasks.ListResponse
	if err := call(c, h.tasks, "list", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, "", fiber.Map{
		"tasks": resp.Tasks,
		"stats": resp.Stats,
	})
}

// TasksByMonth returns the caller's task creation histogram for the
// year.
func (h *Handlers) TasksByMonth(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := tasks.ByMonthRequest{UserID: claims.UserID, Year: c.QueryInt("year")}
	var resp tasks.ByMonthResponse
	if err := call(c, h.tasks, "by-month", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	return respondSuccess(c, "", fiber.Map{
		"year":   resp.Year,
		"counts": resp.Counts,
	})
}
