package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/task-tracker/modules/admin"
)

// UpdateRole changes a target account's role. Staff only.
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	var body RoleBody
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	req := admin.UpdateRoleRequest{
		CallerID: claims.UserID,
		TargetID: c.Params("id"),
		Role:     body.Role,
	}
	var resp admin.UpdateRoleResponse
	if err := call(c, h.admin, "update-role", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, resp.Message, nil)
}

// UserDetails returns the full admin view of one account. Staff only.
func (h *Handlers) UserDetails(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := admin.UserDetailsRequest{CallerID: claims.UserID, TargetID: c.Params("id")}
	var resp admin.UserDetailsResponse
	if err := call(c, h.admin, "user-details", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, "", fiber.Map{
		"user":       resp.User,
		"address":    resp.Address,
		"task_stats": resp.TaskStats,
	})
}

// DeactivateUser suspends a target account. Staff only.
func (h *Handlers) DeactivateUser(c *fiber.Ctx) error {
	return h.accountAction(c, "deactivate")
}

// ActivateUser restores a suspended account. Staff only.
func (h *Handlers) ActivateUser(c *fiber.Ctx) error {
	return h.accountAction(c, "activate")
}

// DeleteUser permanently deletes a target account and its tasks.
// Staff only.
func (h *Handlers) DeleteUser(c *fiber.Ctx) error {
	return h.accountAction(c, "delete")
}

func (h *Handlers) accountAction(c *fiber.Ctx, service string) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := admin.AccountActionRequest{CallerID: claims.UserID, TargetID: c.Params("id")}
	var resp admin.AccountActionResponse
	if err := call(c, h.admin, service, &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, resp.Message, nil)
}

// ListUsers returns the admin user grid. Staff only.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := admin.ListUsersRequest{CallerID: claims.UserID}
	var resp admin.ListUsersResponse
	if err := call(c, h.admin, "list-users", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, "", fiber.Map{"users": resp.Users})
}

// GenderStats returns the gender distribution of all accounts. Staff
// only.
func (h *Handlers) GenderStats(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := admin.StatsRequest{CallerID: claims.UserID}
	var resp admin.GenderStatsResponse
	if err := call(c, h.admin, "gender-stats", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, "", fiber.Map{"data": resp.Data})
}

// AgeStats returns the age-bracket distribution of all accounts.
// Staff only.
func (h *Handlers) AgeStats(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := admin.StatsRequest{CallerID: claims.UserID}
	var resp admin.AgeStatsResponse
	if err := call(c, h.admin, "age-stats", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, "", fiber.Map{"data": resp.Data})
}
