package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/cep"
)

// Register handles registration step 1: account creation plus
// immediate authentication.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body RegisterBody
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	req := auth.RegisterRequest{
		FirstName:       body.FirstName,
		LastName:        body.LastName,
		Email:           body.Email,
		Password:        body.Password,
		PasswordConfirm: body.PasswordConfirm,
		Birthdate:       body.Birthdate,
		Gender:          body.Gender,
		CPF:             body.CPF,
	}
	var resp auth.RegisterResponse
	if err := call(c, h.auth, "register", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}

	return respondSuccess(c,
		fmt.Sprintf("welcome, %s! your account was created successfully", resp.User.FirstName),
		fiber.Map{
			"user":      resp.User,
			"tokens":    resp.Tokens,
			"next_step": resp.User.NextStep,
		})
}

// RegisterStep2 handles registration step 2: profile and address
// completion for the authenticated caller.
func (h *Handlers) RegisterStep2(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	var body ProfileBody
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	req := auth.CompleteProfileRequest{
		UserID:       claims.UserID,
		Birthdate:    body.Birthdate,
		Gender:       body.Gender,
		CPF:          body.CPF,
		Phone:        body.Phone,
		Zipcode:      body.Zipcode,
		Street:       body.Street,
		Number:       body.Number,
		Complement:   body.Complement,
		Neighborhood: body.Neighborhood,
		City:         body.City,
		State:        body.State,
	}
	var resp auth.CompleteProfileResponse
	if err := call(c, h.auth, "complete-profile", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}

	return respondSuccess(c, "profile completed successfully", fiber.Map{
		"user":              resp.User,
		"formatted_address": resp.FormattedAddress,
	})
}

// Login authenticates by email and password.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body LoginBody
	if ok, err := parseBody(c, &body); !ok {
		return err
	}
	if body.Email == "" || body.Password == "" {
		return respondError(c, fiber.StatusBadRequest, "email and password are required")
	}

	req := auth.LoginRequest{Email: body.Email, Password: body.Password}
	var resp auth.LoginResponse
	if err := call(c, h.auth, "login", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}

	return respondSuccess(c,
		fmt.Sprintf("welcome back, %s!", resp.User.FirstName),
		fiber.Map{
			"user":      resp.User,
			"tokens":    resp.Tokens,
			"next_step": resp.NextStep,
		})
}

// Refresh exchanges a refresh token for a new token pair.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var body RefreshBody
	if ok, err := parseBody(c, &body); !ok {
		return err
	}
	if body.RefreshToken == "" {
		return respondError(c, fiber.StatusBadRequest, "refresh token is required")
	}

	req := auth.RefreshRequest{RefreshToken: body.RefreshToken}
	var resp auth.RefreshResponse
	if err := call(c, h.auth, "refresh-token", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}

	return respondSuccess(c, "", fiber.Map{"tokens": resp.Tokens})
}

// Profile returns the authenticated caller's own account.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	req := auth.GetUserRequest{UserID: claims.UserID}
	var resp auth.GetUserResponse
	if err := call(c, h.auth, "get-user", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, "", fiber.Map{
		"user":     resp.User,
		"is_staff": resp.IsStaff,
	})
}

// Logout acknowledges the end of a session. Tokens are stateless, so
// the client discards them; there is nothing to revoke server-side.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	return respondSuccess(c, "you have been logged out", nil)
}

// DeleteAccount is the self-service deletion path for the
// authenticated caller.
func (h *Handlers) DeleteAccount(c *fiber.Ctx) error {
	claims, ok := currentClaims(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "user not authenticated")
	}
	var body DeleteAccountBody
	if ok, err := parseBody(c, &body); !ok {
		return err
	}

	req := auth.DeleteAccountRequest{UserID: claims.UserID, Password: body.Password}
	var resp auth.DeleteAccountResponse
	if err := call(c, h.auth, "delete-account", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if resp.Failure != nil {
		return respondFailure(c, resp.Failure)
	}
	return respondSuccess(c, resp.Message, nil)
}

// CepLookup forwards a zipcode to the address lookup capability.
func (h *Handlers) CepLookup(c *fiber.Ctx) error {
	req := cep.LookupRequest{Zipcode: c.Params("zipcode")}
	var resp cep.LookupResponse
	if err := call(c, h.cep, "lookup", &req, &resp); err != nil {
		return respondInternal(c, err)
	}
	if !resp.Available {
		return respondError(c, fiber.StatusNotFound, resp.Message)
	}
	return respondSuccess(c, "", nil)
}
