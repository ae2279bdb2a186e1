package api

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/task-tracker/failure"
)

// Every endpoint answers with the same envelope:
// {success, message?/error?, ...extra}. These helpers are the single
// place the envelope is built.

// respondSuccess writes a success envelope, merging extra data into
// the top level.
func respondSuccess(c *fiber.Ctx, message string, extra fiber.Map) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(fiber.StatusOK).JSON(body)
}

// respondError writes a failure envelope with the given status.
func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// respondFailure maps an in-band service failure to its HTTP status.
// Redirect outcomes are not errors: they answer 200 with a redirect
// marker so the client can route the caller.
func respondFailure(c *fiber.Ctx, f *failure.Failure) error {
	switch f.Kind {
	case failure.KindValidation:
		return respondError(c, fiber.StatusBadRequest, f.Message)
	case failure.KindNotFound:
		return respondError(c, fiber.StatusNotFound, f.Message)
	case failure.KindUnauthorized:
		return respondError(c, fiber.StatusUnauthorized, f.Message)
	case failure.KindForbidden:
		return respondError(c, fiber.StatusForbidden, f.Message)
	case failure.KindRedirect:
		return respondSuccess(c, f.Message, fiber.Map{"redirect": true})
	}
	return respondError(c, fiber.StatusInternalServerError, f.Message)
}

// respondInternal logs the underlying cause and answers with a generic
// message; raw error text never reaches the client.
func respondInternal(c *fiber.Ctx, err error) error {
	log.Printf("[api] Internal error: %v", err)
	return respondError(c, fiber.StatusInternalServerError, "internal server error")
}
