package api

import (
	"encoding/json"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the API. Each handler
// forwards the request to the owning module through the service
// container and renders the outcome into the response envelope.
type Handlers struct {
	auth  mono.ServiceContainer
	tasks mono.ServiceContainer
	admin mono.ServiceContainer
	cep   mono.ServiceContainer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(auth, tasks, admin, cep mono.ServiceContainer) *Handlers {
	return &Handlers{
		auth:  auth,
		tasks: tasks,
		admin: admin,
		cep:   cep,
	}
}

// call performs a typed request-reply call against a module container.
func call[Req, Resp any](c *fiber.Ctx, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	return helper.CallRequestReplyService(
		c.UserContext(), container, service,
		json.Marshal, json.Unmarshal,
		req, resp,
	)
}

// parseBody decodes the JSON request body, answering 400 on malformed
// input. The boolean reports whether the handler should continue.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	return true, nil
}
