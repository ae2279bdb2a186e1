package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/task-tracker/domain/user"
)

// AuthPort is the interface other modules use to resolve caller
// identity through the service container.
type AuthPort interface {
	ValidateToken(ctx context.Context, token string) (*user.Claims, error)
}

// Adapter implements AuthPort over the auth service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// ValidateToken validates an access token and returns the caller
// claims.
func (a *Adapter) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "validate-token",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}
	if !resp.Valid {
		return nil, fmt.Errorf("token validation failed: %s", resp.Error)
	}
	return &user.Claims{UserID: resp.UserID, Email: resp.Email}, nil
}
