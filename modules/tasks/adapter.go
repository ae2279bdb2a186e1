package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Adapter gives other modules access to the task services they need
// through the service container: purging on account deletion and
// per-user stats for the admin views.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// PurgeUser removes every task of one user.
func (a *Adapter) PurgeUser(ctx context.Context, userID string) error {
	req := PurgeUserRequest{UserID: userID}
	var resp PurgeUserResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "purge-user",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return fmt.Errorf("purge-user request failed: %w", err)
	}
	return nil
}

// UserStats returns per-status task counts for one user.
func (a *Adapter) UserStats(ctx context.Context, userID string) (StatusStats, error) {
	req := StatsRequest{UserID: userID}
	var resp StatsResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "stats",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return StatusStats{}, fmt.Errorf("stats request failed: %w", err)
	}
	return resp.Stats, nil
}
