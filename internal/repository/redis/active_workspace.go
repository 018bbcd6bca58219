package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	activeWorkspacePrefix = "active_workspace:"
	activeWorkspaceTTL    = 30 * 24 * time.Hour
)

// ActiveWorkspaceStore implements domain.ActiveWorkspaceStore in Redis
type ActiveWorkspaceStore struct {
	client *Client
}

// NewActiveWorkspaceStore creates a new active workspace store
func NewActiveWorkspaceStore(client *Client) *ActiveWorkspaceStore {
	return &ActiveWorkspaceStore{client: client}
}

func activeWorkspaceKey(userID uuid.UUID) string {
	return activeWorkspacePrefix + userID.String()
}

// Get returns the stored workspace of the user; ok is false when none is set
func (s *ActiveWorkspaceStore) Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	val, err := s.client.rdb.Get(ctx, activeWorkspaceKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("failed to get active workspace: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		// corrupt value: treat as unset
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// Set stores the workspace the user is scoped to
func (s *ActiveWorkspaceStore) Set(ctx context.Context, userID, workspaceID uuid.UUID) error {
	if err := s.client.rdb.Set(ctx, activeWorkspaceKey(userID), workspaceID.String(), activeWorkspaceTTL).Err(); err != nil {
		return fmt.Errorf("failed to set active workspace: %w", err)
	}
	return nil
}
