package domain

import "github.com/google/uuid"

// Identity is the authenticated principal of a request and the workspace
// its session is scoped to. It is resolved by the transport and passed into
// every service call; nothing in the core reads it from ambient state.
type Identity struct {
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
}
