package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WorkspaceType distinguishes the per-user workspace from shared ones
type WorkspaceType string

const (
	WorkspaceTypePersonal     WorkspaceType = "PERSONAL"
	WorkspaceTypeOrganization WorkspaceType = "ORGANIZATION"
)

// Workspace represents a tenant workspace
type Workspace struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Image       string        `json:"image,omitempty"`
	Type        WorkspaceType `json:"workspace_type"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// WorkspaceCreate represents workspace creation data
type WorkspaceCreate struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// WorkspaceUpdate represents workspace update data
type WorkspaceUpdate struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// Provisioning is everything written when a workspace comes into existence:
// the workspace, its owner membership and a default project with its statuses.
type Provisioning struct {
	Workspace *Workspace
	Owner     *WorkspaceMember
	Project   *Project
	Statuses  []IssueStatus
}

// WorkspaceRepository defines the interface for workspace storage
type WorkspaceRepository interface {
	Provision(ctx context.Context, p *Provisioning) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	GetPersonal(ctx context.Context, userID uuid.UUID) (*Workspace, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]Workspace, error)
	Update(ctx context.Context, id uuid.UUID, update *WorkspaceUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActiveWorkspaceStore remembers which workspace a user is currently scoped to
type ActiveWorkspaceStore interface {
	Get(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
	Set(ctx context.Context, userID, workspaceID uuid.UUID) error
}
