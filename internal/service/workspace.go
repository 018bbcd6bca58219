package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/teamspace/internal/domain"
	"github.com/Rrens/teamspace/internal/policy"
)

// Defaults of the project every new workspace starts with
const (
	defaultProjectName = "Default Project"
	defaultProjectCode = domain.DefaultProjectCode
)

// WorkspaceService handles workspace lifecycle and the active workspace
type WorkspaceService struct {
	workspaces domain.WorkspaceRepository
	members    domain.MemberRepository
	active     domain.ActiveWorkspaceStore
	policy     AccessPolicy
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaces domain.WorkspaceRepository,
	members domain.MemberRepository,
	active domain.ActiveWorkspaceStore,
	access AccessPolicy,
) *WorkspaceService {
	return &WorkspaceService{
		workspaces: workspaces,
		members:    members,
		active:     active,
		policy:     access,
	}
}

// ProvisionPersonal creates the PERSONAL workspace of a newly registered user
func (s *WorkspaceService) ProvisionPersonal(ctx context.Context, user *domain.User) (*domain.Workspace, error) {
	name := fmt.Sprintf("%s's Workspace", user.FirstName())
	description := fmt.Sprintf("Default workspace for %s", user.Name)
	return s.provision(ctx, user.ID, name, description, user.Name, domain.WorkspaceTypePersonal)
}

// Create creates an ORGANIZATION workspace owned by userID
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	return s.provision(ctx, userID, input.Name, input.Description, input.Name, domain.WorkspaceTypeOrganization)
}

// provision writes the workspace, its ACTIVE owner and the default project
// with its statuses in one transaction. The project is described as the
// default project for projectOwner.
func (s *WorkspaceService) provision(ctx context.Context, userID uuid.UUID, name, description, projectOwner string, wsType domain.WorkspaceType) (*domain.Workspace, error) {
	now := time.Now()
	workspace := &domain.Workspace{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Type:        wsType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	project := &domain.Project{
		ID:          uuid.New(),
		WorkspaceID: workspace.ID,
		Code:        defaultProjectCode,
		Name:        defaultProjectName,
		Description: "Default project for " + projectOwner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	p := &domain.Provisioning{
		Workspace: workspace,
		Owner: &domain.WorkspaceMember{
			ID:          uuid.New(),
			WorkspaceID: workspace.ID,
			UserID:      userID,
			Role:        domain.RoleOwner,
			Status:      domain.StatusActive,
			CreatedAt:   now,
		},
		Project:  project,
		Statuses: domain.DefaultIssueStatuses(project.ID),
	}

	if err := s.workspaces.Provision(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to provision workspace: %w", err)
	}

	log.Info().
		Str("workspace_id", workspace.ID.String()).
		Str("owner_id", userID.String()).
		Str("type", string(wsType)).
		Msg("workspace provisioned")
	return workspace, nil
}

// List retrieves all workspaces the user belongs to
func (s *WorkspaceService) List(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	workspaces, err := s.workspaces.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// GetActive retrieves the workspace the identity is scoped to
func (s *WorkspaceService) GetActive(ctx context.Context, id domain.Identity) (*domain.Workspace, error) {
	workspace, err := s.workspaces.GetByID(ctx, id.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}
	return workspace, nil
}

// Update renames or re-describes the active workspace
func (s *WorkspaceService) Update(ctx context.Context, id domain.Identity, input domain.WorkspaceUpdate) (*domain.Workspace, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.policy.Authorize(ctx, policy.ActionUpdateWorkspace, id.UserID, id.WorkspaceID); err != nil {
		return nil, err
	}

	if err := s.workspaces.Update(ctx, id.WorkspaceID, &input); err != nil {
		return nil, err
	}

	return s.GetActive(ctx, id)
}

// Delete deletes the active workspace and moves the caller back to their
// PERSONAL workspace, which itself cannot be deleted
func (s *WorkspaceService) Delete(ctx context.Context, id domain.Identity) (*domain.Workspace, error) {
	if _, err := s.policy.Authorize(ctx, policy.ActionDeleteWorkspace, id.UserID, id.WorkspaceID); err != nil {
		return nil, err
	}

	workspace, err := s.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if workspace.Type == domain.WorkspaceTypePersonal {
		return nil, domain.NewValidationError("workspace", "personal_workspace")
	}

	if err := s.workspaces.Delete(ctx, workspace.ID); err != nil {
		return nil, err
	}

	log.Info().
		Str("workspace_id", workspace.ID.String()).
		Str("actor_id", id.UserID.String()).
		Msg("workspace deleted")

	return s.resetToPersonal(ctx, id.UserID)
}

// SwitchActive scopes the user's session to workspaceID.
// Only ACTIVE members may switch into a workspace.
func (s *WorkspaceService) SwitchActive(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	member, err := s.members.FindByUser(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil || member.Status != domain.StatusActive {
		return nil, domain.ErrForbidden
	}

	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.active.Set(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	return workspace, nil
}

// ResolveActive returns the workspace the user's session is scoped to.
// A missing or stale entry falls back to the PERSONAL workspace, which is
// then stored.
func (s *WorkspaceService) ResolveActive(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	stored, ok, err := s.active.Get(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("active workspace lookup failed")
	}
	if ok {
		member, err := s.members.FindByUser(ctx, stored, userID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to get member: %w", err)
		}
		if member != nil {
			return stored, nil
		}
	}

	personal, err := s.resetToPersonal(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return personal.ID, nil
}

func (s *WorkspaceService) resetToPersonal(ctx context.Context, userID uuid.UUID) (*domain.Workspace, error) {
	personal, err := s.workspaces.GetPersonal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get personal workspace: %w", err)
	}
	if personal == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.active.Set(ctx, userID, personal.ID); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to store active workspace")
	}
	return personal, nil
}
