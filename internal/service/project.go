package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/teamspace/internal/domain"
	"github.com/Rrens/teamspace/internal/policy"
)

// ProjectService manages the projects of the active workspace
type ProjectService struct {
	projects domain.ProjectRepository
	policy   AccessPolicy
}

// NewProjectService creates a new project service
func NewProjectService(projects domain.ProjectRepository, access AccessPolicy) *ProjectService {
	return &ProjectService{projects: projects, policy: access}
}

// List returns the projects of the active workspace
func (s *ProjectService) List(ctx context.Context, id domain.Identity) ([]domain.Project, error) {
	projects, err := s.projects.ListByWorkspace(ctx, id.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Create creates a project with the default workflow statuses
func (s *ProjectService) Create(ctx context.Context, id domain.Identity, input domain.ProjectCreate) (*domain.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.policy.Authorize(ctx, policy.ActionWriteProject, id.UserID, id.WorkspaceID); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &domain.Project{
		ID:          uuid.New(),
		WorkspaceID: id.WorkspaceID,
		Code:        domain.ProjectCode(input.Code, input.Name),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projects.Create(ctx, project, domain.DefaultIssueStatuses(project.ID)); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Info().
		Str("workspace_id", id.WorkspaceID.String()).
		Str("project_id", project.ID.String()).
		Str("code", project.Code).
		Msg("project created")
	return project, nil
}

// Get returns a project of the active workspace
func (s *ProjectService) Get(ctx context.Context, id domain.Identity, projectID uuid.UUID) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id.WorkspaceID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	return project, nil
}

// Update updates a project of the active workspace
func (s *ProjectService) Update(ctx context.Context, id domain.Identity, projectID uuid.UUID, input domain.ProjectUpdate) (*domain.Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if _, err := s.policy.Authorize(ctx, policy.ActionWriteProject, id.UserID, id.WorkspaceID); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, id.WorkspaceID, projectID, &input); err != nil {
		return nil, err
	}
	return s.Get(ctx, id, projectID)
}

// Delete deletes a project of the active workspace
func (s *ProjectService) Delete(ctx context.Context, id domain.Identity, projectID uuid.UUID) error {
	if _, err := s.policy.Authorize(ctx, policy.ActionWriteProject, id.UserID, id.WorkspaceID); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, id.WorkspaceID, projectID); err != nil {
		return err
	}

	log.Info().
		Str("workspace_id", id.WorkspaceID.String()).
		Str("project_id", projectID.String()).
		Msg("project deleted")
	return nil
}
