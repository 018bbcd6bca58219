package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rrens/teamspace/internal/domain"
)

// ProjectRepository implements domain.ProjectRepository
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, workspace_id, code, name, description, image, created_at, updated_at`

// Create inserts a project and its workflow statuses in one transaction
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project, statuses []domain.IssueStatus) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		return insertProject(ctx, tx, project, statuses)
	})
}

func insertProject(ctx context.Context, tx pgx.Tx, project *domain.Project, statuses []domain.IssueStatus) error {
	query := `
		INSERT INTO projects (id, workspace_id, code, name, description, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.Exec(ctx, query,
		project.ID,
		project.WorkspaceID,
		project.Code,
		project.Name,
		project.Description,
		project.Image,
		project.CreatedAt,
		project.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	if len(statuses) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range statuses {
		batch.Queue(`
			INSERT INTO issue_statuses (id, project_id, name, icon, is_completed, is_canceled, position)
			VALUES ($1, $2, $3, $4::text::issue_status_icon, $5, $6, $7)
		`, s.ID, s.ProjectID, s.Name, string(s.Icon), s.IsCompleted, s.IsCanceled, s.Position)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to create issue statuses: %w", err)
	}

	return nil
}

// ListByWorkspace returns the projects of a workspace, newest first
func (r *ProjectRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE workspace_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(
			&p.ID,
			&p.WorkspaceID,
			&p.Code,
			&p.Name,
			&p.Description,
			&p.Image,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// GetByID retrieves a project, scoped to the workspace
func (r *ProjectRepository) GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE workspace_id = $1 AND id = $2`

	var p domain.Project
	err := r.db.Pool.QueryRow(ctx, query, workspaceID, id).Scan(
		&p.ID,
		&p.WorkspaceID,
		&p.Code,
		&p.Name,
		&p.Description,
		&p.Image,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &p, nil
}

// Update updates a project. An empty code keeps the current one.
func (r *ProjectRepository) Update(ctx context.Context, workspaceID, id uuid.UUID, update *domain.ProjectUpdate) error {
	query := `
		UPDATE projects
		SET name = $3,
		    code = COALESCE(NULLIF($4, ''), code),
		    description = $5,
		    updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2
	`

	tag, err := r.db.Pool.Exec(ctx, query, workspaceID, id, update.Name, update.Code, update.Description)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete deletes a project and its statuses
func (r *ProjectRepository) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE workspace_id = $1 AND id = $2`

	tag, err := r.db.Pool.Exec(ctx, query, workspaceID, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
