package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rrens/teamspace/internal/domain"
)

// WorkspaceRepository implements domain.WorkspaceRepository
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

const workspaceColumns = `w.id, w.name, w.description, w.image, w.workspace_type::text, w.created_at, w.updated_at`

// Provision writes a workspace together with its owner membership and
// default project in one transaction
func (r *WorkspaceRepository) Provision(ctx context.Context, p *domain.Provisioning) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		ws := p.Workspace
		query := `
			INSERT INTO workspaces (id, name, description, image, workspace_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5::text::workspace_type, $6, $7)
		`
		if _, err := tx.Exec(ctx, query,
			ws.ID,
			ws.Name,
			ws.Description,
			ws.Image,
			string(ws.Type),
			ws.CreatedAt,
			ws.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}

		if p.Owner != nil {
			if err := insertMember(ctx, tx, p.Owner); err != nil {
				return err
			}
		}

		if p.Project != nil {
			if err := insertProject(ctx, tx, p.Project, p.Statuses); err != nil {
				return err
			}
		}

		return nil
	})
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces w WHERE w.id = $1`
	return r.getOne(ctx, query, id)
}

// GetPersonal retrieves the PERSONAL workspace the user owns
func (r *WorkspaceRepository) GetPersonal(ctx context.Context, userID uuid.UUID) (*domain.Workspace, error) {
	query := `
		SELECT ` + workspaceColumns + `
		FROM workspaces w
		INNER JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1 AND wm.role = 'OWNER' AND w.workspace_type = 'PERSONAL'
		ORDER BY w.created_at ASC
		LIMIT 1
	`
	return r.getOne(ctx, query, userID)
}

func (r *WorkspaceRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Workspace, error) {
	var ws domain.Workspace
	var wsType string
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&ws.ID,
		&ws.Name,
		&ws.Description,
		&ws.Image,
		&wsType,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	ws.Type = domain.WorkspaceType(wsType)
	return &ws, nil
}

// ListByUserID retrieves all workspaces for a user, personal first
func (r *WorkspaceRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	query := `
		SELECT ` + workspaceColumns + `
		FROM workspaces w
		INNER JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
		ORDER BY w.workspace_type ASC, w.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := []domain.Workspace{}
	for rows.Next() {
		var ws domain.Workspace
		var wsType string
		if err := rows.Scan(
			&ws.ID,
			&ws.Name,
			&ws.Description,
			&ws.Image,
			&wsType,
			&ws.CreatedAt,
			&ws.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		ws.Type = domain.WorkspaceType(wsType)
		workspaces = append(workspaces, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workspaces: %w", err)
	}

	return workspaces, nil
}

// Update updates a workspace
func (r *WorkspaceRepository) Update(ctx context.Context, id uuid.UUID, update *domain.WorkspaceUpdate) error {
	query := `
		UPDATE workspaces
		SET name = $2,
		    description = $3,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, update.Name, update.Description)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete deletes a workspace; memberships and projects cascade
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workspaces WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
