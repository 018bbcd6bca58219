package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Rrens/teamspace/internal/domain"
)

// MemberRepository implements domain.MemberRepository
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `
	wm.id, wm.workspace_id, wm.user_id, wm.role::text, wm.status::text, wm.created_at,
	u.id, u.name, u.email, u.image`

const memberFrom = `
	FROM workspace_members wm
	INNER JOIN users u ON u.id = wm.user_id`

// memberPredicate accumulates WHERE clauses and their positional arguments
type memberPredicate struct {
	clauses []string
	args    []interface{}
}

func (p *memberPredicate) arg(v interface{}) string {
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}

func (p *memberPredicate) where() string {
	return "WHERE " + strings.Join(p.clauses, " AND ")
}

// buildMemberPredicate translates the filter into a conjunction.
// Empty search, statuses or roles add no clause.
func buildMemberPredicate(f domain.MemberFilter) *memberPredicate {
	p := &memberPredicate{}
	p.clauses = append(p.clauses, "wm.workspace_id = "+p.arg(f.WorkspaceID))

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := p.arg("%" + escapeLike(search) + "%")
		p.clauses = append(p.clauses, fmt.Sprintf("(u.name ILIKE %s OR u.email ILIKE %s)", pattern, pattern))
	}

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		p.clauses = append(p.clauses, fmt.Sprintf("wm.status = ANY(%s::text[]::workspace_member_status[])", p.arg(statuses)))
	}

	if len(f.Roles) > 0 {
		roles := make([]string, len(f.Roles))
		for i, r := range f.Roles {
			roles[i] = string(r)
		}
		p.clauses = append(p.clauses, fmt.Sprintf("wm.role = ANY(%s::text[]::workspace_member_role[])", p.arg(roles)))
	}

	return p
}

// escapeLike makes LIKE metacharacters in s match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var memberSortColumns = map[domain.MemberSortField]string{
	domain.SortByCreatedAt: "wm.created_at",
	domain.SortByRole:      "wm.role",
	domain.SortByStatus:    "wm.status",
	domain.SortByName:      "u.name",
	domain.SortByEmail:     "u.email",
}

// buildMemberOrder returns the ORDER BY clause. Unknown fields fall back to
// the listing defaults; wm.id keeps pages stable across equal sort keys.
func buildMemberOrder(by domain.MemberSortField, order domain.SortOrder) string {
	column, ok := memberSortColumns[by]
	if !ok {
		column = memberSortColumns[domain.DefaultMemberSortBy]
	}
	dir := "DESC"
	if order == domain.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, wm.id %s", column, dir, dir)
}

// FindMany returns one page of the filtered, sorted member listing
func (r *MemberRepository) FindMany(ctx context.Context, q domain.MemberQuery) ([]domain.Member, error) {
	p := buildMemberPredicate(q.Filter)
	query := fmt.Sprintf("SELECT %s %s %s %s LIMIT %s OFFSET %s",
		memberColumns,
		memberFrom,
		p.where(),
		buildMemberOrder(q.SortBy, q.SortOrder),
		p.arg(q.Take),
		p.arg(q.Skip),
	)

	rows, err := r.db.Pool.Query(ctx, query, p.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	return scanMembers(rows)
}

// Count returns how many members match the filter, ignoring paging
func (r *MemberRepository) Count(ctx context.Context, f domain.MemberFilter) (int, error) {
	p := buildMemberPredicate(f)
	query := fmt.Sprintf("SELECT COUNT(*) %s %s", memberFrom, p.where())

	var total int
	if err := r.db.Pool.QueryRow(ctx, query, p.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return total, nil
}

// ListByWorkspace returns every member of the workspace, oldest first
func (r *MemberRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Member, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE wm.workspace_id = $1 ORDER BY wm.created_at ASC, wm.id ASC",
		memberColumns, memberFrom)

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	return scanMembers(rows)
}

func scanMembers(rows pgx.Rows) ([]domain.Member, error) {
	members := []domain.Member{}
	for rows.Next() {
		var m domain.Member
		var role, status string
		if err := rows.Scan(
			&m.ID,
			&m.WorkspaceID,
			&m.UserID,
			&role,
			&status,
			&m.CreatedAt,
			&m.User.ID,
			&m.User.Name,
			&m.User.Email,
			&m.User.Image,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = domain.Role(role)
		m.Status = domain.MemberStatus(status)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// FindByID retrieves a membership by its ID, scoped to the workspace
func (r *MemberRepository) FindByID(ctx context.Context, workspaceID, memberID uuid.UUID) (*domain.WorkspaceMember, error) {
	query := `
		SELECT id, workspace_id, user_id, role::text, status::text, created_at
		FROM workspace_members
		WHERE workspace_id = $1 AND id = $2
	`
	return r.findOne(ctx, query, workspaceID, memberID)
}

// FindByUser retrieves the membership of a user in a workspace
func (r *MemberRepository) FindByUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	query := `
		SELECT id, workspace_id, user_id, role::text, status::text, created_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`
	return r.findOne(ctx, query, workspaceID, userID)
}

func (r *MemberRepository) findOne(ctx context.Context, query string, args ...interface{}) (*domain.WorkspaceMember, error) {
	var m domain.WorkspaceMember
	var role, status string
	err := r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&m.ID,
		&m.WorkspaceID,
		&m.UserID,
		&role,
		&status,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	m.Role = domain.Role(role)
	m.Status = domain.MemberStatus(status)
	return &m, nil
}

// Create inserts a membership. A second membership of the same user in the
// workspace yields domain.ErrConflict.
func (r *MemberRepository) Create(ctx context.Context, member *domain.WorkspaceMember) error {
	return insertMember(ctx, r.db.Pool, member)
}

// UpdateRole changes the role of a member
func (r *MemberRepository) UpdateRole(ctx context.Context, workspaceID, memberID uuid.UUID, role domain.Role) error {
	query := `
		UPDATE workspace_members
		SET role = $3::text::workspace_member_role
		WHERE workspace_id = $1 AND id = $2
	`
	return r.execOne(ctx, "update member role", query, workspaceID, memberID, string(role))
}

// UpdateStatus changes the status of a member
func (r *MemberRepository) UpdateStatus(ctx context.Context, workspaceID, memberID uuid.UUID, status domain.MemberStatus) error {
	query := `
		UPDATE workspace_members
		SET status = $3::text::workspace_member_status
		WHERE workspace_id = $1 AND id = $2
	`
	return r.execOne(ctx, "update member status", query, workspaceID, memberID, string(status))
}

// Delete removes a membership
func (r *MemberRepository) Delete(ctx context.Context, workspaceID, memberID uuid.UUID) error {
	query := `DELETE FROM workspace_members WHERE workspace_id = $1 AND id = $2`
	return r.execOne(ctx, "delete member", query, workspaceID, memberID)
}

func (r *MemberRepository) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// execer is satisfied by both the pool and a transaction
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

func insertMember(ctx context.Context, db execer, member *domain.WorkspaceMember) error {
	query := `
		INSERT INTO workspace_members (id, workspace_id, user_id, role, status, created_at)
		VALUES ($1, $2, $3, $4::text::workspace_member_role, $5::text::workspace_member_status, $6)
	`
	_, err := db.Exec(ctx, query,
		member.ID,
		member.WorkspaceID,
		member.UserID,
		string(member.Role),
		string(member.Status),
		member.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "create member")
	}
	return nil
}
