package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/teamspace/internal/domain"
)

// fakeMembers implements MembershipGetter for tests.
type fakeMembers struct {
	rows  map[uuid.UUID]*domain.WorkspaceMember
	err   error
	calls int
}

func (f *fakeMembers) FindByUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.rows[userID]
	if !ok || m.WorkspaceID != workspaceID {
		return nil, nil
	}
	return m, nil
}

func newFixture(t *testing.T) (*Evaluator, *fakeMembers, uuid.UUID) {
	t.Helper()
	members := &fakeMembers{rows: map[uuid.UUID]*domain.WorkspaceMember{}}
	e, err := NewEvaluator(context.Background(), members)
	require.NoError(t, err)
	return e, members, uuid.New()
}

func (f *fakeMembers) add(workspaceID uuid.UUID, role domain.Role, status domain.MemberStatus) uuid.UUID {
	userID := uuid.New()
	f.rows[userID] = &domain.WorkspaceMember{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		Status:      status,
	}
	return userID
}

func TestEvaluator_HealthCheck(t *testing.T) {
	e, _, _ := newFixture(t)
	assert.NoError(t, e.HealthCheck(context.Background()))
}

func TestEvaluator_ManageMembers(t *testing.T) {
	e, members, ws := newFixture(t)
	ctx := context.Background()

	owner := members.add(ws, domain.RoleOwner, domain.StatusActive)
	admin := members.add(ws, domain.RoleAdmin, domain.StatusActive)
	pendingAdmin := members.add(ws, domain.RoleAdmin, domain.StatusPending)
	member := members.add(ws, domain.RoleMember, domain.StatusActive)

	for _, userID := range []uuid.UUID{owner, admin, pendingAdmin} {
		actor, err := e.Authorize(ctx, ActionManageMembers, userID, ws)
		require.NoError(t, err)
		assert.Equal(t, userID, actor.UserID)
	}

	_, err := e.Authorize(ctx, ActionManageMembers, member, ws)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.Authorize(ctx, ActionManageMembers, uuid.New(), ws)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// membership in another workspace grants nothing here
	_, err = e.Authorize(ctx, ActionManageMembers, owner, uuid.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEvaluator_RereadsRoleEveryCall(t *testing.T) {
	e, members, ws := newFixture(t)
	ctx := context.Background()

	admin := members.add(ws, domain.RoleAdmin, domain.StatusActive)
	_, err := e.Authorize(ctx, ActionManageMembers, admin, ws)
	require.NoError(t, err)

	members.rows[admin].Role = domain.RoleMember
	_, err = e.Authorize(ctx, ActionManageMembers, admin, ws)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 2, members.calls)
}

func TestEvaluator_DeleteWorkspaceRequiresOwner(t *testing.T) {
	e, members, ws := newFixture(t)
	ctx := context.Background()

	owner := members.add(ws, domain.RoleOwner, domain.StatusActive)
	admin := members.add(ws, domain.RoleAdmin, domain.StatusActive)

	_, err := e.Authorize(ctx, ActionDeleteWorkspace, owner, ws)
	assert.NoError(t, err)

	_, err = e.Authorize(ctx, ActionDeleteWorkspace, admin, ws)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.Authorize(ctx, ActionUpdateWorkspace, admin, ws)
	assert.NoError(t, err)

	_, err = e.Authorize(ctx, Action("workspace.unknown"), owner, ws)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEvaluator_AuthorizeTarget(t *testing.T) {
	e, _, _ := newFixture(t)
	ctx := context.Background()

	err := e.AuthorizeTarget(ctx, ActionManageMembers, &domain.WorkspaceMember{Role: domain.RoleOwner})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleMember} {
		err := e.AuthorizeTarget(ctx, ActionManageMembers, &domain.WorkspaceMember{Role: role})
		assert.NoError(t, err, "role %s", role)
	}
}

func TestEvaluator_StoreError(t *testing.T) {
	e, members, ws := newFixture(t)
	members.err = errors.New("connection reset")

	_, err := e.Authorize(context.Background(), ActionManageMembers, uuid.New(), ws)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrForbidden)
}
