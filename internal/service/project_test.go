package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/teamspace/internal/domain"
	"github.com/Rrens/teamspace/internal/policy"
)

func newProjectFixture(t *testing.T) (*ProjectService, *memMembers, *MockProjectRepository) {
	t.Helper()
	store := newMemMembers()
	evaluator, err := policy.NewEvaluator(context.Background(), store)
	require.NoError(t, err)
	projects := new(MockProjectRepository)
	return NewProjectService(projects, evaluator), store, projects
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	svc, store, projects := newProjectFixture(t)
	ws := uuid.New()
	admin := store.seed(ws, "Ann", "ann@example.com", domain.RoleAdmin, domain.StatusActive)
	id := domain.Identity{UserID: admin.UserID, WorkspaceID: ws}

	projects.On("Create", ctx, mock.AnythingOfType("*domain.Project"), mock.MatchedBy(func(s []domain.IssueStatus) bool {
		return len(s) == 5
	})).Return(nil)

	tests := []struct {
		input domain.ProjectCreate
		code  string
	}{
		{domain.ProjectCreate{Name: "Mobile App", Code: "mob"}, "MOB"},
		{domain.ProjectCreate{Name: "Backend"}, "BACK"},
		{domain.ProjectCreate{Name: "42 ok"}, "OK"},
		{domain.ProjectCreate{Name: "2024"}, "PROJ"},
	}
	for _, tt := range tests {
		p, err := svc.Create(ctx, id, tt.input)
		require.NoError(t, err, tt.input.Name)
		assert.Equal(t, tt.code, p.Code, tt.input.Name)
		assert.Equal(t, ws, p.WorkspaceID)
	}

	_, err := svc.Create(ctx, id, domain.ProjectCreate{Name: "x"})
	assert.True(t, domain.IsValidation(err))
}

func TestProjectService_MembersCannotWrite(t *testing.T) {
	ctx := context.Background()
	svc, store, projects := newProjectFixture(t)
	ws := uuid.New()
	member := store.seed(ws, "Mo", "mo@example.com", domain.RoleMember, domain.StatusActive)
	id := domain.Identity{UserID: member.UserID, WorkspaceID: ws}

	_, err := svc.Create(ctx, id, domain.ProjectCreate{Name: "Backend"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(ctx, id, uuid.New(), domain.ProjectUpdate{Name: "Backend"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, id, uuid.New()), domain.ErrForbidden)

	projects.On("ListByWorkspace", ctx, ws).Return([]domain.Project{{ID: uuid.New(), WorkspaceID: ws}}, nil)
	list, err := svc.List(ctx, id)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_GetIsScopedToWorkspace(t *testing.T) {
	ctx := context.Background()
	svc, _, projects := newProjectFixture(t)
	id := domain.Identity{UserID: uuid.New(), WorkspaceID: uuid.New()}
	projectID := uuid.New()

	projects.On("GetByID", ctx, id.WorkspaceID, projectID).Return(nil, nil)

	_, err := svc.Get(ctx, id, projectID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	svc, store, projects := newProjectFixture(t)
	ws := uuid.New()
	owner := store.seed(ws, "Ann", "ann@example.com", domain.RoleOwner, domain.StatusActive)
	id := domain.Identity{UserID: owner.UserID, WorkspaceID: ws}
	projectID := uuid.New()

	projects.On("Update", ctx, ws, projectID, &domain.ProjectUpdate{Name: "Renamed", Code: "REN"}).Return(nil)
	projects.On("GetByID", ctx, ws, projectID).Return(&domain.Project{ID: projectID, Name: "Renamed", Code: "REN"}, nil)

	p, err := svc.Update(ctx, id, projectID, domain.ProjectUpdate{Name: " Renamed ", Code: "ren"})
	require.NoError(t, err)
	assert.Equal(t, "REN", p.Code)
	projects.AssertExpectations(t)
}
