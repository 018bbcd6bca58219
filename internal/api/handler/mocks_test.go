package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Rrens/teamspace/internal/domain"
)

type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) List(ctx context.Context, id domain.Identity, req domain.ListMembersRequest) (*domain.MemberPage, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberPage), args.Error(1)
}

func (m *MockMemberService) SelectMembers(ctx context.Context, id domain.Identity) ([]domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberService) RemoveMember(ctx context.Context, id domain.Identity, memberID uuid.UUID) error {
	return m.Called(ctx, id, memberID).Error(0)
}

func (m *MockMemberService) ChangeMemberRole(ctx context.Context, id domain.Identity, memberID uuid.UUID, req domain.ChangeRoleRequest) error {
	return m.Called(ctx, id, memberID, req).Error(0)
}

func (m *MockMemberService) InviteMember(ctx context.Context, id domain.Identity, req domain.InviteMemberRequest) (*domain.WorkspaceMember, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMember), args.Error(1)
}

func (m *MockMemberService) AcceptInvitation(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.WorkspaceMember, error) {
	args := m.Called(ctx, userID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMember), args.Error(1)
}

func (m *MockMemberService) LeaveWorkspace(ctx context.Context, id domain.Identity) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockMemberService) RoleDescriptors() []domain.Descriptor {
	return domain.RoleDescriptors()
}

func (m *MockMemberService) StatusDescriptors() []domain.Descriptor {
	return domain.StatusDescriptors()
}

type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) Create(ctx context.Context, userID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) List(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) GetActive(ctx context.Context, id domain.Identity) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Update(ctx context.Context, id domain.Identity, input domain.WorkspaceUpdate) (*domain.Workspace, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Delete(ctx context.Context, id domain.Identity) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) SwitchActive(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	args := m.Called(ctx, userID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) List(ctx context.Context, id domain.Identity) ([]domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, id domain.Identity, input domain.ProjectCreate) (*domain.Project, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, id domain.Identity, projectID uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, id domain.Identity, projectID uuid.UUID, input domain.ProjectUpdate) (*domain.Project, error) {
	args := m.Called(ctx, id, projectID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, id domain.Identity, projectID uuid.UUID) error {
	return m.Called(ctx, id, projectID).Error(0)
}
