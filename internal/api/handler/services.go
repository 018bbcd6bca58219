package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/Rrens/teamspace/internal/api/middleware"
	"github.com/Rrens/teamspace/internal/api/response"
	"github.com/Rrens/teamspace/internal/domain"
)

// AuthService is the subset of service.AuthService used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, input domain.UserCreate) (*domain.User, error)
	Login(ctx context.Context, input domain.UserLogin) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Me(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// WorkspaceService is the subset of service.WorkspaceService used by WorkspaceHandler
type WorkspaceService interface {
	Create(ctx context.Context, userID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error)
	GetActive(ctx context.Context, id domain.Identity) (*domain.Workspace, error)
	Update(ctx context.Context, id domain.Identity, input domain.WorkspaceUpdate) (*domain.Workspace, error)
	Delete(ctx context.Context, id domain.Identity) (*domain.Workspace, error)
	SwitchActive(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error)
}

// MemberService is the subset of service.MemberService used by MemberHandler
type MemberService interface {
	List(ctx context.Context, id domain.Identity, req domain.ListMembersRequest) (*domain.MemberPage, error)
	SelectMembers(ctx context.Context, id domain.Identity) ([]domain.Member, error)
	RemoveMember(ctx context.Context, id domain.Identity, memberID uuid.UUID) error
	ChangeMemberRole(ctx context.Context, id domain.Identity, memberID uuid.UUID, req domain.ChangeRoleRequest) error
	InviteMember(ctx context.Context, id domain.Identity, req domain.InviteMemberRequest) (*domain.WorkspaceMember, error)
	AcceptInvitation(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.WorkspaceMember, error)
	LeaveWorkspace(ctx context.Context, id domain.Identity) (*domain.Workspace, error)
	RoleDescriptors() []domain.Descriptor
	StatusDescriptors() []domain.Descriptor
}

// ProjectService is the subset of service.ProjectService used by ProjectHandler
type ProjectService interface {
	List(ctx context.Context, id domain.Identity) ([]domain.Project, error)
	Create(ctx context.Context, id domain.Identity, input domain.ProjectCreate) (*domain.Project, error)
	Get(ctx context.Context, id domain.Identity, projectID uuid.UUID) (*domain.Project, error)
	Update(ctx context.Context, id domain.Identity, projectID uuid.UUID, input domain.ProjectUpdate) (*domain.Project, error)
	Delete(ctx context.Context, id domain.Identity, projectID uuid.UUID) error
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return false
	}
	return true
}

// identity returns the caller's Identity or writes a 401
func identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
	}
	return id, ok
}

// authUserID returns the authenticated user or writes a 401
func authUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
	}
	return id, ok
}

// uuidParam parses a UUID path parameter. A malformed id cannot exist, so it is a 404.
func uuidParam(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		response.NotFound(w, "resource not found")
		return uuid.Nil, false
	}
	return id, true
}
