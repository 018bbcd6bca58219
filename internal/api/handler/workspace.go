package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Rrens/teamspace/internal/api/middleware"
	"github.com/Rrens/teamspace/internal/api/response"
	"github.com/Rrens/teamspace/internal/domain"
)

// WorkspaceHandler handles workspace endpoints
type WorkspaceHandler struct {
	workspaceService WorkspaceService
	memberService    MemberService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService WorkspaceService, memberService MemberService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		memberService:    memberService,
	}
}

// Create handles workspace creation
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(w, r)
	if !ok {
		return
	}

	var input domain.WorkspaceCreate
	if !decodeJSON(w, r, &input) {
		return
	}

	workspace, err := h.workspaceService.Create(r.Context(), userID, input)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.Created(w, workspace)
}

// List handles listing the caller's workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(w, r)
	if !ok {
		return
	}

	workspaces, err := h.workspaceService.List(r.Context(), userID)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, workspaces)
}

// GetActive returns the workspace the caller is acting in
func (h *WorkspaceHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	workspace, err := h.workspaceService.GetActive(r.Context(), id)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Update handles renaming the active workspace
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var input domain.WorkspaceUpdate
	if !decodeJSON(w, r, &input) {
		return
	}

	workspace, err := h.workspaceService.Update(r.Context(), id, input)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Delete removes the active workspace and returns the one the caller falls back to
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	personal, err := h.workspaceService.Delete(r.Context(), id)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, personal)
}

// Switch changes the caller's active workspace
func (h *WorkspaceHandler) Switch(w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(w, r)
	if !ok {
		return
	}

	var input struct {
		WorkspaceID string `json:"workspace_id"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	workspaceID, err := uuid.Parse(input.WorkspaceID)
	if err != nil {
		response.Validation(w, domain.NewValidationError("workspace_id", "invalid"))
		return
	}

	workspace, err := h.workspaceService.SwitchActive(r.Context(), userID, workspaceID)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, workspace)
}

// Accept turns the caller's pending invitation to the URL's workspace into an active membership
func (h *WorkspaceHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := authUserID(w, r)
	if !ok {
		return
	}

	workspaceID, ok := middleware.GetWorkspaceID(r.Context())
	if !ok {
		response.BadRequest(w, "missing workspace ID")
		return
	}

	member, err := h.memberService.AcceptInvitation(r.Context(), userID, workspaceID)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, member)
}
