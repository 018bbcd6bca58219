package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/teamspace/internal/api/response"
	"github.com/Rrens/teamspace/internal/domain"
)

// ProjectHandler handles project endpoints of the active workspace
type ProjectHandler struct {
	projectService ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List returns the projects of the active workspace
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	projects, err := h.projectService.List(r.Context(), id)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, projects)
}

// Create handles project creation
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var input domain.ProjectCreate
	if !decodeJSON(w, r, &input) {
		return
	}

	project, err := h.projectService.Create(r.Context(), id, input)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.Created(w, project)
}

// Get returns one project
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	projectID, ok := uuidParam(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), id, projectID)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, project)
}

// Update handles project updates
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	projectID, ok := uuidParam(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	var input domain.ProjectUpdate
	if !decodeJSON(w, r, &input) {
		return
	}

	project, err := h.projectService.Update(r.Context(), id, projectID, input)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, project)
}

// Delete handles project deletion
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	projectID, ok := uuidParam(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), id, projectID); err != nil {
		response.ServiceError(w, err)
		return
	}

	response.NoContent(w)
}
