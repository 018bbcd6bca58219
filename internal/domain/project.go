package domain

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Project groups issues inside a workspace
type Project struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectCreate represents project creation data
type ProjectCreate struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Code        string `json:"code" validate:"omitempty,max=10"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// ProjectUpdate represents project update data
type ProjectUpdate struct {
	Name        string `json:"name" validate:"required,min=1,max=50"`
	Code        string `json:"code" validate:"omitempty,max=10"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// DefaultProjectCode is used when neither a code nor usable name letters exist
const DefaultProjectCode = "PROJ"

// ProjectCode picks the code of a new project: the given code upper-cased,
// else the first four letters of the name, else DefaultProjectCode.
func ProjectCode(code, name string) string {
	if c := strings.ToUpper(strings.TrimSpace(code)); c != "" {
		return c
	}
	var b strings.Builder
	for _, r := range name {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() == 4 {
			break
		}
	}
	if b.Len() == 0 {
		return DefaultProjectCode
	}
	return b.String()
}

// IssueStatusIcon is the icon key of an issue status column
type IssueStatusIcon string

const (
	IconBacklog    IssueStatusIcon = "BACKLOG"
	IconInProgress IssueStatusIcon = "IN_PROGRESS"
	IconReview     IssueStatusIcon = "REVIEW"
	IconDone       IssueStatusIcon = "DONE"
	IconCanceled   IssueStatusIcon = "CANCELED"
)

// IssueStatus is one workflow column of a project
type IssueStatus struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	Name        string          `json:"name"`
	Icon        IssueStatusIcon `json:"icon"`
	IsCompleted bool            `json:"is_completed"`
	IsCanceled  bool            `json:"is_canceled"`
	Position    int             `json:"position"`
}

// DefaultIssueStatuses returns the workflow every new project starts with
func DefaultIssueStatuses(projectID uuid.UUID) []IssueStatus {
	defs := []struct {
		name      string
		icon      IssueStatusIcon
		completed bool
	}{
		{"Backlog", IconBacklog, false},
		{"To Do", IconBacklog, false},
		{"In Progress", IconInProgress, false},
		{"Testing", IconReview, false},
		{"Done", IconDone, true},
	}

	statuses := make([]IssueStatus, len(defs))
	for i, d := range defs {
		statuses[i] = IssueStatus{
			ID:          uuid.New(),
			ProjectID:   projectID,
			Name:        d.name,
			Icon:        d.icon,
			IsCompleted: d.completed,
			Position:    i,
		}
	}
	return statuses
}

// ProjectRepository defines the interface for project storage.
// Lookups are scoped to a workspace; a project of another workspace is reported as absent.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project, statuses []IssueStatus) error
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Project, error)
	GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*Project, error)
	Update(ctx context.Context, workspaceID, id uuid.UUID, update *ProjectUpdate) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
}
