package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level of a member inside one workspace
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Roles lists every role in display order
var Roles = []Role{RoleOwner, RoleAdmin, RoleMember}

// MemberStatus tracks whether an invitation was accepted
type MemberStatus string

const (
	StatusActive  MemberStatus = "ACTIVE"
	StatusPending MemberStatus = "PENDING"
)

// Statuses lists every membership status in display order
var Statuses = []MemberStatus{StatusActive, StatusPending}

// WorkspaceMember represents workspace membership
type WorkspaceMember struct {
	ID          uuid.UUID    `json:"id"`
	WorkspaceID uuid.UUID    `json:"workspace_id"`
	UserID      uuid.UUID    `json:"user_id"`
	Role        Role         `json:"role"`
	Status      MemberStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// MemberUser is the slice of the user record shown next to a membership
type MemberUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Image string    `json:"image,omitempty"`
}

// Member is a membership joined with its user
type Member struct {
	WorkspaceMember
	User MemberUser `json:"user"`
}

// MemberSortField names a sortable column of the member listing
type MemberSortField string

const (
	SortByCreatedAt MemberSortField = "createdAt"
	SortByRole      MemberSortField = "role"
	SortByStatus    MemberSortField = "status"
	SortByName      MemberSortField = "name"
	SortByEmail     MemberSortField = "email"
)

// OnUser reports whether the field lives on the joined user record
func (f MemberSortField) OnUser() bool {
	return f == SortByName || f == SortByEmail
}

// SortOrder is the direction of a sort
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Listing defaults
const (
	DefaultMemberSortBy    = SortByCreatedAt
	DefaultMemberSortOrder = SortDesc
	DefaultPage            = 1
	DefaultPageLimit       = 10
	MaxPageLimit           = 100
)

// ListMembersRequest is the client-supplied filter of the member listing.
// Page and Limit are pointers so that "absent" can be told apart from zero.
type ListMembersRequest struct {
	Search    string          `json:"search,omitempty" validate:"omitempty,max=255"`
	SortBy    MemberSortField `json:"sort_by,omitempty" validate:"omitempty,oneof=createdAt role status name email"`
	SortOrder SortOrder       `json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc"`
	Status    []MemberStatus  `json:"status,omitempty" validate:"omitempty,dive,oneof=ACTIVE PENDING"`
	Role      []Role          `json:"role,omitempty" validate:"omitempty,dive,oneof=OWNER ADMIN MEMBER"`
	Page      *int            `json:"page,omitempty"`
	Limit     *int            `json:"limit,omitempty"`
}

// MemberFilter is the conjunctive filter applied to a workspace's members.
// Empty Search, Statuses or Roles mean no constraint.
type MemberFilter struct {
	WorkspaceID uuid.UUID
	Search      string
	Statuses    []MemberStatus
	Roles       []Role
}

// MemberQuery is a filtered, sorted page request against the member store
type MemberQuery struct {
	Filter    MemberFilter
	SortBy    MemberSortField
	SortOrder SortOrder
	Skip      int
	Take      int
}

// Pagination describes where a page sits in the full result
type Pagination struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

// NewPagination derives page metadata from the total row count.
// limit must be positive.
func NewPagination(total, page, limit int) Pagination {
	totalPages := (total + limit - 1) / limit
	return Pagination{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// MemberPage is one page of the member listing
type MemberPage struct {
	Data       []Member   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// InviteMemberRequest represents an invitation to join the active workspace
type InviteMemberRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Role  Role   `json:"role" validate:"required,oneof=OWNER ADMIN MEMBER"`
}

// ChangeRoleRequest represents a role change of an existing member
type ChangeRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=OWNER ADMIN MEMBER"`
}

// MemberRepository defines the interface for membership storage.
// Find methods return nil, nil when no row matches.
type MemberRepository interface {
	FindMany(ctx context.Context, q MemberQuery) ([]Member, error)
	Count(ctx context.Context, f MemberFilter) (int, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Member, error)
	FindByID(ctx context.Context, workspaceID, memberID uuid.UUID) (*WorkspaceMember, error)
	FindByUser(ctx context.Context, workspaceID, userID uuid.UUID) (*WorkspaceMember, error)
	Create(ctx context.Context, member *WorkspaceMember) error
	UpdateRole(ctx context.Context, workspaceID, memberID uuid.UUID, role Role) error
	UpdateStatus(ctx context.Context, workspaceID, memberID uuid.UUID, status MemberStatus) error
	Delete(ctx context.Context, workspaceID, memberID uuid.UUID) error
}
