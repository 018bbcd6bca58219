package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Rrens/teamspace/internal/domain"
	"github.com/Rrens/teamspace/internal/mail"
	"github.com/Rrens/teamspace/internal/policy"
)

// AccessPolicy decides whether a member may perform an action in a workspace
type AccessPolicy interface {
	Authorize(ctx context.Context, action policy.Action, actingUserID, workspaceID uuid.UUID) (*domain.WorkspaceMember, error)
	AuthorizeTarget(ctx context.Context, action policy.Action, target *domain.WorkspaceMember) error
}

// MemberService lists and mutates the membership of the active workspace
type MemberService struct {
	members      domain.MemberRepository
	users        domain.UserRepository
	workspaces   domain.WorkspaceRepository
	active       domain.ActiveWorkspaceStore
	policy       AccessPolicy
	mailer       mail.Sender
	defaultLimit int
	appURL       string
}

// NewMemberService creates a new member service
func NewMemberService(
	members domain.MemberRepository,
	users domain.UserRepository,
	workspaces domain.WorkspaceRepository,
	active domain.ActiveWorkspaceStore,
	access AccessPolicy,
	mailer mail.Sender,
	defaultLimit int,
	appURL string,
) *MemberService {
	if defaultLimit < 1 || defaultLimit > domain.MaxPageLimit {
		defaultLimit = domain.DefaultPageLimit
	}
	return &MemberService{
		members:      members,
		users:        users,
		workspaces:   workspaces,
		active:       active,
		policy:       access,
		mailer:       mailer,
		defaultLimit: defaultLimit,
		appURL:       strings.TrimRight(appURL, "/"),
	}
}

// List returns one page of the active workspace's members.
// The page fetch and the total count run concurrently.
func (s *MemberService) List(ctx context.Context, id domain.Identity, req domain.ListMembersRequest) (*domain.MemberPage, error) {
	q, page, err := s.buildQuery(id.WorkspaceID, req)
	if err != nil {
		return nil, err
	}

	var (
		members []domain.Member
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.members.FindMany(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.members.Count(gctx, q.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	if members == nil {
		members = []domain.Member{}
	}

	return &domain.MemberPage{
		Data:       members,
		Pagination: domain.NewPagination(total, page, q.Take),
	}, nil
}

// buildQuery validates the request and applies defaults. Out of range
// page or limit values are rejected rather than clamped.
func (s *MemberService) buildQuery(workspaceID uuid.UUID, req domain.ListMembersRequest) (domain.MemberQuery, int, error) {
	if err := validateStruct(req); err != nil {
		return domain.MemberQuery{}, 0, err
	}

	page := domain.DefaultPage
	if req.Page != nil {
		if *req.Page < 1 {
			return domain.MemberQuery{}, 0, domain.NewValidationError("page", "must_be_positive")
		}
		page = *req.Page
	}

	limit := s.defaultLimit
	if req.Limit != nil {
		if *req.Limit < 1 || *req.Limit > domain.MaxPageLimit {
			return domain.MemberQuery{}, 0, domain.NewValidationError("limit", fmt.Sprintf("must_be_between:1,%d", domain.MaxPageLimit))
		}
		limit = *req.Limit
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = domain.DefaultMemberSortBy
	}
	sortOrder := req.SortOrder
	if sortOrder == "" {
		sortOrder = domain.DefaultMemberSortOrder
	}

	// a page past the addressable range is simply past the end
	skip := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		skip = (page - 1) * limit
	}

	return domain.MemberQuery{
		Filter: domain.MemberFilter{
			WorkspaceID: workspaceID,
			Search:      strings.TrimSpace(req.Search),
			Statuses:    req.Status,
			Roles:       req.Role,
		},
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Skip:      skip,
		Take:      limit,
	}, page, nil
}

// SelectMembers returns every member of the active workspace, oldest first
func (s *MemberService) SelectMembers(ctx context.Context, id domain.Identity) ([]domain.Member, error) {
	members, err := s.members.ListByWorkspace(ctx, id.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// authorizeTarget runs the actor check, loads the target inside the active
// workspace and rejects protected targets
func (s *MemberService) authorizeTarget(ctx context.Context, id domain.Identity, memberID uuid.UUID) (*domain.WorkspaceMember, error) {
	if _, err := s.policy.Authorize(ctx, policy.ActionManageMembers, id.UserID, id.WorkspaceID); err != nil {
		return nil, err
	}

	target, err := s.members.FindByID(ctx, id.WorkspaceID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.policy.AuthorizeTarget(ctx, policy.ActionManageMembers, target); err != nil {
		return nil, err
	}
	return target, nil
}

// RemoveMember deletes a non-owner membership of the active workspace
func (s *MemberService) RemoveMember(ctx context.Context, id domain.Identity, memberID uuid.UUID) error {
	target, err := s.authorizeTarget(ctx, id, memberID)
	if err != nil {
		return err
	}

	if err := s.members.Delete(ctx, id.WorkspaceID, target.ID); err != nil {
		return err
	}

	log.Info().
		Str("workspace_id", id.WorkspaceID.String()).
		Str("member_id", target.ID.String()).
		Str("actor_id", id.UserID.String()).
		Msg("member removed")
	return nil
}

// ChangeMemberRole moves a non-owner member between ADMIN and MEMBER
func (s *MemberService) ChangeMemberRole(ctx context.Context, id domain.Identity, memberID uuid.UUID, req domain.ChangeRoleRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if req.Role == domain.RoleOwner {
		return domain.NewValidationError("role", "owner_not_assignable")
	}

	target, err := s.authorizeTarget(ctx, id, memberID)
	if err != nil {
		return err
	}

	if err := s.members.UpdateRole(ctx, id.WorkspaceID, target.ID, req.Role); err != nil {
		return err
	}

	log.Info().
		Str("workspace_id", id.WorkspaceID.String()).
		Str("member_id", target.ID.String()).
		Str("from", string(target.Role)).
		Str("to", string(req.Role)).
		Msg("member role changed")
	return nil
}

// InviteMember adds an existing user to the active workspace as a PENDING
// member and emails them. A failed email does not undo the invitation.
func (s *MemberService) InviteMember(ctx context.Context, id domain.Identity, req domain.InviteMemberRequest) (*domain.WorkspaceMember, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Role == domain.RoleOwner {
		return nil, domain.NewValidationError("role", "owner_not_assignable")
	}

	if _, err := s.policy.Authorize(ctx, policy.ActionManageMembers, id.UserID, id.WorkspaceID); err != nil {
		return nil, err
	}

	invitee, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if invitee == nil {
		return nil, domain.ErrNotFound
	}

	existing, err := s.members.FindByUser(ctx, id.WorkspaceID, invitee.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	member := &domain.WorkspaceMember{
		ID:          uuid.New(),
		WorkspaceID: id.WorkspaceID,
		UserID:      invitee.ID,
		Role:        req.Role,
		Status:      domain.StatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}

	log.Info().
		Str("workspace_id", id.WorkspaceID.String()).
		Str("member_id", member.ID.String()).
		Str("role", string(member.Role)).
		Msg("member invited")

	s.sendInvitation(ctx, id, invitee, member)
	return member, nil
}

func (s *MemberService) sendInvitation(ctx context.Context, id domain.Identity, invitee *domain.User, member *domain.WorkspaceMember) {
	logger := log.With().
		Str("workspace_id", id.WorkspaceID.String()).
		Str("member_id", member.ID.String()).
		Logger()

	workspace, err := s.workspaces.GetByID(ctx, id.WorkspaceID)
	if err != nil || workspace == nil {
		logger.Warn().Err(err).Msg("invitation email skipped: workspace lookup failed")
		return
	}
	inviterName := "A teammate"
	if inviter, err := s.users.GetByID(ctx, id.UserID); err == nil && inviter != nil {
		inviterName = inviter.Name
	}

	msg, err := mail.InvitationMessage(mail.Invitation{
		To:            invitee.Email,
		InviteeName:   invitee.Name,
		InviterName:   inviterName,
		WorkspaceName: workspace.Name,
		Role:          member.Role.Descriptor().Label,
		AcceptURL:     fmt.Sprintf("%s/workspaces/%s/accept", s.appURL, workspace.ID),
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to render invitation email")
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Error().Err(err).Msg("failed to send invitation email")
	}
}

// AcceptInvitation activates the caller's pending membership in workspaceID
func (s *MemberService) AcceptInvitation(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.WorkspaceMember, error) {
	member, err := s.members.FindByUser(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil || member.Status != domain.StatusPending {
		return nil, domain.ErrNotFound
	}

	if err := s.members.UpdateStatus(ctx, workspaceID, member.ID, domain.StatusActive); err != nil {
		return nil, err
	}
	member.Status = domain.StatusActive

	log.Info().
		Str("workspace_id", workspaceID.String()).
		Str("member_id", member.ID.String()).
		Msg("invitation accepted")
	return member, nil
}

// LeaveWorkspace removes the caller from the active workspace and returns the
// workspace they fall back to
func (s *MemberService) LeaveWorkspace(ctx context.Context, id domain.Identity) (*domain.Workspace, error) {
	workspace, err := s.workspaces.GetByID(ctx, id.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, domain.ErrNotFound
	}
	if workspace.Type == domain.WorkspaceTypePersonal {
		return nil, domain.NewValidationError("workspace", "personal_workspace")
	}

	member, err := s.members.FindByUser(ctx, id.WorkspaceID, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}
	if member.Role == domain.RoleOwner {
		return nil, domain.ErrForbidden
	}

	if err := s.members.Delete(ctx, id.WorkspaceID, member.ID); err != nil {
		return nil, err
	}

	log.Info().
		Str("workspace_id", id.WorkspaceID.String()).
		Str("member_id", member.ID.String()).
		Msg("member left workspace")

	personal, err := s.workspaces.GetPersonal(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get personal workspace: %w", err)
	}
	if personal == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.active.Set(ctx, id.UserID, personal.ID); err != nil {
		log.Warn().Err(err).Str("user_id", id.UserID.String()).Msg("failed to store active workspace")
	}
	return personal, nil
}

// RoleDescriptors returns the display descriptor of every role
func (s *MemberService) RoleDescriptors() []domain.Descriptor {
	return domain.RoleDescriptors()
}

// StatusDescriptors returns the display descriptor of every status
func (s *MemberService) StatusDescriptors() []domain.Descriptor {
	return domain.StatusDescriptors()
}
