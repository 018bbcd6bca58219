package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Rrens/teamspace/internal/api/response"
	"github.com/Rrens/teamspace/internal/domain"
)

// MemberHandler handles membership endpoints of the active workspace
type MemberHandler struct {
	memberService MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List returns one page of the filtered member listing.
// status and role may repeat or hold comma separated values.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	req, err := parseListMembersRequest(r.URL.Query())
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	page, err := h.memberService.List(r.Context(), id, req)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, page)
}

func parseListMembersRequest(q url.Values) (domain.ListMembersRequest, error) {
	req := domain.ListMembersRequest{
		Search:    q.Get("search"),
		SortBy:    domain.MemberSortField(q.Get("sort_by")),
		SortOrder: domain.SortOrder(q.Get("sort_order")),
	}

	for _, v := range splitMulti(q["status"]) {
		req.Status = append(req.Status, domain.MemberStatus(v))
	}
	for _, v := range splitMulti(q["role"]) {
		req.Role = append(req.Role, domain.Role(v))
	}

	var err error
	if req.Page, err = intParam(q, "page"); err != nil {
		return req, err
	}
	if req.Limit, err = intParam(q, "limit"); err != nil {
		return req, err
	}
	return req, nil
}

func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// intParam returns nil when the parameter is absent
func intParam(q url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must_be_integer")
	}
	return &n, nil
}

// All returns every member of the active workspace for pickers
func (h *MemberHandler) All(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	members, err := h.memberService.SelectMembers(r.Context(), id)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, members)
}

// Descriptors returns the display tables of roles and statuses
func (h *MemberHandler) Descriptors(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"roles":    h.memberService.RoleDescriptors(),
		"statuses": h.memberService.StatusDescriptors(),
	})
}

// Invite adds a pending member by email
func (h *MemberHandler) Invite(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var input domain.InviteMemberRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	member, err := h.memberService.InviteMember(r.Context(), id, input)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.Created(w, member)
}

// Leave removes the caller from the active workspace
func (h *MemberHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	personal, err := h.memberService.LeaveWorkspace(r.Context(), id)
	if err != nil {
		response.ServiceError(w, err)
		return
	}

	response.OK(w, personal)
}

// Remove deletes another member of the active workspace
func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	memberID, ok := uuidParam(w, chi.URLParam(r, "memberID"))
	if !ok {
		return
	}

	if err := h.memberService.RemoveMember(r.Context(), id, memberID); err != nil {
		response.ServiceError(w, err)
		return
	}

	response.NoContent(w)
}

// ChangeRole sets the role of another member of the active workspace
func (h *MemberHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	memberID, ok := uuidParam(w, chi.URLParam(r, "memberID"))
	if !ok {
		return
	}

	var input domain.ChangeRoleRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.memberService.ChangeMemberRole(r.Context(), id, memberID, input); err != nil {
		response.ServiceError(w, err)
		return
	}

	response.NoContent(w)
}
