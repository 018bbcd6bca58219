package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rrens/teamspace/internal/domain"
)

// memMembers is an in-memory domain.MemberRepository that interprets
// MemberFilter and MemberQuery the way the Postgres store does
type memMembers struct {
	mu    sync.Mutex
	rows  []domain.WorkspaceMember
	users map[uuid.UUID]domain.MemberUser
	clock time.Time
}

func newMemMembers() *memMembers {
	return &memMembers{
		users: map[uuid.UUID]domain.MemberUser{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// seed adds a user and their membership; each call joins one minute later
func (s *memMembers) seed(workspaceID uuid.UUID, name, email string, role domain.Role, status domain.MemberStatus) domain.WorkspaceMember {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := domain.MemberUser{ID: uuid.New(), Name: name, Email: email}
	s.users[user.ID] = user

	s.clock = s.clock.Add(time.Minute)
	m := domain.WorkspaceMember{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		UserID:      user.ID,
		Role:        role,
		Status:      status,
		CreatedAt:   s.clock,
	}
	s.rows = append(s.rows, m)
	return m
}

func contains[T comparable](set []T, v T) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func (s *memMembers) match(f domain.MemberFilter, m domain.WorkspaceMember) bool {
	if m.WorkspaceID != f.WorkspaceID {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, m.Status) {
		return false
	}
	if len(f.Roles) > 0 && !contains(f.Roles, m.Role) {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		u := s.users[m.UserID]
		if !strings.Contains(strings.ToLower(u.Name), search) && !strings.Contains(strings.ToLower(u.Email), search) {
			return false
		}
	}
	return true
}

func (s *memMembers) join(m domain.WorkspaceMember) domain.Member {
	return domain.Member{WorkspaceMember: m, User: s.users[m.UserID]}
}

var enumRank = map[string]int{"OWNER": 0, "ADMIN": 1, "MEMBER": 2, "ACTIVE": 0, "PENDING": 1}

func (s *memMembers) less(by domain.MemberSortField, a, b domain.Member) int {
	switch by {
	case domain.SortByRole:
		return enumRank[string(a.Role)] - enumRank[string(b.Role)]
	case domain.SortByStatus:
		return enumRank[string(a.Status)] - enumRank[string(b.Status)]
	case domain.SortByName:
		return strings.Compare(a.User.Name, b.User.Name)
	case domain.SortByEmail:
		return strings.Compare(a.User.Email, b.User.Email)
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

func (s *memMembers) FindMany(ctx context.Context, q domain.MemberQuery) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Member
	for _, m := range s.rows {
		if s.match(q.Filter, m) {
			out = append(out, s.join(m))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := s.less(q.SortBy, out[i], out[j])
		if c == 0 {
			c = strings.Compare(out[i].ID.String(), out[j].ID.String())
		}
		if q.SortOrder == domain.SortAsc {
			return c < 0
		}
		return c > 0
	})

	if q.Skip >= len(out) {
		return []domain.Member{}, nil
	}
	out = out[q.Skip:]
	if len(out) > q.Take {
		out = out[:q.Take]
	}
	return out, nil
}

func (s *memMembers) Count(ctx context.Context, f domain.MemberFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, m := range s.rows {
		if s.match(f, m) {
			n++
		}
	}
	return n, nil
}

func (s *memMembers) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Member, error) {
	return s.FindMany(ctx, domain.MemberQuery{
		Filter:    domain.MemberFilter{WorkspaceID: workspaceID},
		SortBy:    domain.SortByCreatedAt,
		SortOrder: domain.SortAsc,
		Take:      math.MaxInt,
	})
}

func (s *memMembers) find(pred func(domain.WorkspaceMember) bool) *domain.WorkspaceMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.rows {
		if pred(m) {
			cp := m
			return &cp
		}
	}
	return nil
}

func (s *memMembers) FindByID(ctx context.Context, workspaceID, memberID uuid.UUID) (*domain.WorkspaceMember, error) {
	return s.find(func(m domain.WorkspaceMember) bool {
		return m.WorkspaceID == workspaceID && m.ID == memberID
	}), nil
}

func (s *memMembers) FindByUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	return s.find(func(m domain.WorkspaceMember) bool {
		return m.WorkspaceID == workspaceID && m.UserID == userID
	}), nil
}

func (s *memMembers) Create(ctx context.Context, member *domain.WorkspaceMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.rows {
		if m.WorkspaceID == member.WorkspaceID && m.UserID == member.UserID {
			return domain.ErrConflict
		}
	}
	s.rows = append(s.rows, *member)
	return nil
}

func (s *memMembers) update(workspaceID, memberID uuid.UUID, fn func(*domain.WorkspaceMember)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].WorkspaceID == workspaceID && s.rows[i].ID == memberID {
			fn(&s.rows[i])
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memMembers) UpdateRole(ctx context.Context, workspaceID, memberID uuid.UUID, role domain.Role) error {
	return s.update(workspaceID, memberID, func(m *domain.WorkspaceMember) { m.Role = role })
}

func (s *memMembers) UpdateStatus(ctx context.Context, workspaceID, memberID uuid.UUID, status domain.MemberStatus) error {
	return s.update(workspaceID, memberID, func(m *domain.WorkspaceMember) { m.Status = status })
}

func (s *memMembers) Delete(ctx context.Context, workspaceID, memberID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.rows {
		if m.WorkspaceID == workspaceID && m.ID == memberID {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
