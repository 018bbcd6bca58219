// Package policy decides which workspace mutations a member may perform.
// Decisions come from an embedded Rego module evaluated in-process by OPA.
package policy

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/teamspace/internal/domain"
)

//go:embed membership.rego
var membershipModule string

const (
	allowQuery     = "data.teamspace.membership.allow"
	protectedQuery = "data.teamspace.membership.target_protected"
)

// Action names a privileged operation inside a workspace
type Action string

const (
	ActionManageMembers   Action = "member.manage"
	ActionUpdateWorkspace Action = "workspace.update"
	ActionDeleteWorkspace Action = "workspace.delete"
	ActionWriteProject    Action = "project.write"
)

// MembershipGetter resolves a user's own membership row in a workspace
type MembershipGetter interface {
	FindByUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error)
}

// Evaluator is the access policy for workspace mutations
type Evaluator struct {
	members   MembershipGetter
	allow     rego.PreparedEvalQuery
	protected rego.PreparedEvalQuery
}

// NewEvaluator compiles the embedded policy
func NewEvaluator(ctx context.Context, members MembershipGetter) (*Evaluator, error) {
	allow, err := prepare(ctx, allowQuery)
	if err != nil {
		return nil, err
	}
	protected, err := prepare(ctx, protectedQuery)
	if err != nil {
		return nil, err
	}
	return &Evaluator{members: members, allow: allow, protected: protected}, nil
}

func prepare(ctx context.Context, query string) (rego.PreparedEvalQuery, error) {
	pq, err := rego.New(
		rego.Query(query),
		rego.Module("membership.rego", membershipModule),
	).PrepareForEval(ctx)
	if err != nil {
		return rego.PreparedEvalQuery{}, fmt.Errorf("compile membership policy: %w", err)
	}
	return pq, nil
}

// Authorize re-reads the acting user's membership and evaluates the policy for
// action. The caller's role is never cached: it can change between calls.
// Returns the actor's membership on success and domain.ErrForbidden on denial.
func (e *Evaluator) Authorize(ctx context.Context, action Action, actingUserID, workspaceID uuid.UUID) (*domain.WorkspaceMember, error) {
	actor, err := e.members.FindByUser(ctx, workspaceID, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get acting member: %w", err)
	}
	if actor == nil {
		log.Debug().
			Str("action", string(action)).
			Str("user_id", actingUserID.String()).
			Str("workspace_id", workspaceID.String()).
			Msg("policy denied: not a member")
		return nil, domain.ErrForbidden
	}

	input := map[string]interface{}{
		"action": string(action),
		"actor": map[string]interface{}{
			"role":   string(actor.Role),
			"status": string(actor.Status),
		},
	}
	allowed, err := evalBool(ctx, e.allow, input)
	if err != nil {
		return nil, err
	}
	if !allowed {
		log.Debug().
			Str("action", string(action)).
			Str("user_id", actingUserID.String()).
			Str("role", string(actor.Role)).
			Msg("policy denied: insufficient role")
		return nil, domain.ErrForbidden
	}

	return actor, nil
}

// AuthorizeTarget rejects mutations of protected members. A denial is reported
// as domain.ErrForbidden, same as a role failure.
func (e *Evaluator) AuthorizeTarget(ctx context.Context, action Action, target *domain.WorkspaceMember) error {
	input := map[string]interface{}{
		"action": string(action),
		"target": map[string]interface{}{
			"role":   string(target.Role),
			"status": string(target.Status),
		},
	}
	protected, err := evalBool(ctx, e.protected, input)
	if err != nil {
		return err
	}
	if protected {
		return domain.ErrForbidden
	}
	return nil
}

// HealthCheck verifies the compiled policy evaluates. It does not touch the store.
func (e *Evaluator) HealthCheck(ctx context.Context) error {
	input := map[string]interface{}{
		"action": string(ActionManageMembers),
		"actor":  map[string]interface{}{"role": string(domain.RoleOwner)},
	}
	allowed, err := evalBool(ctx, e.allow, input)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("policy health check: owner was denied")
	}
	return nil
}

func evalBool(ctx context.Context, q rego.PreparedEvalQuery, input map[string]interface{}) (bool, error) {
	rs, err := q.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("evaluate membership policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	v, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("membership policy returned %T, want bool", rs[0].Expressions[0].Value)
	}
	return v, nil
}
