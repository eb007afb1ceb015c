package authz

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

// accessPolicy is the embedded Rego rule set. Admins may do anything;
// customers are limited to their own claims and notes, claim creation, and
// reading active policies.
const accessPolicy = `package claims.authz

default allow = false

allow if {
	input.actor.role == "admin"
}

allow if {
	input.action == "claim.create"
	input.actor.id != ""
}

allow if {
	input.action == "claim.read"
	input.actor.id != ""
	input.actor.id == input.resource.owner_id
}

allow if {
	input.action == "note.read"
	input.actor.id != ""
	input.actor.id == input.resource.owner_id
}

allow if {
	input.action == "note.write"
	input.actor.id != ""
	input.actor.id == input.resource.owner_id
}

allow if {
	input.action == "policy.read_active"
	input.actor.id != ""
}
`

// OPAEvaluator evaluates the access rule set with the in-process OPA Rego
// engine. The policy is compiled once at construction; Allowed is safe for
// concurrent use.
type OPAEvaluator struct {
	query rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles the embedded access policy and returns an
// evaluator for it.
func NewOPAEvaluator(ctx context.Context) (*OPAEvaluator, error) {
	compiler, err := ast.CompileModules(map[string]string{"access.rego": accessPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile access policy: %w", err)
	}
	query, err := rego.New(
		rego.Query("data.claims.authz.allow"),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare access query: %w", err)
	}
	return &OPAEvaluator{query: query}, nil
}

// Allowed evaluates the rule set for one decision.
func (e *OPAEvaluator) Allowed(ctx context.Context, action Action, actor Actor, resource Resource) (bool, error) {
	input := map[string]interface{}{
		"action": string(action),
		"actor": map[string]interface{}{
			"id":   actor.ID,
			"role": string(actor.Role),
		},
		"resource": map[string]interface{}{
			"owner_id": resource.OwnerUserID,
		},
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("eval access policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	return ok && allowed, nil
}
