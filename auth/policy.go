package auth

import "errors"

// Authorization denials. Both map to the same forbidden response
// externally; the gate logs which category failed.
var (
	// ErrRoleMismatch indicates none of the required roles are held.
	ErrRoleMismatch = errors.New("auth: required role not held")
	// ErrPolicyMismatch indicates at least one required policy is missing.
	ErrPolicyMismatch = errors.New("auth: required policy not held")
)

// Rule is the declarative requirement attached to a protected route or RPC
// method. A nil/empty set means that constraint category is absent. The
// zero Rule authenticates without authorizing beyond identity: any valid
// token passes.
type Rule struct {
	// Roles is satisfied when the claims hold ANY one of them.
	Roles []string
	// Policies is satisfied only when the claims hold ALL of them.
	Policies []string
}

// RequireRoles builds a rule requiring any one of the given roles.
func RequireRoles(roles ...string) Rule {
	return Rule{Roles: roles}
}

// RequirePolicies builds a rule requiring all of the given policies.
func RequirePolicies(policies ...string) Rule {
	return Rule{Policies: policies}
}

// Evaluate checks claims against the rule. The role check runs first so
// callers can distinguish the deny cause in logs. Both categories must
// hold when both are present.
func (r Rule) Evaluate(claims *Claims) error {
	if len(r.Roles) > 0 {
		matched := false
		for _, required := range r.Roles {
			if claims.HasRole(required) {
				matched = true
				break
			}
		}
		if !matched {
			return ErrRoleMismatch
		}
	}

	for _, required := range r.Policies {
		if !claims.HasPolicy(required) {
			return ErrPolicyMismatch
		}
	}

	return nil
}
