// Package access decides which roles may call which routes.
//
// Roles are casbin subjects that inherit capabilities (user.Permission) through
// the g relation; each capability is granted a set of (route pattern, method)
// pairs through p policies.
package access

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Route grants a capability on one method and chi route pattern.
type Route struct {
	Method     string
	Pattern    string
	Permission user.Permission
}

// Gate is safe for concurrent use.
type Gate struct {
	enforcer *casbin.SyncedEnforcer
}

func NewGate(routes []Route, rolePermissions map[user.Role][]user.Permission) (*Gate, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse access model: %w", err)
	}

	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	for _, rt := range routes {
		if _, err := e.AddPolicy(string(rt.Permission), rt.Pattern, rt.Method); err != nil {
			return nil, fmt.Errorf("failed to add policy %s %s: %w", rt.Method, rt.Pattern, err)
		}
	}

	for role, perms := range rolePermissions {
		for _, perm := range perms {
			if _, err := e.AddGroupingPolicy(string(role), string(perm)); err != nil {
				return nil, fmt.Errorf("failed to grant %s to %s: %w", perm, role, err)
			}
		}
	}

	return &Gate{enforcer: e}, nil
}

// Allowed reports whether role may call method on the route pattern.
func (g *Gate) Allowed(role user.Role, pattern, method string) (bool, error) {
	if !role.IsValid() {
		return false, nil
	}
	return g.enforcer.Enforce(string(role), pattern, method)
}

// Covers reports whether any policy mentions the pattern and method.
func (g *Gate) Covers(pattern, method string) (bool, error) {
	policies, err := g.enforcer.GetFilteredPolicy(1, pattern, method)
	if err != nil {
		return false, err
	}
	return len(policies) > 0, nil
}
