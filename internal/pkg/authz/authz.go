// Package authz answers role based permission checks with casbin.
//
// Policies are "role:object:action" triples, for example
// "admin:challenge:subscribe" or "admin:*:*". Groupings use the
// "g:member:role" form and let one role inherit another.
package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/samber/lo"
)

const (
	ActionSubscribe = "subscribe"
)

var ErrInvalidPolicy = errors.New("authz: policy must be role:object:action or g:member:role")

//go:embed model.conf
var rbacModel string

type Authorizer struct {
	enforcer *casbin.Enforcer
}

// New builds an enforcer holding only the given policies.
func New(policies []string) (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz: model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: enforcer: %w", err)
	}

	var rules, groups [][]string
	for _, raw := range policies {
		parts := lo.Map(strings.Split(raw, ":"), func(s string, _ int) string { return strings.TrimSpace(s) })
		if len(parts) != 3 || lo.Contains(parts, "") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, raw)
		}
		if parts[0] == "g" {
			groups = append(groups, parts[1:])
			continue
		}
		rules = append(rules, parts)
	}

	if len(rules) > 0 {
		if _, err := e.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("authz: add policies: %w", err)
		}
	}
	if len(groups) > 0 {
		if _, err := e.AddGroupingPolicies(groups); err != nil {
			return nil, fmt.Errorf("authz: add groupings: %w", err)
		}
	}

	return &Authorizer{enforcer: e}, nil
}

// Can reports whether role may perform act on obj.
func (a *Authorizer) Can(role, obj, act string) (bool, error) {
	return a.enforcer.Enforce(role, obj, act)
}

// Allowed filters objs down to those role may perform act on.
func (a *Authorizer) Allowed(role, act string, objs []string) ([]string, error) {
	var firstErr error
	out := lo.Filter(objs, func(obj string, _ int) bool {
		ok, err := a.Can(role, obj, act)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return ok
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
