// Package rbac holds the static role to capability table.
package rbac

import (
	"fmt"
	"slices"
)

// Role is a closed enumeration of staff roles.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleMarketing  Role = "MARKETING"
	RoleAnalyst    Role = "ANALYST"
)

// Roles lists every role value; the registry must carry an entry for each.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleMarketing, RoleAnalyst}
}

// ParseRole validates a stored or submitted role name.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if slices.Contains(Roles(), role) {
		return role, nil
	}
	return "", fmt.Errorf("rbac: unknown role %q", value)
}

// Capability names one allowed action.
type Capability string

// Wildcard grants every capability, including ones added later.
const Wildcard Capability = "*"

// Registry maps roles to capabilities. It is immutable once built.
type Registry struct {
	grants   map[Role]map[Capability]struct{}
	wildcard Role
}

// NewRegistry validates table and returns an immutable copy of it.
func NewRegistry(table map[Role][]Capability) (*Registry, error) {
	reg := &Registry{grants: make(map[Role]map[Capability]struct{}, len(table))}
	for role := range table {
		if _, err := ParseRole(string(role)); err != nil {
			return nil, err
		}
	}
	for _, role := range Roles() {
		caps, ok := table[role]
		if !ok {
			return nil, fmt.Errorf("rbac: role %s has no capability entry", role)
		}
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			if c == "" {
				return nil, fmt.Errorf("rbac: role %s lists an empty capability", role)
			}
			set[c] = struct{}{}
		}
		if _, ok := set[Wildcard]; ok {
			if reg.wildcard != "" {
				return nil, fmt.Errorf("rbac: roles %s and %s both hold the wildcard", reg.wildcard, role)
			}
			if len(set) != 1 {
				return nil, fmt.Errorf("rbac: wildcard role %s must not enumerate capabilities", role)
			}
			reg.wildcard = role
		}
		reg.grants[role] = set
	}
	if reg.wildcard == "" {
		return nil, fmt.Errorf("rbac: no role holds the wildcard")
	}
	return reg, nil
}

// MustNewRegistry panics when table is invalid. Intended for process start.
func MustNewRegistry(table map[Role][]Capability) *Registry {
	reg, err := NewRegistry(table)
	if err != nil {
		panic(err)
	}
	return reg
}

// DefaultRegistry builds the registry shipped with this deployment.
func DefaultRegistry() *Registry {
	return MustNewRegistry(DefaultTable())
}

// CapabilitiesFor returns the sorted capabilities of role.
func (r *Registry) CapabilitiesFor(role Role) []Capability {
	set := r.lookup(role)
	caps := make([]Capability, 0, len(set))
	for c := range set {
		caps = append(caps, c)
	}
	slices.Sort(caps)
	return caps
}

// RoleHasCapability reports whether role holds the wildcard or exactly capability.
func (r *Registry) RoleHasCapability(role Role, capability Capability) bool {
	set := r.lookup(role)
	if _, ok := set[Wildcard]; ok {
		return true
	}
	_, ok := set[capability]
	return ok
}

// WildcardRole returns the single role holding every capability.
func (r *Registry) WildcardRole() Role {
	return r.wildcard
}

// Table returns a copy of the role table.
func (r *Registry) Table() map[Role][]Capability {
	out := make(map[Role][]Capability, len(r.grants))
	for role := range r.grants {
		out[role] = r.CapabilitiesFor(role)
	}
	return out
}

func (r *Registry) lookup(role Role) map[Capability]struct{} {
	set, ok := r.grants[role]
	if !ok {
		panic(fmt.Sprintf("rbac: no capability entry for role %q", role))
	}
	return set
}
