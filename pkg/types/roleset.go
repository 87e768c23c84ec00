package types

// RoleSet is a container for the single or multiple roles assigned to a
// node. It is never empty: constructing or clearing it with no roles
// normalizes to the pool sentinel.
//
// Membership checks and structural equality are distinct operations:
// Matches/MatchesAll answer "does this set cover the candidate", while
// StructurallyEquals compares the exact ordered role list.
type RoleSet struct {
	roles []Role
}

// NewRoleSet creates a role set from the given roles. An empty argument
// list yields a set holding only the pool sentinel.
func NewRoleSet(roles ...Role) *RoleSet {
	rs := &RoleSet{}
	if len(roles) == 0 {
		rs.roles = []Role{RolePool}
		return rs
	}
	rs.roles = append(rs.roles, roles...)
	return rs
}

// Matches reports whether the given role is present in the set
func (rs *RoleSet) Matches(role Role) bool {
	for _, r := range rs.roles {
		if r == role {
			return true
		}
	}
	return false
}

// MatchesAll reports whether every role in the candidate collection is
// present in the set. An empty candidate is vacuously true.
func (rs *RoleSet) MatchesAll(roles []Role) bool {
	for _, r := range roles {
		if !rs.Matches(r) {
			return false
		}
	}
	return true
}

// StructurallyEquals compares the exact role lists, order-sensitive
func (rs *RoleSet) StructurallyEquals(other *RoleSet) bool {
	if other == nil || len(rs.roles) != len(other.roles) {
		return false
	}
	for i, r := range rs.roles {
		if other.roles[i] != r {
			return false
		}
	}
	return true
}

// Add appends a single role to the set
func (rs *RoleSet) Add(role Role) {
	rs.roles = append(rs.roles, role)
}

// Remove deletes the first occurrence of the given role
func (rs *RoleSet) Remove(role Role) {
	for i, r := range rs.roles {
		if r == role {
			rs.roles = append(rs.roles[:i], rs.roles[i+1:]...)
			return
		}
	}
}

// Extend adds all given roles and deduplicates the result. Extending
// twice with the same input yields the same set as extending once.
func (rs *RoleSet) Extend(roles []Role) {
	seen := make(map[Role]struct{}, len(rs.roles)+len(roles))
	merged := make([]Role, 0, len(rs.roles)+len(roles))
	for _, r := range append(rs.roles, roles...) {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		merged = append(merged, r)
	}
	rs.roles = merged
}

// UpdateRoles drops the pool sentinel, if present, then extends the set
// with the given roles.
func (rs *RoleSet) UpdateRoles(roles []Role) {
	rs.Remove(RolePool)
	rs.Extend(roles)
}

// Clear resets the set back to the pool sentinel
func (rs *RoleSet) Clear() {
	rs.roles = []Role{RolePool}
}

// Roles returns a copy of the role list
func (rs *RoleSet) Roles() []Role {
	out := make([]Role, len(rs.roles))
	copy(out, rs.roles)
	return out
}

// Len returns the number of roles in the set
func (rs *RoleSet) Len() int {
	return len(rs.roles)
}
