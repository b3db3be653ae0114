package domain

import "strings"

type Role string

const (
	RoleBaseMember     Role = "BASE_MEMBER"
	RoleModerator      Role = "MODERATOR"
	RoleSuperModerator Role = "SUPER_MODERATOR"
)

// AllRoles lists every role a verified alumni may hold.
var AllRoles = []Role{RoleBaseMember, RoleModerator, RoleSuperModerator}

// StaffRoles may bypass maintenance mode and manage content.
var StaffRoles = []Role{RoleModerator, RoleSuperModerator}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllRoles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

func (r Role) In(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}
