package domain

// Role is a staff capability class supplied by the staff service. The
// core consumes roles as precondition inputs and never re-derives them.
type Role string

const (
	// RoleCoordinator permits full lifecycle and scheduling edits.
	RoleCoordinator Role = "coordinator"
	// RoleClerk is a back-office role; clerks may edit post-completion
	// reports but not drive the workflow.
	RoleClerk Role = "clerk"
	// RoleMechanic executes the work; a mechanic may drive
	// execution-phase transitions only on bookings assigned to them.
	RoleMechanic Role = "mechanic"
)

// RolesFromStrings converts role names from an external source, dropping
// anything this service does not know about.
func RolesFromStrings(names []string) []Role {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		switch Role(name) {
		case RoleCoordinator, RoleClerk, RoleMechanic:
			roles = append(roles, Role(name))
		}
	}
	return roles
}

// HasRole reports whether roles contains r.
func HasRole(roles []Role, r Role) bool {
	for _, have := range roles {
		if have == r {
			return true
		}
	}
	return false
}
