package client

// Canonical role names shared with the migration normalizer.
const (
	RoleStudent       = "student"
	RoleTeacher       = "teacher"
	RoleDirector      = "director"
	RoleAdministrator = "administrator"
)

// roleLevels maps canonical role names to their authorization tier.
// A higher level grants everything a lower one does.
var roleLevels = map[string]int{
	RoleStudent:       10,
	RoleTeacher:       30,
	RoleDirector:      50,
	RoleAdministrator: 90,
}

// RoleLevel returns the numeric tier for a canonical role name, or 0 when
// the role is unknown.
func RoleLevel(name string) int {
	return roleLevels[name]
}

// MaxRoleLevel returns the highest tier among the given roles.
func MaxRoleLevel(roles []string) int {
	max := 0
	for _, role := range roles {
		if level := RoleLevel(role); level > max {
			max = level
		}
	}
	return max
}
