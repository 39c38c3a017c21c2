package auth

// Role tags as they appear on staff records and in issued tokens. The
// application is Persian-facing, so the tags themselves are Persian.
const (
	RoleAdmin     = "مدیر"
	RoleSecretary = "منشی"
	RoleNurse     = "پرستار"
	RoleDoctor    = "پزشک"
)

// ValidRoles is the closed set of role tags accepted anywhere in the system.
var ValidRoles = map[string]bool{
	RoleAdmin:     true,
	RoleSecretary: true,
	RoleNurse:     true,
	RoleDoctor:    true,
}
