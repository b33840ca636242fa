package model

import "strings"

// Role is the viewer's dashboard role.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleVendor    Role = "vendor"
	RoleUser      Role = "user"
)

// Roles lists the known roles in display order.
var Roles = []Role{RoleUser, RoleOrganizer, RoleVendor, RoleAdmin}

// ParseRole normalizes a stored role string. Unknown values are returned as
// the empty role.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.Trim(strings.TrimSpace(s), `"'`)))
	for _, known := range Roles {
		if r == known {
			return r
		}
	}
	return ""
}
