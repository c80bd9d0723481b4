package access

import "strings"

type Role string

const (
	RoleSender Role = "SENDER"
	RoleDriver Role = "DRIVER"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole accepts any casing. Unknown values report false.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleSender, RoleDriver, RoleAdmin:
		return r, true
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller as seen by the policy functions.
type Actor struct {
	UserID      uint
	Role        Role
	IsStaff     bool
	IsSuperuser bool
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.IsStaff || a.IsSuperuser
}
