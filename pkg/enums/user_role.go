package enums

import (
	"fmt"
	"strings"
)

// UserRole is the sole authorization attribute of a staff account.
type UserRole string

const (
	UserRoleSuperAdmin UserRole = "super-admin"
	UserRoleAdmin      UserRole = "admin"
	UserRoleCourier    UserRole = "kurir"
)

var validUserRoles = []UserRole{
	UserRoleSuperAdmin,
	UserRoleAdmin,
	UserRoleCourier,
}

// AdminRoles lists the roles allowed on the admin dashboard.
var AdminRoles = []UserRole{UserRoleAdmin, UserRoleSuperAdmin}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role can use the admin dashboard.
func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin || r == UserRoleSuperAdmin
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	normalized := UserRole(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
