package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the Postgres ENUM 'user_role'
type Role string

const (
	RoleNewbie      Role = "newbie"
	RoleMember      Role = "member"
	RoleContributor Role = "contributor"
	RoleModerator   Role = "moderator"
	RoleAdmin       Role = "admin"
)

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known platform roles.
func (r Role) Valid() bool {
	switch r {
	case RoleNewbie, RoleMember, RoleContributor, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ManagedDiscordRole returns the name of the Discord role the platform owns
// for this local role.
func (r Role) ManagedDiscordRole() string {
	switch r {
	case RoleNewbie:
		return "DC Newbie"
	case RoleMember:
		return "DC Member"
	case RoleContributor:
		return "DC Contributor"
	case RoleModerator:
		return "DC Moderator"
	case RoleAdmin:
		return "DC Admin"
	}
	return ""
}

// ManagedDiscordRoles is the full set of Discord role names the platform
// owns. Role sync removes only names from this set, never externally managed
// roles.
func ManagedDiscordRoles() []string {
	roles := []Role{RoleNewbie, RoleMember, RoleContributor, RoleModerator, RoleAdmin}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.ManagedDiscordRole())
	}
	return names
}

// AtLeast reports whether r carries at least the privileges of min, using the
// newbie < member < contributor < moderator < admin ordering.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleNewbie:
		return 0
	case RoleMember:
		return 1
	case RoleContributor:
		return 2
	case RoleModerator:
		return 3
	case RoleAdmin:
		return 4
	}
	return -1
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }
