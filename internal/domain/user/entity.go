package user

type Role string

const (
	RoleOwner    Role = "owner"    // full access, may seal payroll
	RoleManager  Role = "manager"  // day-to-day bookkeeping
	RoleEmployee Role = "employee" // read-only
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Principal is the authenticated caller as carried by the access token.
type Principal struct {
	UserID  string
	Role    Role
	IsAdmin bool
}

// CanSeal reports whether the caller may freeze a payroll period. Owners and
// administrators may.
func (p Principal) CanSeal() bool {
	return p.IsAdmin || p.Role == RoleOwner
}

// Can reports whether the caller holds permission. Administrators hold all.
func (p Principal) Can(permission Permission) bool {
	return p.IsAdmin || HasPermission(p.Role, permission)
}
