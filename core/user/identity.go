package user

// Identity is the effective identity every scoped read and attributed write
// runs under: the caller's own identity, or the impersonated one when an
// administrator acts as another account. Impersonation is not a privilege
// escalation: writes performed while acting are attributed to the
// impersonated user, never to the administrator.
type Identity struct {
	Role     Role
	UserID   string // scope key; empty = unscoped, platform-wide administrator
	SchoolID string // bursar's institution
}

// Unscoped reports whether the identity sees all records (an administrator
// with no acting override).
func (id Identity) Unscoped() bool {
	return id.Role == RoleAdministrator && id.UserID == ""
}

func (id Identity) IsGuardian() bool { return id.Role == RoleGuardian }

func (id Identity) IsBursar() bool { return id.Role == RoleInstitutionBursar }

// ResolveEffectiveIdentity derives the identity all other components consume.
// Only an administrator may carry an acting override; anyone else's override
// is ignored. A nil override (including an acting user id that could not be
// resolved, e.g. the user was deleted) falls back to the caller's own
// identity, so a stale override never widens visibility beyond what the
// administrator already has.
func ResolveEffectiveIdentity(current User, actingOverride *User) Identity {
	if current.Role == RoleAdministrator {
		if actingOverride != nil {
			return Identity{
				Role:     actingOverride.Role,
				UserID:   actingOverride.ID,
				SchoolID: actingOverride.SchoolID,
			}
		}
		return Identity{Role: RoleAdministrator}
	}
	return Identity{
		Role:     current.Role,
		UserID:   current.ID,
		SchoolID: current.SchoolID,
	}
}
