// ownership.go

package middleware

// Resource ownership rules shared by the order-scoped services.
//
// Reads: a client sees only resources whose owning-client id is its
// own; admin-class identities see everything.
//
// Mutations: an admin may only mutate a resource whose assignment
// field is unset or already its own id — first-touch assignment, not
// exclusive locking. super_admin bypasses both rules. Denials must
// surface as RESOURCE_ACCESS_DENIED without revealing whether the
// resource exists.

// AdminClassRole reports whether a role string carries admin-level
// access.
func AdminClassRole(role string) bool {
	return role == "admin" || role == "super_admin"
}

func CanViewResource(identity *Identity, ownerID string) bool {
	if identity == nil {
		return false
	}
	if AdminClassRole(identity.Role) {
		return true
	}
	return identity.UserID == ownerID
}

func CanMutateResource(
	identity *Identity,
	ownerID string,
	assignedAdminID *string,
) bool {
	if identity == nil {
		return false
	}

	switch identity.Role {
	case "super_admin":
		return true
	case "admin":
		return assignedAdminID == nil || *assignedAdminID == identity.UserID
	default:
		return identity.UserID == ownerID
	}
}
