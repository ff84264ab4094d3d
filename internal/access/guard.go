// Package access decides whether a verified identity may perform a class of
// operation. It holds no state; every call is evaluated on its own.
package access

import "library_backend/internal/models"

// Category groups operations by the privilege they require.
type Category int

const (
	AnyAuthenticated Category = iota
	AdminOnly
)

func (c Category) String() string {
	switch c {
	case AnyAuthenticated:
		return "any-authenticated"
	case AdminOnly:
		return "admin-only"
	default:
		return "unknown"
	}
}

// Authorize returns nil when id may perform operations in category c.
// An unrecognized role is treated as a bad token, not a permission failure.
func Authorize(id models.Identity, c Category) error {
	if id.UserID == "" {
		return models.ErrInvalidToken
	}
	switch id.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleMember:
		switch c {
		case AnyAuthenticated:
			return nil
		case AdminOnly:
			return models.ErrForbidden
		default:
			return models.ErrForbidden
		}
	default:
		return models.ErrInvalidToken
	}
}

// CanActFor reports whether id may act on a resource owned by ownerID.
func CanActFor(id models.Identity, ownerID string) error {
	if err := Authorize(id, AnyAuthenticated); err != nil {
		return err
	}
	if id.IsAdmin() || id.UserID == ownerID {
		return nil
	}
	return models.ErrForbidden
}
