package models

// Identity is the verified caller of a request, decoded from a bearer token.
// It is passed explicitly into every operation that needs an authenticated caller.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }
