package access

import (
	"errors"
	"testing"

	"library_backend/internal/models"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		id       models.Identity
		category Category
		wantErr  error
	}{
		{"admin on admin-only", models.Identity{UserID: "a", Role: models.RoleAdmin}, AdminOnly, nil},
		{"admin on any", models.Identity{UserID: "a", Role: models.RoleAdmin}, AnyAuthenticated, nil},
		{"member on any", models.Identity{UserID: "m", Role: models.RoleMember}, AnyAuthenticated, nil},
		{"member on admin-only", models.Identity{UserID: "m", Role: models.RoleMember}, AdminOnly, models.ErrForbidden},
		{"unknown role", models.Identity{UserID: "x", Role: models.Role("librarian")}, AnyAuthenticated, models.ErrInvalidToken},
		{"empty role", models.Identity{UserID: "x"}, AdminOnly, models.ErrInvalidToken},
		{"no subject", models.Identity{Role: models.RoleAdmin}, AnyAuthenticated, models.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.id, tt.category)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCanActFor(t *testing.T) {
	owner := models.Identity{UserID: "u1", Role: models.RoleMember}
	other := models.Identity{UserID: "u2", Role: models.RoleMember}
	admin := models.Identity{UserID: "root", Role: models.RoleAdmin}

	if err := CanActFor(owner, "u1"); err != nil {
		t.Fatalf("owner should be allowed: %v", err)
	}
	if err := CanActFor(admin, "u1"); err != nil {
		t.Fatalf("admin should be allowed: %v", err)
	}
	if err := CanActFor(other, "u1"); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCategoryString(t *testing.T) {
	if AdminOnly.String() != "admin-only" || AnyAuthenticated.String() != "any-authenticated" {
		t.Fatalf("unexpected names: %s, %s", AdminOnly, AnyAuthenticated)
	}
}
