package auth

import (
	"testing"

	"quantix-backend/internal/models"
)

func TestResolveSignupRole(t *testing.T) {
	cases := []struct {
		name          string
		requested     models.UserRole
		existingUsers int64
		callerIsAdmin bool
		want          models.UserRole
		wantErr       bool
	}{
		{"first user is admin", "", 0, false, models.RoleAdmin, false},
		{"first user is admin even asking staff", models.RoleStaff, 0, false, models.RoleAdmin, false},
		{"later user defaults to staff", "", 3, false, models.RoleStaff, false},
		{"explicit staff is allowed", models.RoleStaff, 3, false, models.RoleStaff, false},
		{"admin request without admin caller rejected", models.RoleAdmin, 3, false, "", true},
		{"admin request by admin caller honored", models.RoleAdmin, 3, true, models.RoleAdmin, false},
		{"unknown role rejected", models.UserRole("owner"), 3, true, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveSignupRole(tc.requested, tc.existingUsers, tc.callerIsAdmin)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("role = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParseClaimsRoundTrip(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	user := &models.User{ID: 5, Email: "admin@example.com", Role: models.RoleAdmin}

	token, err := GenerateToken(secret, user)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseClaims(secret, token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 5 || claims.Role != models.RoleAdmin {
		t.Errorf("claims = %d/%s, want 5/admin", claims.UserID, claims.Role)
	}

	if _, err := ParseClaims("ffffffffffffffffffffffffffffffff", token); err == nil {
		t.Error("token signed with a different secret should not parse")
	}
}
