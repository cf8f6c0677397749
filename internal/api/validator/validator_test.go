package validator

import (
	"testing"
)

func TestRoleNameValidation(t *testing.T) {
	v := NewValidator()

	valid := []string{"ADMIN", "SUPERUSER", "BILLING_2", "A"}
	for _, name := range valid {
		req := RoleRequest{Name: name}
		if err := v.Validate(&req); err != nil {
			t.Errorf("expected %q to be a valid role name: %v", name, err)
		}
	}

	invalid := []string{"admin", "Admin", "1ADMIN", "_ADMIN", "AD MIN", ""}
	for _, name := range invalid {
		req := RoleRequest{Name: name}
		if err := v.Validate(&req); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestPermissionNameValidation(t *testing.T) {
	v := NewValidator()

	valid := []string{"platforms:read", "tokens:create", "audit:*", "a:b"}
	for _, name := range valid {
		req := PermissionRequest{Name: name}
		if err := v.Validate(&req); err != nil {
			t.Errorf("expected %q to be a valid permission name: %v", name, err)
		}
	}

	invalid := []string{"platforms", "Platforms:read", "platforms:", ":read", "platforms:Read", ""}
	for _, name := range invalid {
		req := PermissionRequest{Name: name}
		if err := v.Validate(&req); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestAssignmentRequestValidation(t *testing.T) {
	v := NewValidator()

	good := RoleAssignmentRequest{PlatformID: 1, ProfileID: 2, RoleID: 3}
	if err := v.Validate(&good); err != nil {
		t.Errorf("expected valid request: %v", err)
	}

	bad := RoleAssignmentRequest{PlatformID: 0, ProfileID: 2, RoleID: 3}
	if err := v.Validate(&bad); err == nil {
		t.Error("expected non-positive platform id to be rejected")
	}

	errs, ok := v.Validate(&RoleAssignmentRequest{}).(ValidationErrors)
	if !ok {
		t.Fatal("expected ValidationErrors")
	}
	if len(errs) != 3 {
		t.Errorf("expected 3 field errors, got %d", len(errs))
	}
}
