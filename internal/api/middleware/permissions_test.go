package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"passport/internal/models"

	"github.com/labstack/echo/v4"
)

func newTestContext(t *testing.T, token *models.AuthToken) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/platforms", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if token != nil {
		c.Set("auth", token)
	}
	return c
}

func memberToken() *models.AuthToken {
	return &models.AuthToken{
		Platform: models.TokenPlatform{ID: 1, PlatformName: "passport"},
		Profile:  models.TokenProfile{ID: 42, Email: "ada@example.com"},
		Roles:    []models.TokenRole{{ID: 3, RoleName: "MEMBER"}},
		Permissions: []models.TokenPermission{
			{ID: 7, PermissionName: "platforms:read"},
		},
	}
}

func superToken() *models.AuthToken {
	return &models.AuthToken{
		Profile:     models.TokenProfile{ID: 1, Email: "root@example.com"},
		Roles:       []models.TokenRole{{ID: 1, RoleName: models.SuperUserRoleName}},
		IsSuperUser: true,
	}
}

func passThrough(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequirePermissionsAllowsHeldPermission(t *testing.T) {
	c := newTestContext(t, memberToken())

	err := RequirePermissions("platforms:read")(passThrough)(c)
	if err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
}

func TestRequirePermissionsAnyOfSemantics(t *testing.T) {
	c := newTestContext(t, memberToken())

	// One held permission out of several is enough
	err := RequirePermissions("platforms:delete", "platforms:read")(passThrough)(c)
	if err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
}

func TestRequirePermissionsDeniesMissingPermission(t *testing.T) {
	c := newTestContext(t, memberToken())

	err := RequirePermissions("platforms:delete")(passThrough)(c)
	checkErr, ok := err.(*CheckPermissionError)
	if !ok {
		t.Fatalf("expected CheckPermissionError, got %T", err)
	}
	if checkErr.Status != http.StatusForbidden {
		t.Errorf("expected 403 for verified identity, got %d", checkErr.Status)
	}
}

func TestRequirePermissionsDeniesMissingIdentity(t *testing.T) {
	c := newTestContext(t, nil)

	err := RequirePermissions("platforms:read")(passThrough)(c)
	checkErr, ok := err.(*CheckPermissionError)
	if !ok {
		t.Fatalf("expected CheckPermissionError, got %T", err)
	}
	if checkErr.Status != http.StatusUnauthorized {
		t.Errorf("expected 401 for missing identity, got %d", checkErr.Status)
	}
}

func TestRequirePermissionsSuperUserBypass(t *testing.T) {
	c := newTestContext(t, superToken())

	// Superusers pass even for permissions nobody holds
	err := RequirePermissions("nonexistent:permission")(passThrough)(c)
	if err != nil {
		t.Fatalf("expected superuser bypass, got %v", err)
	}
}

func TestCheckOwner(t *testing.T) {
	token := memberToken()

	if err := CheckOwner(token, "ada@example.com", 0); err != nil {
		t.Errorf("owner by email rejected: %v", err)
	}
	if err := CheckOwner(token, "", 42); err != nil {
		t.Errorf("owner by id rejected: %v", err)
	}
	if err := CheckOwner(superToken(), "someone@example.com", 99); err != nil {
		t.Errorf("superuser rejected: %v", err)
	}

	err := CheckOwner(token, "other@example.com", 99)
	checkErr, ok := err.(*CheckPermissionError)
	if !ok || checkErr.Status != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner, got %v", err)
	}

	err = CheckOwner(nil, "ada@example.com", 42)
	checkErr, ok = err.(*CheckPermissionError)
	if !ok || checkErr.Status != http.StatusUnauthorized {
		t.Errorf("expected 401 for missing token, got %v", err)
	}
}

func TestFilterByAccess(t *testing.T) {
	type record struct {
		OwnerID int64
		Email   string
		Name    string
	}

	items := []record{
		{OwnerID: 42, Email: "ada@example.com", Name: "mine"},
		{OwnerID: 99, Email: "other@example.com", Name: "theirs"},
		{OwnerID: 0, Email: "ada@example.com", Name: "mine-by-email"},
	}
	owner := func(r record) (int64, string) { return r.OwnerID, r.Email }

	visible := FilterByAccess(memberToken(), items, owner)
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible items, got %d", len(visible))
	}
	if visible[0].Name != "mine" || visible[1].Name != "mine-by-email" {
		t.Errorf("unexpected visible set: %+v", visible)
	}

	all := FilterByAccess(superToken(), items, owner)
	if len(all) != len(items) {
		t.Errorf("superuser should see all items, got %d", len(all))
	}

	none := FilterByAccess(nil, items, owner)
	if len(none) != 0 {
		t.Errorf("missing token should see nothing, got %d", len(none))
	}

	// Input order and contents are untouched
	if items[1].Name != "theirs" {
		t.Error("filter mutated its input")
	}
}
