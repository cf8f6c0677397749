package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return db, mock
}

func TestResolveRolePermissions(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"role_id", "role_name", "permission_id", "permission_name"}).
		AddRow(int64(2), "ADMIN", int64(7), "platforms:read").
		AddRow(int64(2), "ADMIN", int64(8), "platforms:update").
		AddRow(int64(3), "MEMBER", int64(7), "platforms:read")

	mock.ExpectQuery("SELECT DISTINCT ppr.role_id").
		WithArgs(int64(1), int64(42)).
		WillReturnRows(rows)

	result, err := ResolveRolePermissions(db, 1, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(result))
	}
	if result[0].RoleName != "ADMIN" || result[0].PermissionName != "platforms:read" {
		t.Errorf("unexpected first row: %+v", result[0])
	}
	if result[2].RoleID != 3 || result[2].PermissionID != 7 {
		t.Errorf("unexpected last row: %+v", result[2])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestResolveRolePermissionsEmpty(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT DISTINCT ppr.role_id").
		WithArgs(int64(1), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name", "permission_id", "permission_name"}))

	result, err := ResolveRolePermissions(db, 1, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(result) != 0 {
		t.Fatalf("expected no rows, got %d", len(result))
	}
}

func TestResolveRolePermissionsExcludesRevokedAssignments(t *testing.T) {
	db, mock := newMockDB(t)

	// The executed SQL must filter revoked rows on both relations. A revoked
	// profile-role edge or role-permission edge never contributes a pair, no
	// matter what the joined tables otherwise hold.
	mock.ExpectQuery(`(?s)prp\.unassigned_date IS NULL.*ppr\.unassigned_date IS NULL`).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name", "permission_id", "permission_name"}))

	if _, err := ResolveRolePermissions(db, 1, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("revocation predicates missing from resolver query: %v", err)
	}
}

func TestResolveRolePermissionsInvalidIDs(t *testing.T) {
	db, mock := newMockDB(t)

	// No query expectations: non-positive ids must short-circuit
	for _, ids := range [][2]int64{{0, 5}, {5, 0}, {-1, 5}, {5, -1}, {0, 0}} {
		result, err := ResolveRolePermissions(db, ids[0], ids[1])
		if err != nil {
			t.Fatalf("unexpected error for ids %v: %v", ids, err)
		}
		if result == nil || len(result) != 0 {
			t.Errorf("expected empty slice for ids %v, got %v", ids, result)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("resolver queried the database for invalid ids: %v", err)
	}
}
