package services

import (
	"context"
	"testing"

	"passport/internal/models"
	"passport/internal/utils"
	"passport/internal/utils/crypto"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func init() {
	if err := crypto.InitializeKey("test-signing-secret"); err != nil {
		panic(err)
	}
}

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

func TestIssueSignsResolvedSnapshot(t *testing.T) {
	db, mock := newMockDB(t)

	platform := &models.Platform{Name: "passport"}
	platform.ID = 1
	profile := &models.Profile{Email: "ada@example.com"}
	profile.ID = 42

	mock.ExpectQuery("SELECT DISTINCT ppr.role_id").
		WithArgs(int64(1), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name", "permission_id", "permission_name"}).
			AddRow(int64(2), "ADMIN", int64(7), "platforms:read"))
	mock.ExpectQuery(`INSERT INTO "auth_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	issuer := NewTokenIssuer(db)
	credentials, err := issuer.Issue(context.Background(), profile, platform, RequestMeta{
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if credentials.AccessToken == "" || credentials.RefreshToken == "" {
		t.Fatal("expected both tokens to be signed")
	}
	if credentials.AccessToken == credentials.RefreshToken {
		t.Error("access and refresh tokens must differ")
	}
	if !credentials.Auth.HasPermission("platforms:read") {
		t.Errorf("snapshot missing resolved permission: %+v", credentials.Auth)
	}

	// The signed access token must verify and carry the same snapshot
	claims, err := utils.ParseAuthToken(credentials.AccessToken)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Auth.Profile.Email != "ada@example.com" {
		t.Errorf("unexpected embedded profile: %+v", claims.Auth.Profile)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestIssueWithNoAssignments(t *testing.T) {
	db, mock := newMockDB(t)

	platform := &models.Platform{Name: "passport"}
	platform.ID = 1
	profile := &models.Profile{Email: "new@example.com"}
	profile.ID = 7

	mock.ExpectQuery("SELECT DISTINCT ppr.role_id").
		WithArgs(int64(1), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "role_name", "permission_id", "permission_name"}))
	mock.ExpectQuery(`INSERT INTO "auth_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(6)))

	issuer := NewTokenIssuer(db)
	credentials, err := issuer.Issue(context.Background(), profile, platform, RequestMeta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A profile with no assignments still gets a valid, empty snapshot
	if len(credentials.Auth.Roles) != 0 || len(credentials.Auth.Permissions) != 0 {
		t.Errorf("expected empty snapshot, got %+v", credentials.Auth)
	}
	if credentials.Auth.IsSuperUser {
		t.Error("empty snapshot must not be superuser")
	}
}

func TestRevokeAllReportsCount(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE "auth_transactions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	issuer := NewTokenIssuer(db)
	revoked, err := issuer.RevokeAll(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked != 3 {
		t.Errorf("expected 3 revoked rows, got %d", revoked)
	}
}
