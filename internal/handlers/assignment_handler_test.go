package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"passport/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
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

func newAuthedContext(t *testing.T, token *models.AuthToken) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if token != nil {
		c.Set("auth", token)
	}
	return c, rec
}

func TestListTokensScopesNonSuperUsersInQuery(t *testing.T) {
	db, mock := newMockDB(t)

	// The caller's profile id must be a query predicate, not a filter
	// applied after loading everyone's records
	mock.ExpectQuery(`SELECT .* FROM "auth_transactions" WHERE is_deleted = \$1 AND profile_id = \$2`).
		WithArgs(false, int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id"}))

	token := &models.AuthToken{
		Profile: models.TokenProfile{ID: 42, Email: "ada@example.com"},
	}
	c, rec := newAuthedContext(t, token)

	if err := NewAssignmentHandler(db).ListTokens(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListTokensSuperUserSeesAllRecords(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM "auth_transactions" WHERE is_deleted = \$1 ORDER BY`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id"}).
			AddRow(int64(1), int64(42)).
			AddRow(int64(2), int64(99)))
	mock.ExpectQuery(`SELECT .* FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow(int64(42), "ada@example.com").
			AddRow(int64(99), "grace@example.com"))

	token := &models.AuthToken{
		Profile:     models.TokenProfile{ID: 1, Email: "root@example.com"},
		Roles:       []models.TokenRole{{ID: 1, RoleName: models.SuperUserRoleName}},
		IsSuperUser: true,
	}
	c, rec := newAuthedContext(t, token)

	if err := NewAssignmentHandler(db).ListTokens(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var visible []models.AuthTransaction
	if err := json.Unmarshal(rec.Body.Bytes(), &visible); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(visible) != 2 {
		t.Errorf("expected 2 records, got %d", len(visible))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
