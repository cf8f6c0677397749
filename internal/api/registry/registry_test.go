package registry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"passport/internal/api/middleware"
	"passport/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, _, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
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

	return db
}

func newTestServer(t *testing.T, token *models.AuthToken) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if checkErr, ok := err.(*middleware.CheckPermissionError); ok {
			_ = c.JSON(checkErr.Status, map[string]string{"error": checkErr.Reason})
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}

	g := e.Group("/api/v1")
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token != nil {
				c.Set("auth", token)
			}
			return next(c)
		}
	})
	RegisterCRUDRoutes(g, newMockDB(t))

	return e
}

func creatorToken() *models.AuthToken {
	return &models.AuthToken{
		Platform: models.TokenPlatform{ID: 1, PlatformName: "passport"},
		Profile:  models.TokenProfile{ID: 42, Email: "ada@example.com"},
		Roles:    []models.TokenRole{{ID: 3, RoleName: "EDITOR"}},
		Permissions: []models.TokenPermission{
			{ID: 7, PermissionName: "platforms:create"},
		},
	}
}

func TestWriteRoutesRequireMatchingVerbPermission(t *testing.T) {
	e := newTestServer(t, creatorToken())

	// Holding platforms:create must not admit the other write verbs
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/api/v1/platforms/1"},
		{http.MethodDelete, "/api/v1/platforms/1"},
		{http.MethodGet, "/api/v1/platforms"},
		{http.MethodPost, "/api/v1/roles"},
		{http.MethodDelete, "/api/v1/permissions/1"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestCreatePermissionAdmitsCreateRoute(t *testing.T) {
	e := newTestServer(t, creatorToken())

	// An unparseable body proves the guard admitted the request: the
	// failure comes from binding, not authorization
	req := httptest.NewRequest(http.MethodPost, "/api/v1/platforms", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 from body binding, got %d", rec.Code)
	}
}

func TestUnidentifiedRequestGetsUnauthorized(t *testing.T) {
	e := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/platforms", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without identity, got %d", rec.Code)
	}
}
