package middleware

import (
	"net/http"

	"passport/internal/models"

	"github.com/labstack/echo/v4"
)

// CheckPermissionError is the single error kind produced by authorization
// checks. Status distinguishes a missing identity (401) from a verified
// identity lacking access (403).
type CheckPermissionError struct {
	Status int
	Reason string
}

func (e *CheckPermissionError) Error() string {
	return e.Reason
}

func ErrNotAuthenticated(reason string) *CheckPermissionError {
	if reason == "" {
		reason = "not authenticated"
	}
	return &CheckPermissionError{Status: http.StatusUnauthorized, Reason: reason}
}

func ErrNotAuthorized(reason string) *CheckPermissionError {
	if reason == "" {
		reason = "insufficient permissions"
	}
	return &CheckPermissionError{Status: http.StatusForbidden, Reason: reason}
}

// RequirePermissions passes when the snapshot holds ANY of the named
// permissions. Superusers bypass the check entirely.
func RequirePermissions(requiredPermissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := GetAuthToken(c)
			if token == nil {
				return ErrNotAuthenticated("")
			}

			if token.IsSuperUser {
				return next(c)
			}

			for _, name := range requiredPermissions {
				if token.HasPermission(name) {
					return next(c)
				}
			}

			return ErrNotAuthorized("")
		}
	}
}

// CheckOwner passes when the snapshot belongs to the given profile, matched
// by id or email. Superusers always pass. Use as the fallback for endpoints
// where a profile manages its own resources.
func CheckOwner(token *models.AuthToken, email string, profileID int64) error {
	if token == nil {
		return ErrNotAuthenticated("")
	}
	if token.IsSuperUser {
		return nil
	}
	if email != "" && token.Profile.Email == email {
		return nil
	}
	if profileID > 0 && token.Profile.ID == profileID {
		return nil
	}
	return ErrNotAuthorized("")
}

// FilterByAccess returns the items the snapshot may see: everything for
// superusers, otherwise only items owned by the snapshot's profile. The
// owner func reports each item's owning profile id and email.
func FilterByAccess[T any](token *models.AuthToken, items []T, owner func(T) (int64, string)) []T {
	if token == nil {
		return []T{}
	}
	if token.IsSuperUser {
		return items
	}

	visible := make([]T, 0, len(items))
	for _, item := range items {
		id, email := owner(item)
		if id == token.Profile.ID || (email != "" && email == token.Profile.Email) {
			visible = append(visible, item)
		}
	}
	return visible
}
