package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

var (
	roleNamePattern       = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	permissionNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*:[a-z0-9_*]+$`)
)

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	// Report field names as their JSON keys
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	err := v.RegisterValidation("role_name", validateRoleName)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("permission_name", validatePermissionName)
	if err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

// Custom validation functions
func validateRoleName(fl playgroundvalidator.FieldLevel) bool {
	return roleNamePattern.MatchString(fl.Field().String())
}

func validatePermissionName(fl playgroundvalidator.FieldLevel) bool {
	return permissionNamePattern.MatchString(fl.Field().String())
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// RegisterRequest Request validation structs based on models
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	PlatformID int64  `json:"platformId"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type ValidateEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type PlatformRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
}

type RoleRequest struct {
	Name        string `json:"name" validate:"required,role_name"`
	Description string `json:"description"`
}

type PermissionRequest struct {
	Name        string `json:"name" validate:"required,permission_name"`
	Description string `json:"description"`
}

type RoleAssignmentRequest struct {
	PlatformID int64 `json:"platformId" validate:"required,gt=0"`
	ProfileID  int64 `json:"profileId" validate:"required,gt=0"`
	RoleID     int64 `json:"roleId" validate:"required,gt=0"`
}

type PermissionAssignmentRequest struct {
	PlatformID   int64 `json:"platformId" validate:"required,gt=0"`
	RoleID       int64 `json:"roleId" validate:"required,gt=0"`
	PermissionID int64 `json:"permissionId" validate:"required,gt=0"`
}
