package controllers

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"passport/internal/api/middleware"
	"passport/internal/services"

	"github.com/labstack/echo/v4"
)

// BaseController provides generic CRUD operations for any model
type BaseController[T any] struct {
	service services.BaseService[T]
}

// NewBaseController creates a new base controller
func NewBaseController[T any](service services.BaseService[T]) *BaseController[T] {
	return &BaseController[T]{
		service: service,
	}
}

// parseIncludes parses the include query parameter and returns a slice of relationships to preload
func parseIncludes(ctx echo.Context) []string {
	include := ctx.QueryParam("include")
	if include == "" {
		return nil
	}
	return strings.Split(include, ",")
}

// parseExcludes parses the exclude query parameter and returns a slice of fields to exclude
func parseExcludes(ctx echo.Context) []string {
	exclude := ctx.QueryParam("exclude")
	if exclude == "" {
		return nil
	}
	return strings.Split(exclude, ",")
}

func parseID(ctx echo.Context) (int64, error) {
	raw := ctx.Param("id")
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "missing id parameter")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id parameter")
	}
	return id, nil
}

// Create handles creation of new entities
func (c *BaseController[T]) Create(ctx echo.Context) error {
	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return err
	}

	includes := parseIncludes(ctx)
	if err := c.service.Create(ctx.Request().Context(), &entity, includes...); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusCreated, entity)
}

// Get handles retrieval of a single entity
func (c *BaseController[T]) Get(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	includes := parseIncludes(ctx)
	entity, err := c.service.Get(ctx.Request().Context(), id, includes...)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "entity not found")
	}

	return ctx.JSON(http.StatusOK, entity)
}

// applyFilters scopes list queries to the caller's own rows for entities
// that carry a ProfileID column. Superusers see everything.
func (c *BaseController[T]) applyFilters(ctx echo.Context, filters map[string]interface{}) map[string]interface{} {
	token := middleware.GetAuthToken(ctx)
	if token == nil || token.IsSuperUser {
		return filters
	}

	var entity T
	entityType := reflect.TypeOf(entity)
	if _, found := entityType.FieldByName("ProfileID"); found {
		filters["profile_id"] = token.Profile.ID
	}

	return filters
}

// List handles retrieval of multiple entities with pagination and filtering
func (c *BaseController[T]) List(ctx echo.Context) error {
	// Parse pagination parameters
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	exclude := parseExcludes(ctx)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	// Parse filters from query parameters
	filters := make(map[string]interface{})
	for key, values := range ctx.QueryParams() {
		if key != "page" && key != "limit" && key != "include" && key != "exclude" && key != "sort" && key != "order" && len(values) > 0 {
			filters[key] = values[0]
		}
	}

	filters = c.applyFilters(ctx, filters)

	includes := parseIncludes(ctx)

	excludeFields := make(map[string]bool)
	for _, field := range exclude {
		excludeFields[field] = true
	}

	// Only sort on fields the entity actually has
	sort := ctx.QueryParam("sort")
	order := ctx.QueryParam("order")
	var sortFields []string
	if sort != "" {
		var entity T
		entityType := reflect.TypeOf(entity)
		for _, field := range strings.Split(sort, ",") {
			if _, found := entityType.FieldByName(field); found {
				sortFields = append(sortFields, field)
			}
		}
	}
	if order != "asc" && order != "desc" {
		order = "asc"
	}

	entities, total, err := c.service.List(ctx.Request().Context(), page, limit, filters, excludeFields, sortFields, order, includes...)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data":  entities,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update handles updating an existing entity
func (c *BaseController[T]) Update(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	includes := parseIncludes(ctx)
	if err := c.service.Update(ctx.Request().Context(), id, &entity, includes...); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSON(http.StatusOK, entity)
}

// Delete handles deletion of an entity
func (c *BaseController[T]) Delete(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterRoutes registers CRUD routes for the controller
func (c *BaseController[T]) RegisterRoutes(g *echo.Group, path string, methods ...string) {
	if len(methods) == 0 {
		methods = []string{"POST", "GET", "PUT", "DELETE"}
	}

	for _, method := range methods {
		switch method {
		case "POST":
			g.POST(path, c.Create)
		case "GET":
			g.GET(path+"/:id", c.Get)
			g.GET(path, c.List)
		case "PUT":
			g.PUT(path+"/:id", c.Update)
		case "DELETE":
			g.DELETE(path+"/:id", c.Delete)
		}
	}
}
