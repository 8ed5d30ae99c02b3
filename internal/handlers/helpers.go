package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/middleware"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's id, or 0 for anonymous requests
func getUserIDFromContext(c echo.Context) uint {
	if claims := middleware.Claims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

func getRoleFromContext(c echo.Context) models.Role {
	if claims := middleware.Claims(c); claims != nil {
		return claims.Role
	}
	return ""
}

// httpError converts a service error into the echo error returned to the client.
// Internal errors keep their cause for the request logger but hide it from the body.
func httpError(err error) error {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal {
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	return echo.NewHTTPError(apperrors.HTTPStatus(kind), apperrors.Message(err))
}

// bindAndValidate decodes the request body into req and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

func kindParam(c echo.Context) (models.ContentKind, error) {
	kind, err := models.ParseContentKind(c.Param("kind"))
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Unknown content type")
	}
	return kind, nil
}

func uintParam(c echo.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+label)
	}
	return uint(id), nil
}

func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}

func paginationMeta(page, limit int, total int64) echo.Map {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}
