package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const userContextKey = "user"

// Authenticator resolves a bearer token to user claims
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware checks for a valid bearer token and stores the user claims in the context.
func JWTAuthMiddleware(auth Authenticator, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				if apperrors.KindOf(err) == apperrors.KindInternal {
					log.Error("authentication failed", zap.Error(err))
					return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.Message(err))
			}

			c.Set(userContextKey, claims)
			return next(c)
		}
	}
}

// Claims returns the claims stored by JWTAuthMiddleware, or nil
func Claims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(userContextKey).(*models.JwtCustomClaims)
	return claims
}

// RequireRole rejects requests whose user holds none of roles
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}
