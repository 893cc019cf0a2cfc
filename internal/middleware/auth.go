package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rentora/rental-service/internal/models"
	"github.com/rentora/rental-service/pkg/token"
)

const userContextKey = "currentUser"

// AuthUser is the verified identity attached to the request context.
type AuthUser struct {
	ID    uint
	Email string
	Role  models.UserRole
}

type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Authenticate verifies the Bearer token and, when roles are given,
// restricts the route to those roles.
func Authenticate(tokens TokenVerifier, roles ...models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "you must be logged in to access this resource")
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token, please log in again")
			}

			user := AuthUser{
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  models.UserRole(claims.Role),
			}

			if len(roles) > 0 && !slices.Contains(roles, user.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by Authenticate.
func CurrentUser(c echo.Context) (AuthUser, bool) {
	user, ok := c.Get(userContextKey).(AuthUser)
	return user, ok
}

// SetCurrentUser seeds the context outside the middleware chain (tests).
func SetCurrentUser(c echo.Context, user AuthUser) {
	c.Set(userContextKey, user)
}
