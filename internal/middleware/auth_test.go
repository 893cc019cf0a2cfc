package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rentora/rental-service/internal/models"
	"github.com/rentora/rental-service/pkg/token"
	"github.com/stretchr/testify/assert"
)

func runWithAuth(t *testing.T, tokens TokenVerifier, authHeader string, roles ...models.UserRole) (*httptest.ResponseRecorder, AuthUser) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen AuthUser
	handler := Authenticate(tokens, roles...)(func(c echo.Context) error {
		seen, _ = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestAuthenticate_Success(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	signed, err := tokens.Generate(7, "alice@example.com", "customer")
	assert.NoError(t, err)

	rec, user := runWithAuth(t, tokens, "Bearer "+signed)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, models.RoleCustomer, user.Role)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)

	rec, _ := runWithAuth(t, tokens, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)

	rec, _ := runWithAuth(t, tokens, "Basic abc123")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)

	rec, _ := runWithAuth(t, tokens, "Bearer not-a-real-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RoleMismatch(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	signed, err := tokens.Generate(7, "alice@example.com", "customer")
	assert.NoError(t, err)

	rec, _ := runWithAuth(t, tokens, "Bearer "+signed, models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticate_RoleAllowed(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	signed, err := tokens.Generate(1, "root@example.com", "admin")
	assert.NoError(t, err)

	rec, user := runWithAuth(t, tokens, "Bearer "+signed, models.RoleAdmin)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleAdmin, user.Role)
}
