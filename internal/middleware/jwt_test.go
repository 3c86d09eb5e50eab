package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/movie-reservation/internal/utils"
)

const testSecret = "unit-test-secret"

func invoke(t *testing.T, mw echo.MiddlewareFunc, authorization string) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	err := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return c, rec, reached
}

func TestJWTAuthAcceptsSignedToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", 15)
	require.NoError(t, err)

	c, rec, reached := invoke(t, JWTAuth(testSecret), "Bearer "+tok.Token)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), c.Get("user_id"))
	assert.Equal(t, "CUSTOMER", c.Get("role"))
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	_, rec, reached := invoke(t, JWTAuth(testSecret), "")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("another-secret", 42, "CUSTOMER", 15)
	require.NoError(t, err)

	_, rec, reached := invoke(t, JWTAuth(testSecret), "Bearer "+tok.Token)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", -5)
	require.NoError(t, err)

	_, rec, reached := invoke(t, JWTAuth(testSecret), "Bearer "+tok.Token)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name        string
		role        any
		wantStatus  int
		wantReached bool
	}{
		{name: "allowed role", role: "CUSTOMER", wantStatus: http.StatusOK, wantReached: true},
		{name: "other role", role: "OWNER", wantStatus: http.StatusForbidden},
		{name: "no role", role: nil, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != nil {
				c.Set("role", tt.role)
			}

			reached := false
			err := RequireRole("CUSTOMER")(func(c echo.Context) error {
				reached = true
				return c.NoContent(http.StatusOK)
			})(c)
			require.NoError(t, err)

			assert.Equal(t, tt.wantReached, reached)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
