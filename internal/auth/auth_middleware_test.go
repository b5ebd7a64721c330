package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthMiddleware(testSecret), RoleMiddleware(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r http.Handler, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestMiddlewareAllowsAdmin(t *testing.T) {
	token, err := IssueToken(testSecret, "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, doRequest(newTestRouter(), token))
}

func TestMiddlewareRejects(t *testing.T) {
	r := newTestRouter()

	operator, err := IssueToken(testSecret, "ops", RoleOperator, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, "ops", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueToken("other-secret", "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)
	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, ""))
	assert.Equal(t, http.StatusForbidden, doRequest(r, operator))
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, expired))
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, foreign))
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, unsigned))
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	_, err := IssueToken("", "ops", RoleAdmin, time.Hour)
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	assert.Equal(t, "abc", extractToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, extractToken(req))
}
