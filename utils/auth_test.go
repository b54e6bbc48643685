package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"posledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokenStore struct {
	revoked map[string]bool
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{revoked: make(map[string]bool)}
}

func (s *memoryTokenStore) Revoke(jti string, _ time.Time) error {
	s.revoked[jti] = true
	return nil
}

func (s *memoryTokenStore) IsRevoked(jti string) (bool, error) {
	return s.revoked[jti], nil
}

func protectedRouter(store utils.TokenStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", utils.AuthMiddleware(store), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId")})
	})
	r.GET("/admin", utils.AuthMiddleware(store), utils.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateToken("user-1", "admin")
	require.NoError(t, err)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	assert.NotEmpty(t, claims["jti"])
}

func TestGenerateToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := utils.GenerateToken("user-1", "user")
	require.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := newMemoryTokenStore()
	r := protectedRouter(store)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(r, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(r, "/protected", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid access token", func(t *testing.T) {
		token, err := utils.GenerateToken("user-1", "user")
		require.NoError(t, err)
		w := doRequest(r, "/protected", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("refresh token rejected on protected routes", func(t *testing.T) {
		token, err := utils.GenerateRefreshToken("user-1", "user")
		require.NoError(t, err)
		w := doRequest(r, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked token rejected", func(t *testing.T) {
		token, err := utils.GenerateToken("user-1", "user")
		require.NoError(t, err)

		claims, err := utils.ParseToken(token)
		require.NoError(t, err)
		require.NoError(t, store.Revoke(claims["jti"].(string), time.Now().Add(time.Hour)))

		w := doRequest(r, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter(newMemoryTokenStore())

	userToken, err := utils.GenerateToken("user-1", "user")
	require.NoError(t, err)
	w := doRequest(r, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := utils.GenerateToken("admin-1", "admin")
	require.NoError(t, err)
	w = doRequest(r, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, utils.CheckPasswordHash("s3cret", hash))
	assert.False(t, utils.CheckPasswordHash("wrong", hash))
}
