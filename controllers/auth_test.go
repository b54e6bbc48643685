package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"posledger-backend/config"
	"posledger-backend/controllers"
	"posledger-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthTest(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RevokedToken{}))

	config.DB = db
	return db
}

func loginRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", controllers.Login)
	return r
}

func postLogin(r *gin.Engine, identifier, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"identifier": identifier, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_IssuesTokensAndStampsLastLogin(t *testing.T) {
	db := setupAuthTest(t)
	r := loginRouter()

	user := models.User{
		Username: "clerk",
		Email:    "clerk@example.com",
		Password: "correct-horse",
		Role:     "user",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	require.Nil(t, user.LastLogin)

	w := postLogin(r, "clerk", "correct-horse")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refreshToken"])

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	require.NotNil(t, reloaded.LastLogin)

	// Login by email resolves the same account
	w = postLogin(r, "clerk@example.com", "correct-horse")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_RejectsBadCredentialsAndInactiveAccounts(t *testing.T) {
	db := setupAuthTest(t)
	r := loginRouter()

	user := models.User{
		Username: "clerk",
		Email:    "clerk@example.com",
		Password: "correct-horse",
		Role:     "user",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	w := postLogin(r, "clerk", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postLogin(r, "nobody", "correct-horse")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, db.Model(&user).Update("is_active", false).Error)
	w = postLogin(r, "clerk", "correct-horse")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
