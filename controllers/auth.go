package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"posledger-backend/config"
	"posledger-backend/models"
	"posledger-backend/services"
	"posledger-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be username or email
	Password   string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutInput struct {
	RefreshToken string `json:"refreshToken"`
}

func Login(c *gin.Context) {
	var input LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	result := config.DB.Where("username = ? OR email = ?", identifier, identifier).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is deactivated")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID.String(), user.Role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}

	now := time.Now()
	if err := config.DB.Model(&user).Update("last_login", &now).Error; err != nil {
		log.Printf("Failed to update last login for user %s: %v", user.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"refreshToken": refreshToken,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Logout revokes the presented tokens by jti so they fail validation on
// every instance from now on.
func Logout(c *gin.Context) {
	store := services.NewDBTokenStore(config.DB)

	claims, err := utils.ParseToken(utils.BearerToken(c))
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid token")
		return
	}
	if err := revokeClaims(store, claims); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to revoke token")
		return
	}

	var input LogoutInput
	if err := c.ShouldBindJSON(&input); err == nil && input.RefreshToken != "" {
		if refreshClaims, err := utils.ParseToken(input.RefreshToken); err == nil {
			if err := revokeClaims(store, refreshClaims); err != nil {
				utils.RespondWithError(c, http.StatusInternalServerError, "Failed to revoke refresh token")
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Refresh exchanges a valid refresh token for a fresh token pair. The old
// refresh token is revoked so it cannot be replayed.
func Refresh(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	claims, err := utils.ParseToken(input.RefreshToken)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		utils.RespondWithError(c, http.StatusUnauthorized, "Not a refresh token")
		return
	}

	store := services.NewDBTokenStore(config.DB)
	jti, _ := claims["jti"].(string)
	revoked, err := store.IsRevoked(jti)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to verify token")
		return
	}
	if revoked {
		utils.RespondWithError(c, http.StatusUnauthorized, "Refresh token has been revoked")
		return
	}

	userID, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)

	token, err := utils.GenerateToken(userID, role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(userID, role)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}
	if err := revokeClaims(store, claims); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to rotate refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"refreshToken": refreshToken,
	})
}

func Me(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"fullName": user.FullName,
			"role":     user.Role,
		},
	})
}

func revokeClaims(store utils.TokenStore, claims map[string]interface{}) error {
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil
	}
	expiresAt := time.Now().Add(7 * 24 * time.Hour)
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0)
	}
	return store.Revoke(jti, expiresAt)
}

// currentUser resolves the authenticated user from the request context.
func currentUser(c *gin.Context) (*models.User, error) {
	userID, exists := c.Get("userId")
	if !exists {
		return nil, errors.New("user id not in context")
	}
	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
