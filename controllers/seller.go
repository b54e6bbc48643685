// controllers/seller.go
package controllers

import (
	"errors"
	"net/http"

	"posledger-backend/config"
	"posledger-backend/models"
	"posledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSellerInput defines the expected JSON structure for creating a seller
type CreateSellerInput struct {
	Name        string `json:"name" binding:"required"`
	ContactInfo string `json:"contactInfo"`
	Phone       string `json:"phone"`
}

// UpdateSellerInput defines the expected JSON structure for updating a seller
type UpdateSellerInput struct {
	Name        *string `json:"name"`
	ContactInfo *string `json:"contactInfo"`
	Phone       *string `json:"phone"`
	IsActive    *bool   `json:"isActive"`
}

// CreateSeller creates a new seller
func CreateSeller(c *gin.Context) {
	var input CreateSellerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var existing models.Seller
	if err := config.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Seller with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	seller := models.Seller{
		Name:        input.Name,
		ContactInfo: input.ContactInfo,
		Phone:       input.Phone,
		IsActive:    true,
	}

	if err := config.DB.Create(&seller).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create seller")
		return
	}

	c.JSON(http.StatusCreated, seller)
}

// GetSellers lists all sellers with pagination
func GetSellers(c *gin.Context) {
	offset, limit := paginationParams(c)

	var sellers []models.Seller
	if err := config.DB.Order("name").Offset(offset).Limit(limit).Find(&sellers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sellers")
		return
	}

	c.JSON(http.StatusOK, sellers)
}

// GetSeller retrieves a specific seller by ID
func GetSeller(c *gin.Context) {
	sellerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid seller ID format")
		return
	}

	var seller models.Seller
	if err := config.DB.First(&seller, "id = ?", sellerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Seller not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, seller)
}

// GetSellerSales lists the sales registered by a seller
func GetSellerSales(c *gin.Context) {
	sellerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid seller ID format")
		return
	}

	var seller models.Seller
	if err := config.DB.First(&seller, "id = ?", sellerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Seller not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	offset, limit := paginationParams(c)
	var sales []models.Sale
	if err := config.DB.Preload("Product").
		Where("seller_id = ?", seller.ID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&sales).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sales")
		return
	}

	c.JSON(http.StatusOK, sales)
}

// UpdateSeller updates an existing seller
func UpdateSeller(c *gin.Context) {
	sellerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid seller ID format")
		return
	}

	var input UpdateSellerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var seller models.Seller
	if err := config.DB.First(&seller, "id = ?", sellerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Seller not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		seller.Name = *input.Name
	}
	if input.ContactInfo != nil {
		seller.ContactInfo = *input.ContactInfo
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		seller.Phone = *input.Phone
	}
	if input.IsActive != nil {
		seller.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&seller).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update seller")
		return
	}

	c.JSON(http.StatusOK, seller)
}

// DeleteSeller deactivates a seller instead of removing the row, so sales
// keep a resolvable reference.
func DeleteSeller(c *gin.Context) {
	sellerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid seller ID format")
		return
	}

	var seller models.Seller
	if err := config.DB.First(&seller, "id = ?", sellerUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Seller not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	seller.IsActive = false
	if err := config.DB.Save(&seller).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete seller")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Seller deactivated successfully"})
}
