// controllers/product.go
package controllers

import (
	"errors"
	"net/http"

	"posledger-backend/config"
	"posledger-backend/models"
	"posledger-backend/services"
	"posledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProductInput defines the expected JSON structure for creating a
// product. Either price or profitMargin must be supplied; the other half of
// the pair is derived.
type CreateProductInput struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	SKU          string   `json:"sku" binding:"required"`
	CostPrice    float64  `json:"costPrice" binding:"required,gt=0"`
	Price        *float64 `json:"price"`
	ProfitMargin *float64 `json:"profitMargin"`
	Stock        int      `json:"stock" binding:"min=0"`
}

// UpdateProductInput defines the expected JSON structure for updating a product
type UpdateProductInput struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	SKU          *string  `json:"sku"`
	CostPrice    *float64 `json:"costPrice"`
	Price        *float64 `json:"price"`
	ProfitMargin *float64 `json:"profitMargin"`
	Stock        *int     `json:"stock"`
	IsActive     *bool    `json:"isActive"`
}

// CreateProduct creates a new product
func CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	price, margin, err := models.ResolvePricing(models.PricingInput{
		CostPrice: input.CostPrice,
		Price:     input.Price,
		Margin:    input.ProfitMargin,
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	var existing models.Product
	result := config.DB.Where("name = ? OR sku = ?", input.Name, input.SKU).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Product name or SKU already exists")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	product := models.Product{
		Name:         input.Name,
		Description:  input.Description,
		SKU:          input.SKU,
		CostPrice:    input.CostPrice,
		Price:        price,
		ProfitMargin: margin,
		Stock:        input.Stock,
		IsActive:     true,
	}

	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts retrieves all products with pagination
func GetProducts(c *gin.Context) {
	offset, limit := paginationParams(c)

	var products []models.Product
	if err := config.DB.Order("name").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a specific product by ID
func GetProduct(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var product models.Product
	if err := config.DB.First(&product, "id = ?", productUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct updates an existing product. Supplying any of costPrice,
// price or profitMargin re-resolves the pricing pair.
func UpdateProduct(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.First(&product, "id = ?", productUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CostPrice != nil || input.Price != nil || input.ProfitMargin != nil {
		costPrice := product.CostPrice
		if input.CostPrice != nil {
			costPrice = *input.CostPrice
		}
		pricing := models.PricingInput{
			CostPrice: costPrice,
			Price:     input.Price,
			Margin:    input.ProfitMargin,
		}
		if pricing.Price == nil && pricing.Margin == nil {
			// Only the cost changed; keep the sale price and re-derive the margin
			existingPrice := product.Price
			pricing.Price = &existingPrice
		}
		price, margin, err := models.ResolvePricing(pricing)
		if err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
		product.CostPrice = costPrice
		product.Price = price
		product.ProfitMargin = margin
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Stock cannot be negative")
			return
		}
		product.Stock = *input.Stock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct deactivates a product. Blocked while any sale referencing it
// is still open, since those sales hold reserved stock.
func DeleteProduct(c *gin.Context) {
	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var product models.Product
	if err := config.DB.First(&product, "id = ?", productUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	saleService := services.NewSaleService(config.DB)
	hasOpen, err := saleService.HasOpenSales(product.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if hasOpen {
		utils.RespondWithAppError(c, utils.InvalidState("Product has open sales and cannot be deleted"))
		return
	}

	product.IsActive = false
	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
