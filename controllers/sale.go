// controllers/sale.go
package controllers

import (
	"net/http"
	"time"

	"posledger-backend/config"
	"posledger-backend/services"
	"posledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateSaleInput defines the expected JSON structure for creating a sale
type CreateSaleInput struct {
	ProductID     uuid.UUID  `json:"productId" binding:"required"`
	SellerID      uuid.UUID  `json:"sellerId" binding:"required"`
	Quantity      int        `json:"quantity" binding:"required,min=1"`
	Discount      float64    `json:"discount" binding:"min=0,max=100"`
	PaymentMethod string     `json:"paymentMethod" binding:"required,oneof=CASH CARD TRANSFER MIXED"`
	AmountPaid    float64    `json:"amountPaid" binding:"min=0"`
	Notes         string     `json:"notes"`
	DueDate       *time.Time `json:"dueDate"`
}

// UpdateSaleInput defines the expected JSON structure for updating a sale
type UpdateSaleInput struct {
	ProductID     *uuid.UUID `json:"productId"`
	Quantity      *int       `json:"quantity"`
	Discount      *float64   `json:"discount"`
	PaymentMethod *string    `json:"paymentMethod" binding:"omitempty,oneof=CASH CARD TRANSFER MIXED"`
	Notes         *string    `json:"notes"`
	DueDate       *time.Time `json:"dueDate"`
}

// RegisterPaymentInput defines the expected JSON structure for a payment
type RegisterPaymentInput struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod *string `json:"paymentMethod" binding:"omitempty,oneof=CASH CARD TRANSFER MIXED"`
	Notes         string  `json:"notes"`
}

// CancelSaleInput carries the optional cancellation reason
type CancelSaleInput struct {
	Reason string `json:"reason"`
}

// CreateSale creates a new sale, reserving product stock immediately
func CreateSale(c *gin.Context) {
	var input CreateSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sale, err := services.NewSaleService(config.DB).Create(services.CreateSaleInput{
		ProductID:     input.ProductID,
		SellerID:      input.SellerID,
		Quantity:      input.Quantity,
		Discount:      input.Discount,
		PaymentMethod: input.PaymentMethod,
		AmountPaid:    input.AmountPaid,
		Notes:         input.Notes,
		DueDate:       input.DueDate,
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// GetSales lists sales with pagination
func GetSales(c *gin.Context) {
	offset, limit := paginationParams(c)

	sales, err := services.NewSaleService(config.DB).List(offset, limit)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sales")
		return
	}

	c.JSON(http.StatusOK, sales)
}

// GetSale retrieves a specific sale by ID
func GetSale(c *gin.Context) {
	saleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	sale, err := services.NewSaleService(config.DB).Get(saleUUID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}

// UpdateSale applies partial updates to an open sale
func UpdateSale(c *gin.Context) {
	saleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	var input UpdateSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sale, err := services.NewSaleService(config.DB).Update(saleUUID, services.UpdateSaleInput{
		ProductID:     input.ProductID,
		Quantity:      input.Quantity,
		Discount:      input.Discount,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		DueDate:       input.DueDate,
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}

// RegisterPayment applies a payment to an open sale
func RegisterPayment(c *gin.Context) {
	saleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	var input RegisterPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sale, err := services.NewSaleService(config.DB).RegisterPayment(saleUUID, services.RegisterPaymentInput{
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}

// CancelSale voids an unpaid sale and restores the reserved stock
func CancelSale(c *gin.Context) {
	saleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	var input CancelSaleInput
	// Body is optional for cancellation
	_ = c.ShouldBindJSON(&input)

	actor := "unknown"
	if user, err := currentUser(c); err == nil {
		actor = user.Username
	}

	sale, err := services.NewSaleService(config.DB).Cancel(saleUUID, actor, input.Reason)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, sale)
}
