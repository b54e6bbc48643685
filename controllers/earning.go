// controllers/earning.go
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

// UpdateEarningInput defines the manual-correction payload
type UpdateEarningInput struct {
	CostPrice *float64 `json:"costPrice" binding:"omitempty,gt=0"`
	SalePrice *float64 `json:"salePrice" binding:"omitempty,gt=0"`
}

// RegisterInvestmentInput defines the capital-injection payload
type RegisterInvestmentInput struct {
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
}

// GetEarningsSummary returns the business-level profit summary
func GetEarningsSummary(c *gin.Context) {
	summary, err := services.NewEarningsService(config.DB).Summary()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute earnings summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetEarningsByProduct returns the per-product profit breakdown
func GetEarningsByProduct(c *gin.Context) {
	orderBy := c.DefaultQuery("order_by", "profit")

	result, err := services.NewEarningsService(config.DB).ByProduct(orderBy)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEarningsByPeriod returns chronological profit buckets
func GetEarningsByPeriod(c *gin.Context) {
	period := c.DefaultQuery("period", "month")

	var startDate, endDate *time.Time
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		startDate = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		// Include the whole end day
		parsed = parsed.AddDate(0, 0, 1).Add(-time.Second)
		endDate = &parsed
	}

	result, err := services.NewEarningsService(config.DB).ByPeriod(period, startDate, endDate)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEarningsBySeller returns the seller profit ranking
func GetEarningsBySeller(c *gin.Context) {
	result, err := services.NewEarningsService(config.DB).BySeller()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute earnings by seller")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEarningBySale returns the profit snapshot of one completed sale
func GetEarningBySale(c *gin.Context) {
	saleUUID, err := uuid.Parse(c.Param("saleId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	earning, err := services.NewEarningsService(config.DB).GetBySale(saleUUID)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, earning)
}

// UpdateEarning corrects a recorded earning. Admin only.
func UpdateEarning(c *gin.Context) {
	earningUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid earning ID format")
		return
	}

	var input UpdateEarningInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	earning, err := services.NewEarningsService(config.DB).
		UpdateEarning(earningUUID, input.CostPrice, input.SalePrice)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, earning)
}

// RegisterInvestment records a capital injection. Admin only.
func RegisterInvestment(c *gin.Context) {
	var input RegisterInvestmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	registeredBy := "unknown"
	if user, err := currentUser(c); err == nil {
		registeredBy = user.Username
	}

	investment, err := services.NewEarningsService(config.DB).
		RegisterInvestment(input.Amount, input.Description, input.Date, registeredBy)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, investment)
}

// GetInvestments lists registered investments, newest first
func GetInvestments(c *gin.Context) {
	offset, limit := paginationParams(c)

	investments, err := services.NewEarningsService(config.DB).ListInvestments(offset, limit)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve investments")
		return
	}
	c.JSON(http.StatusOK, investments)
}
