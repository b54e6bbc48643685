package controllers

import (
	"net/http"
	"time"

	"posledger-backend/config"
	"posledger-backend/models"
	"posledger-backend/services"
	"posledger-backend/utils"

	"github.com/gin-gonic/gin"
)

const lowStockThreshold = 5

type LowStockProduct struct {
	Name  string `json:"name"`
	SKU   string `json:"sku"`
	Stock int    `json:"stock"`
}

type TopProduct struct {
	Name    string  `json:"name"`
	Sold    int     `json:"sold"`
	Revenue float64 `json:"revenue"`
}

// GetDashboardOverview returns the landing-page numbers: catalog size, open
// sales, outstanding balance, this month's revenue and profit, low-stock
// products and top products.
func GetDashboardOverview(c *gin.Context) {
	var totalProducts int64
	config.DB.Model(&models.Product{}).Where("is_active = ?", true).Count(&totalProducts)

	var totalSellers int64
	config.DB.Model(&models.Seller{}).Where("is_active = ?", true).Count(&totalSellers)

	var openSales int64
	config.DB.Model(&models.Sale{}).
		Where("status IN ?", []string{models.SalePending, models.SalePartial}).
		Count(&openSales)

	var outstandingBalance float64
	config.DB.Model(&models.Sale{}).
		Where("status IN ?", []string{models.SalePending, models.SalePartial}).
		Select("COALESCE(SUM(amount_remaining), 0)").Scan(&outstandingBalance)

	// This month's completed-sale figures
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyRevenue, monthlyProfit float64
	config.DB.Model(&models.Earning{}).
		Where("created_at >= ?", firstOfMonth).
		Select("COALESCE(SUM(total_revenue), 0)").Scan(&monthlyRevenue)
	config.DB.Model(&models.Earning{}).
		Where("created_at >= ?", firstOfMonth).
		Select("COALESCE(SUM(profit), 0)").Scan(&monthlyProfit)

	var lowStock []LowStockProduct
	config.DB.Model(&models.Product{}).
		Select("name, sku, stock").
		Where("is_active = ? AND stock < ?", true, lowStockThreshold).
		Order("stock").Limit(7).
		Scan(&lowStock)

	topProducts, err := topProductsByRevenue(4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute top products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalProducts":      totalProducts,
		"totalSellers":       totalSellers,
		"openSales":          openSales,
		"outstandingBalance": outstandingBalance,
		"monthlyRevenue":     monthlyRevenue,
		"monthlyProfit":      monthlyProfit,
		"lowStockProducts":   lowStock,
		"topProducts":        topProducts,
	})
}

func topProductsByRevenue(limit int) ([]TopProduct, error) {
	byProduct, err := services.NewEarningsService(config.DB).ByProduct("profit")
	if err != nil {
		return nil, err
	}
	top := make([]TopProduct, 0, limit)
	for _, row := range byProduct {
		top = append(top, TopProduct{
			Name:    row.ProductName,
			Sold:    row.QuantitySold,
			Revenue: row.TotalGenerated,
		})
		if len(top) >= limit {
			break
		}
	}
	return top, nil
}
