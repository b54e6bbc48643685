// services/earnings_service.go
package services

import (
	"errors"
	"sort"
	"time"

	"posledger-backend/models"
	"posledger-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EarningsService aggregates completed-sale profit data and standalone
// capital investments for reporting.
type EarningsService struct {
	db *gorm.DB
}

func NewEarningsService(db *gorm.DB) *EarningsService {
	return &EarningsService{db: db}
}

type EarningsSummary struct {
	TotalInvested       float64 `json:"totalInvested"`
	TotalSold           float64 `json:"totalSold"`
	GrossProfit         float64 `json:"grossProfit"`
	AverageProfitMargin float64 `json:"averageProfitMargin"`
	Status              string  `json:"status"` // PROFIT, LOSS or BREAK_EVEN
	TotalSales          int     `json:"totalSales"`
}

type EarningsByProduct struct {
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName"`
	QuantitySold   int       `json:"quantitySold"`
	TotalInvested  float64   `json:"totalInvested"`
	TotalGenerated float64   `json:"totalGenerated"`
	Profit         float64   `json:"profit"`
	ProfitMargin   float64   `json:"profitMargin"`
}

type EarningsByPeriod struct {
	Period       string    `json:"period"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	TotalRevenue float64   `json:"totalRevenue"`
	TotalCost    float64   `json:"totalCost"`
	Profit       float64   `json:"profit"`
	ProfitMargin float64   `json:"profitMargin"`
	SalesCount   int       `json:"salesCount"`
}

type EarningsBySeller struct {
	SellerID     uuid.UUID `json:"sellerId"`
	SellerName   string    `json:"sellerName"`
	TotalSales   int       `json:"totalSales"`
	TotalRevenue float64   `json:"totalRevenue"`
	TotalCost    float64   `json:"totalCost"`
	Profit       float64   `json:"profit"`
}

// Summary folds investments and earnings into the business-level totals:
// total_invested = investments + cost of goods sold, total_sold = revenue of
// completed sales, gross_profit = the difference.
func (s *EarningsService) Summary() (*EarningsSummary, error) {
	var totalInvestments float64
	if err := s.db.Model(&models.Investment{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalInvestments).Error; err != nil {
		return nil, err
	}

	var totalCost float64
	if err := s.db.Model(&models.Earning{}).
		Select("COALESCE(SUM(total_cost), 0)").Scan(&totalCost).Error; err != nil {
		return nil, err
	}

	var totalSold float64
	if err := s.db.Model(&models.Earning{}).
		Select("COALESCE(SUM(total_revenue), 0)").Scan(&totalSold).Error; err != nil {
		return nil, err
	}

	var avgMargin float64
	if err := s.db.Model(&models.Earning{}).
		Select("COALESCE(AVG(profit_margin), 0)").Scan(&avgMargin).Error; err != nil {
		return nil, err
	}

	var totalSales int64
	if err := s.db.Model(&models.Earning{}).Count(&totalSales).Error; err != nil {
		return nil, err
	}

	totalInvested := totalInvestments + totalCost
	grossProfit := totalSold - totalInvested

	status := "BREAK_EVEN"
	if grossProfit > 0 {
		status = "PROFIT"
	} else if grossProfit < 0 {
		status = "LOSS"
	}

	return &EarningsSummary{
		TotalInvested:       totalInvested,
		TotalSold:           totalSold,
		GrossProfit:         grossProfit,
		AverageProfitMargin: avgMargin,
		Status:              status,
		TotalSales:          int(totalSales),
	}, nil
}

// ByProduct groups earnings per product, ordered descending by profit,
// quantity or margin.
func (s *EarningsService) ByProduct(orderBy string) ([]EarningsByProduct, error) {
	switch orderBy {
	case "profit", "quantity", "margin":
	default:
		return nil, utils.InvalidArgument("order_by must be one of: profit, quantity, margin")
	}

	var earnings []models.Earning
	if err := s.db.Find(&earnings).Error; err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID]*EarningsByProduct)
	marginSums := make(map[uuid.UUID]float64)
	rowCounts := make(map[uuid.UUID]int)
	for _, e := range earnings {
		row, ok := grouped[e.ProductID]
		if !ok {
			row = &EarningsByProduct{ProductID: e.ProductID}
			grouped[e.ProductID] = row
		}
		row.QuantitySold += e.Quantity
		row.TotalInvested += e.TotalCost
		row.TotalGenerated += e.TotalRevenue
		row.Profit += e.Profit
		marginSums[e.ProductID] += e.ProfitMargin
		rowCounts[e.ProductID]++
	}

	result := make([]EarningsByProduct, 0, len(grouped))
	for productID, row := range grouped {
		var product models.Product
		if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		row.ProductName = product.Name
		// Plain average of the per-sale margins, not revenue-weighted
		row.ProfitMargin = marginSums[productID] / float64(rowCounts[productID])
		result = append(result, *row)
	}

	sort.Slice(result, func(i, j int) bool {
		switch orderBy {
		case "quantity":
			return result[i].QuantitySold > result[j].QuantitySold
		case "margin":
			return result[i].ProfitMargin > result[j].ProfitMargin
		default:
			return result[i].Profit > result[j].Profit
		}
	})
	return result, nil
}

// ByPeriod buckets earnings chronologically by day, Monday-started week,
// calendar month or calendar year. The range defaults to the trailing 30
// days.
func (s *EarningsService) ByPeriod(period string, startDate, endDate *time.Time) ([]EarningsByPeriod, error) {
	switch period {
	case "day", "week", "month", "year":
	default:
		return nil, utils.InvalidArgument("period must be one of: day, week, month, year")
	}

	end := time.Now()
	if endDate != nil {
		end = *endDate
	}
	start := end.AddDate(0, 0, -30)
	if startDate != nil {
		start = *startDate
	}

	var earnings []models.Earning
	if err := s.db.Where("created_at >= ? AND created_at <= ?", start, end).
		Find(&earnings).Error; err != nil {
		return nil, err
	}

	buckets := make(map[time.Time]*EarningsByPeriod)
	for _, e := range earnings {
		key := bucketStart(period, e.CreatedAt)
		row, ok := buckets[key]
		if !ok {
			row = &EarningsByPeriod{
				Period:    period,
				StartDate: key,
				EndDate:   bucketEnd(period, key),
			}
			buckets[key] = row
		}
		row.TotalRevenue += e.TotalRevenue
		row.TotalCost += e.TotalCost
		row.Profit += e.Profit
		row.SalesCount++
	}

	result := make([]EarningsByPeriod, 0, len(buckets))
	for _, row := range buckets {
		if row.TotalRevenue > 0 {
			row.ProfitMargin = row.Profit / row.TotalRevenue * 100
		}
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartDate.Before(result[j].StartDate)
	})
	return result, nil
}

func bucketStart(period string, t time.Time) time.Time {
	switch period {
	case "day":
		return utils.BeginningOfDay(t)
	case "week":
		return utils.BeginningOfWeek(t)
	case "month":
		return utils.BeginningOfMonth(t)
	default:
		return utils.BeginningOfYear(t)
	}
}

func bucketEnd(period string, start time.Time) time.Time {
	var next time.Time
	switch period {
	case "day":
		next = start.AddDate(0, 0, 1)
	case "week":
		next = start.AddDate(0, 0, 7)
	case "month":
		next = start.AddDate(0, 1, 0)
	default:
		next = start.AddDate(1, 0, 0)
	}
	return next.Add(-time.Second)
}

// BySeller accumulates the earnings of each seller's completed sales, ranked
// by profit.
func (s *EarningsService) BySeller() ([]EarningsBySeller, error) {
	var sales []models.Sale
	if err := s.db.Where("status = ?", models.SaleCompleted).Find(&sales).Error; err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID]*EarningsBySeller)
	for _, sale := range sales {
		var earning models.Earning
		if err := s.db.First(&earning, "sale_id = ?", sale.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		row, ok := grouped[sale.SellerID]
		if !ok {
			row = &EarningsBySeller{SellerID: sale.SellerID}
			grouped[sale.SellerID] = row
		}
		row.TotalSales++
		row.TotalRevenue += earning.TotalRevenue
		row.TotalCost += earning.TotalCost
		row.Profit += earning.Profit
	}

	result := make([]EarningsBySeller, 0, len(grouped))
	for sellerID, row := range grouped {
		var seller models.Seller
		if err := s.db.First(&seller, "id = ?", sellerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		row.SellerName = seller.Name
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Profit > result[j].Profit
	})
	return result, nil
}

// GetBySale returns the earning snapshot of a completed sale.
func (s *EarningsService) GetBySale(saleID uuid.UUID) (*models.Earning, error) {
	var earning models.Earning
	if err := s.db.First(&earning, "sale_id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("No earning record found for this sale")
		}
		return nil, err
	}
	return &earning, nil
}

// UpdateEarning is the manual-correction path: new unit prices against the
// stored quantity, with derived totals recomputed.
func (s *EarningsService) UpdateEarning(earningID uuid.UUID, costPrice, salePrice *float64) (*models.Earning, error) {
	if costPrice == nil && salePrice == nil {
		return nil, utils.InvalidArgument("Either cost_price or sale_price is required")
	}
	if costPrice != nil && *costPrice <= 0 {
		return nil, utils.InvalidArgument("Cost price must be greater than 0")
	}
	if salePrice != nil && *salePrice <= 0 {
		return nil, utils.InvalidArgument("Sale price must be greater than 0")
	}

	var earning models.Earning
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&earning, "id = ?", earningID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Earning record not found")
			}
			return err
		}
		if costPrice != nil {
			earning.CostPrice = *costPrice
		}
		if salePrice != nil {
			earning.SalePrice = *salePrice
		}
		earning.Recompute()
		return tx.Save(&earning).Error
	})
	if err != nil {
		return nil, err
	}
	return &earning, nil
}

// RegisterInvestment records a capital injection. The amount must be
// positive and the date must not be in the future.
func (s *EarningsService) RegisterInvestment(amount float64, description string, date time.Time, registeredBy string) (*models.Investment, error) {
	if amount <= 0 {
		return nil, utils.InvalidArgument("Investment amount must be greater than 0")
	}
	if date.After(time.Now()) {
		return nil, utils.InvalidArgument("Investment date cannot be in the future")
	}
	investment := &models.Investment{
		Amount:       amount,
		Description:  description,
		Date:         date,
		RegisteredBy: registeredBy,
	}
	if err := s.db.Create(investment).Error; err != nil {
		return nil, err
	}
	return investment, nil
}

func (s *EarningsService) ListInvestments(offset, limit int) ([]models.Investment, error) {
	var investments []models.Investment
	err := s.db.Order("date DESC").Offset(offset).Limit(limit).Find(&investments).Error
	return investments, err
}
