package services_test

import (
	"testing"
	"time"

	"posledger-backend/models"
	"posledger-backend/services"
	"posledger-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEarning(t *testing.T, db *gorm.DB, productID uuid.UUID, costPrice, salePrice float64, quantity int, createdAt time.Time) *models.Earning {
	t.Helper()
	earning := &models.Earning{
		SaleID:     uuid.New(),
		ProductID:  productID,
		CostPrice:  costPrice,
		SalePrice:  salePrice,
		Quantity:   quantity,
		IsRecorded: true,
		CreatedAt:  createdAt,
	}
	earning.Recompute()
	require.NoError(t, db.Create(earning).Error)
	return earning
}

func seedInvestment(t *testing.T, db *gorm.DB, amount float64, date time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Investment{
		Amount:       amount,
		Description:  "stock purchase",
		Date:         date,
		RegisteredBy: "admin",
	}).Error)
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummary_LossWhenInvestmentsExceedRevenue(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Keyboard", 100, 150, 10)
	svc := services.NewEarningsService(db)

	seedInvestment(t, db, 1000, time.Now().AddDate(0, 0, -5))
	seedEarning(t, db, product.ID, 100, 150, 2, time.Now()) // cost 200, revenue 300
	seedEarning(t, db, product.ID, 90, 150, 1, time.Now())  // cost 90, revenue 150

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.InDelta(t, 1290.0, summary.TotalInvested, 0.01)
	assert.InDelta(t, 450.0, summary.TotalSold, 0.01)
	assert.InDelta(t, -840.0, summary.GrossProfit, 0.01)
	assert.Equal(t, "LOSS", summary.Status)
	assert.Equal(t, 2, summary.TotalSales)
}

func TestSummary_ProfitWithoutInvestments(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Monitor", 100, 200, 10)
	svc := services.NewEarningsService(db)

	seedEarning(t, db, product.ID, 100, 200, 3, time.Now()) // cost 300, revenue 600

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.InDelta(t, 300.0, summary.TotalInvested, 0.01)
	assert.InDelta(t, 600.0, summary.TotalSold, 0.01)
	assert.InDelta(t, 300.0, summary.GrossProfit, 0.01)
	assert.Equal(t, "PROFIT", summary.Status)
	assert.InDelta(t, 50.0, summary.AverageProfitMargin, 0.01)
}

func TestSummary_EmptyLedgerBreaksEven(t *testing.T) {
	db := newTestDB(t)
	summary, err := services.NewEarningsService(db).Summary()
	require.NoError(t, err)
	assert.Zero(t, summary.TotalInvested)
	assert.Zero(t, summary.TotalSold)
	assert.Equal(t, "BREAK_EVEN", summary.Status)
	assert.Zero(t, summary.TotalSales)
}

// =============================================================================
// BY PRODUCT
// =============================================================================

func TestByProduct_GroupsAndOrders(t *testing.T) {
	db := newTestDB(t)
	keyboard := seedProduct(t, db, "Keyboard", 100, 150, 10)
	cable := seedProduct(t, db, "Cable", 2, 10, 50)
	svc := services.NewEarningsService(db)

	seedEarning(t, db, keyboard.ID, 100, 150, 2, time.Now()) // profit 100
	seedEarning(t, db, keyboard.ID, 100, 150, 1, time.Now()) // profit 50
	seedEarning(t, db, cable.ID, 2, 10, 8, time.Now())       // profit 64

	byProfit, err := svc.ByProduct("profit")
	require.NoError(t, err)
	require.Len(t, byProfit, 2)
	assert.Equal(t, "Keyboard", byProfit[0].ProductName)
	assert.Equal(t, 3, byProfit[0].QuantitySold)
	assert.InDelta(t, 450.0, byProfit[0].TotalGenerated, 0.01)
	assert.InDelta(t, 150.0, byProfit[0].Profit, 0.01)
	assert.InDelta(t, 33.33, byProfit[0].ProfitMargin, 0.01)
	assert.Equal(t, "Cable", byProfit[1].ProductName)

	byQuantity, err := svc.ByProduct("quantity")
	require.NoError(t, err)
	assert.Equal(t, "Cable", byQuantity[0].ProductName)

	byMargin, err := svc.ByProduct("margin")
	require.NoError(t, err)
	assert.Equal(t, "Cable", byMargin[0].ProductName) // 80% vs 33%

	_, err = svc.ByProduct("alphabetical")
	requireKind(t, err, utils.KindInvalidArgument)
}

func TestByProduct_MarginIsAverageOfSaleMargins(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Adapter", 2, 10, 100)
	svc := services.NewEarningsService(db)

	// One high-margin small sale and one low-margin large sale: the product
	// margin is the plain average of the per-sale margins, so the big sale
	// must not dominate it.
	seedEarning(t, db, product.ID, 2, 10, 1, time.Now())      // revenue 10, margin 80%
	seedEarning(t, db, product.ID, 800, 1000, 1, time.Now())  // revenue 1000, margin 20%

	rows, err := svc.ByProduct("profit")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 50.0, rows[0].ProfitMargin, 0.01)
}

// =============================================================================
// BY PERIOD
// =============================================================================

func TestByPeriod_MonthBuckets(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Keyboard", 100, 150, 10)
	svc := services.NewEarningsService(db)

	inMonth := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	seedEarning(t, db, product.ID, 100, 150, 2, inMonth) // cost 200, revenue 300
	seedEarning(t, db, product.ID, 90, 150, 1, inMonth.AddDate(0, 0, 5))

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC)
	rows, err := svc.ByPeriod("month", &start, &end)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "month", row.Period)
	assert.Equal(t, time.March, row.StartDate.Month())
	assert.Equal(t, 1, row.StartDate.Day())
	assert.InDelta(t, 450.0, row.TotalRevenue, 0.01)
	assert.InDelta(t, 290.0, row.TotalCost, 0.01)
	assert.InDelta(t, 160.0, row.Profit, 0.01)
	assert.InDelta(t, 35.56, row.ProfitMargin, 0.01)
	assert.Equal(t, 2, row.SalesCount)
}

func TestByPeriod_WeekStartsMonday(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Mouse", 20, 40, 10)
	svc := services.NewEarningsService(db)

	// Wednesday and the following Monday fall in different weeks
	wednesday := time.Date(2026, time.March, 4, 10, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	seedEarning(t, db, product.ID, 20, 40, 1, wednesday)
	seedEarning(t, db, product.ID, 20, 40, 1, nextMonday)

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	rows, err := svc.ByPeriod("week", &start, &end)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Monday, rows[0].StartDate.Weekday())
	assert.Equal(t, time.Monday, rows[1].StartDate.Weekday())
	assert.True(t, rows[0].StartDate.Before(rows[1].StartDate))
}

func TestByPeriod_DefaultRangeExcludesOldEarnings(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Lamp", 20, 40, 10)
	svc := services.NewEarningsService(db)

	seedEarning(t, db, product.ID, 20, 40, 1, time.Now().AddDate(0, 0, -60))
	seedEarning(t, db, product.ID, 20, 40, 1, time.Now().AddDate(0, 0, -2))

	rows, err := svc.ByPeriod("day", nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].SalesCount)
}

func TestByPeriod_InvalidPeriod(t *testing.T) {
	db := newTestDB(t)
	_, err := services.NewEarningsService(db).ByPeriod("quarter", nil, nil)
	requireKind(t, err, utils.KindInvalidArgument)
}

// =============================================================================
// BY SELLER
// =============================================================================

func TestBySeller_RanksByProfit(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Keyboard", 100, 150, 20)
	alice := seedSeller(t, db, "Alice")
	bob := seedSeller(t, db, "Bob")
	saleSvc := services.NewSaleService(db)
	svc := services.NewEarningsService(db)

	// Alice completes two sales, Bob one
	for i := 0; i < 2; i++ {
		_, err := saleSvc.Create(services.CreateSaleInput{
			ProductID:     product.ID,
			SellerID:      alice.ID,
			Quantity:      2,
			PaymentMethod: models.PaymentCash,
			AmountPaid:    300,
		})
		require.NoError(t, err)
	}
	_, err := saleSvc.Create(services.CreateSaleInput{
		ProductID:     product.ID,
		SellerID:      bob.ID,
		Quantity:      1,
		PaymentMethod: models.PaymentCash,
		AmountPaid:    150,
	})
	require.NoError(t, err)

	// A pending sale contributes nothing
	_, err = saleSvc.Create(services.CreateSaleInput{
		ProductID:     product.ID,
		SellerID:      bob.ID,
		Quantity:      5,
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)

	rows, err := svc.BySeller()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Alice", rows[0].SellerName)
	assert.Equal(t, 2, rows[0].TotalSales)
	assert.InDelta(t, 600.0, rows[0].TotalRevenue, 0.01)
	assert.InDelta(t, 200.0, rows[0].Profit, 0.01)

	assert.Equal(t, "Bob", rows[1].SellerName)
	assert.Equal(t, 1, rows[1].TotalSales)
	assert.InDelta(t, 50.0, rows[1].Profit, 0.01)
}

// =============================================================================
// SINGLE EARNING
// =============================================================================

func TestGetBySale(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Desk", 50, 100, 10)
	svc := services.NewEarningsService(db)

	earning := seedEarning(t, db, product.ID, 50, 100, 1, time.Now())

	found, err := svc.GetBySale(earning.SaleID)
	require.NoError(t, err)
	assert.Equal(t, earning.ID, found.ID)

	_, err = svc.GetBySale(uuid.New())
	requireKind(t, err, utils.KindNotFound)
}

func TestUpdateEarning_RecomputesDerivedFields(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Chair", 100, 150, 10)
	svc := services.NewEarningsService(db)

	earning := seedEarning(t, db, product.ID, 100, 150, 2, time.Now())

	newCost := 120.0
	updated, err := svc.UpdateEarning(earning.ID, &newCost, nil)
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.CostPrice)
	assert.Equal(t, 240.0, updated.TotalCost)
	assert.Equal(t, 300.0, updated.TotalRevenue)
	assert.Equal(t, 60.0, updated.Profit)
	assert.InDelta(t, 20.0, updated.ProfitMargin, 0.01)
}

func TestUpdateEarning_Validation(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Sofa", 100, 150, 10)
	svc := services.NewEarningsService(db)

	earning := seedEarning(t, db, product.ID, 100, 150, 1, time.Now())

	_, err := svc.UpdateEarning(earning.ID, nil, nil)
	requireKind(t, err, utils.KindInvalidArgument)

	negative := -5.0
	_, err = svc.UpdateEarning(earning.ID, &negative, nil)
	requireKind(t, err, utils.KindInvalidArgument)

	price := 99.0
	_, err = svc.UpdateEarning(uuid.New(), &price, nil)
	requireKind(t, err, utils.KindNotFound)
}

// =============================================================================
// INVESTMENTS
// =============================================================================

func TestRegisterInvestment(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewEarningsService(db)

	investment, err := svc.RegisterInvestment(500, "initial stock", time.Now().AddDate(0, 0, -1), "admin")
	require.NoError(t, err)
	assert.Equal(t, 500.0, investment.Amount)
	assert.Equal(t, "admin", investment.RegisteredBy)

	_, err = svc.RegisterInvestment(0, "", time.Now(), "admin")
	requireKind(t, err, utils.KindInvalidArgument)

	_, err = svc.RegisterInvestment(100, "", time.Now().AddDate(0, 0, 2), "admin")
	requireKind(t, err, utils.KindInvalidArgument)
}

func TestListInvestments_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewEarningsService(db)

	seedInvestment(t, db, 100, time.Now().AddDate(0, 0, -10))
	seedInvestment(t, db, 200, time.Now().AddDate(0, 0, -1))

	investments, err := svc.ListInvestments(0, 10)
	require.NoError(t, err)
	require.Len(t, investments, 2)
	assert.Equal(t, 200.0, investments[0].Amount)

	page, err := svc.ListInvestments(1, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 100.0, page[0].Amount)
}
