package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Earning is the immutable profit snapshot taken when a sale completes.
// Prices are captured at completion time and do not follow later product
// price changes; the correction endpoint is the only mutation path.
type Earning struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"saleId"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`

	CostPrice float64 `gorm:"type:decimal(10,2);not null" json:"costPrice"`
	SalePrice float64 `gorm:"type:decimal(10,2);not null" json:"salePrice"`
	Quantity  int     `gorm:"not null" json:"quantity"`

	TotalCost    float64 `gorm:"type:decimal(10,2);not null" json:"totalCost"`
	TotalRevenue float64 `gorm:"type:decimal(10,2);not null" json:"totalRevenue"`
	Profit       float64 `gorm:"type:decimal(10,2);not null" json:"profit"`
	ProfitMargin float64 `gorm:"type:decimal(10,2);not null" json:"profitMargin"`

	IsRecorded bool      `gorm:"default:false" json:"isRecorded"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *Earning) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

// Recompute refreshes the derived totals from the unit prices and quantity.
func (e *Earning) Recompute() {
	e.TotalCost = e.CostPrice * float64(e.Quantity)
	e.TotalRevenue = e.SalePrice * float64(e.Quantity)
	e.Profit = e.TotalRevenue - e.TotalCost
	if e.TotalRevenue > 0 {
		e.ProfitMargin = e.Profit / e.TotalRevenue * 100
	} else {
		e.ProfitMargin = 0
	}
}
