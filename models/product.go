package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	SKU         string    `gorm:"column:sku;uniqueIndex;not null" json:"sku"`

	CostPrice    float64 `gorm:"type:decimal(10,2);not null" json:"costPrice"`
	Price        float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	ProfitMargin float64 `gorm:"type:decimal(10,2);not null" json:"profitMargin"`

	Stock    int  `gorm:"default:0;check:stock >= 0" json:"stock"`
	IsActive bool `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Sales []Sale `gorm:"foreignKey:ProductID" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
