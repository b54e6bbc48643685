package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Investment is a standalone capital injection, independent of sales. Only
// used in aggregate reporting.
type Investment struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Amount       float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description  string    `gorm:"type:varchar(500);not null" json:"description"`
	Date         time.Time `gorm:"not null" json:"date"`
	RegisteredBy string    `gorm:"type:varchar(100);not null" json:"registeredBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Investment) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
