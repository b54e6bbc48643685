package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Seller struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	ContactInfo string    `gorm:"type:text" json:"contactInfo"`
	Phone       string    `json:"phone"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Sales []Sale `gorm:"foreignKey:SellerID" json:"-"`
}

func (s *Seller) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
