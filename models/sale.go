package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale payment statuses. CANCELLED is terminal and only reachable through an
// explicit cancel while nothing has been paid.
const (
	SalePending   = "PENDING"
	SalePartial   = "PARTIAL"
	SaleCompleted = "COMPLETED"
	SaleCancelled = "CANCELLED"
)

// Accepted payment methods
const (
	PaymentCash     = "CASH"
	PaymentCard     = "CARD"
	PaymentTransfer = "TRANSFER"
	PaymentMixed    = "MIXED"
)

type Sale struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`
	SellerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"sellerId"`

	Quantity int    `gorm:"not null" json:"quantity"`
	Status   string `gorm:"type:varchar(20);default:'PENDING';not null" json:"status"`

	Subtotal        float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount        float64 `gorm:"type:decimal(10,2);default:0.0" json:"discount"`
	TotalPrice      float64 `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	AmountPaid      float64 `gorm:"type:decimal(10,2);default:0.0" json:"amountPaid"`
	AmountRemaining float64 `gorm:"type:decimal(10,2);not null" json:"amountRemaining"`

	PaymentMethod string     `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	Notes         string     `gorm:"type:text" json:"notes"`
	DueDate       *time.Time `gorm:"type:date" json:"dueDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Seller  *Seller  `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Earning *Earning `gorm:"foreignKey:SaleID" json:"earning,omitempty"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Open reports whether the sale still accepts payments or edits.
func (s *Sale) Open() bool {
	return s.Status == SalePending || s.Status == SalePartial
}

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentMixed:
		return true
	}
	return false
}
