// services/sale_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"posledger-backend/models"
	"posledger-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentTolerance absorbs float rounding when comparing paid amounts
// against totals.
const PaymentTolerance = 0.01

// SaleService owns sale records, their payment-state transitions and the
// stock adjustments on the referenced product. Every operation runs in one
// transaction; sale and product rows are locked FOR UPDATE so concurrent
// payments against the same sale serialize instead of racing the
// remaining-balance check.
type SaleService struct {
	db *gorm.DB
}

func NewSaleService(db *gorm.DB) *SaleService {
	return &SaleService{db: db}
}

// lockForUpdate takes a row lock on backends that support it. SQLite has no
// FOR UPDATE; its single-writer model serializes these transactions anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// DeriveStatus maps the paid/total pair onto a payment status. CANCELLED is
// never derived; it is only reachable through Cancel.
func DeriveStatus(amountPaid, totalPrice float64) string {
	if math.Abs(totalPrice-amountPaid) < PaymentTolerance {
		return models.SaleCompleted
	}
	if amountPaid > 0 {
		return models.SalePartial
	}
	return models.SalePending
}

type CreateSaleInput struct {
	ProductID     uuid.UUID
	SellerID      uuid.UUID
	Quantity      int
	Discount      float64
	PaymentMethod string
	AmountPaid    float64
	Notes         string
	DueDate       *time.Time
}

type RegisterPaymentInput struct {
	Amount        float64
	PaymentMethod *string
	Notes         string
}

type UpdateSaleInput struct {
	ProductID     *uuid.UUID
	Quantity      *int
	Discount      *float64
	PaymentMethod *string
	Notes         *string
	DueDate       *time.Time
}

// Create validates the sale against current product stock and seller status,
// reserves stock immediately and derives the initial payment status. A sale
// paid in full upfront completes on the spot and gets its earning recorded
// in the same transaction.
func (s *SaleService) Create(in CreateSaleInput) (*models.Sale, error) {
	if in.Quantity <= 0 {
		return nil, utils.InvalidArgument("Quantity must be greater than 0")
	}
	if in.Discount < 0 || in.Discount > 100 {
		return nil, utils.InvalidArgument("Discount must be between 0 and 100")
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, utils.InvalidArgument("Invalid payment method")
	}
	if in.AmountPaid < 0 {
		return nil, utils.InvalidArgument("Amount paid cannot be negative")
	}

	var sale *models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := lockForUpdate(tx).
			First(&product, "id = ?", in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Product not found")
			}
			return err
		}
		if !product.IsActive {
			return utils.InvalidState("Product is inactive")
		}

		var seller models.Seller
		if err := tx.First(&seller, "id = ?", in.SellerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Seller not found")
			}
			return err
		}
		if !seller.IsActive {
			return utils.InvalidState("Seller is inactive")
		}

		if product.Stock < in.Quantity {
			return utils.InvalidState("Insufficient stock for the sale")
		}

		subtotal := product.Price * float64(in.Quantity)
		totalPrice := subtotal * (1 - in.Discount/100)
		if in.AmountPaid > totalPrice+PaymentTolerance {
			return utils.InvalidArgument("Amount paid exceeds the total price")
		}

		amountRemaining := totalPrice - in.AmountPaid
		if math.Abs(amountRemaining) < PaymentTolerance {
			amountRemaining = 0
		}

		// Stock is reserved at creation, not at completion
		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Update("stock", gorm.Expr("stock - ?", in.Quantity)).Error; err != nil {
			return err
		}

		sale = &models.Sale{
			ProductID:       product.ID,
			SellerID:        seller.ID,
			Quantity:        in.Quantity,
			Subtotal:        subtotal,
			Discount:        in.Discount,
			TotalPrice:      totalPrice,
			AmountPaid:      in.AmountPaid,
			AmountRemaining: amountRemaining,
			Status:          DeriveStatus(in.AmountPaid, totalPrice),
			PaymentMethod:   in.PaymentMethod,
			Notes:           in.Notes,
			DueDate:         in.DueDate,
		}
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		if sale.Status == models.SaleCompleted {
			if err := recordEarning(tx, sale, product.CostPrice); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// RegisterPayment applies a partial or final payment to an open sale. The
// sale row is locked for the duration of the transaction so two concurrent
// payments cannot both pass the remaining-balance check.
func (s *SaleService) RegisterPayment(saleID uuid.UUID, in RegisterPaymentInput) (*models.Sale, error) {
	if in.Amount <= 0 {
		return nil, utils.InvalidArgument("Payment amount must be greater than 0")
	}
	if in.PaymentMethod != nil && !models.ValidPaymentMethod(*in.PaymentMethod) {
		return nil, utils.InvalidArgument("Invalid payment method")
	}

	var sale models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&sale, "id = ?", saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Sale not found")
			}
			return err
		}
		if !sale.Open() {
			return utils.InvalidState(fmt.Sprintf("Sale is %s and no longer accepts payments", sale.Status))
		}
		if in.Amount > sale.AmountRemaining+PaymentTolerance {
			return utils.InvalidArgument("Payment exceeds the remaining balance")
		}

		sale.AmountPaid += in.Amount
		sale.AmountRemaining = sale.TotalPrice - sale.AmountPaid
		if math.Abs(sale.AmountRemaining) < PaymentTolerance {
			sale.AmountRemaining = 0
		}
		sale.Status = DeriveStatus(sale.AmountPaid, sale.TotalPrice)
		if in.PaymentMethod != nil {
			sale.PaymentMethod = *in.PaymentMethod
		}
		appendAuditNote(&sale, fmt.Sprintf("Payment received: %.2f", in.Amount), in.Notes)

		if err := tx.Save(&sale).Error; err != nil {
			return err
		}

		if sale.Status == models.SaleCompleted {
			var product models.Product
			if err := tx.First(&product, "id = ?", sale.ProductID).Error; err != nil {
				return err
			}
			if err := recordEarning(tx, &sale, product.CostPrice); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Update applies partial-update semantics to an open sale. The product
// reference is frozen as soon as any payment exists. Changing the product or
// quantity re-reserves stock against the new values.
func (s *SaleService) Update(saleID uuid.UUID, in UpdateSaleInput) (*models.Sale, error) {
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, utils.InvalidArgument("Quantity must be greater than 0")
	}
	if in.Discount != nil && (*in.Discount < 0 || *in.Discount > 100) {
		return nil, utils.InvalidArgument("Discount must be between 0 and 100")
	}
	if in.PaymentMethod != nil && !models.ValidPaymentMethod(*in.PaymentMethod) {
		return nil, utils.InvalidArgument("Invalid payment method")
	}

	var sale models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&sale, "id = ?", saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Sale not found")
			}
			return err
		}
		if !sale.Open() {
			return utils.InvalidState(fmt.Sprintf("Sale is %s and can no longer be updated", sale.Status))
		}

		productChanged := in.ProductID != nil && *in.ProductID != sale.ProductID
		if productChanged && sale.AmountPaid > 0 {
			return utils.InvalidState("Cannot change the product once payments have been registered")
		}

		quantityChanged := in.Quantity != nil && *in.Quantity != sale.Quantity
		if productChanged || quantityChanged {
			newProductID := sale.ProductID
			if productChanged {
				newProductID = *in.ProductID
			}
			newQuantity := sale.Quantity
			if quantityChanged {
				newQuantity = *in.Quantity
			}

			// Release the old reservation before taking the new one
			if err := tx.Model(&models.Product{}).Where("id = ?", sale.ProductID).
				Update("stock", gorm.Expr("stock + ?", sale.Quantity)).Error; err != nil {
				return err
			}

			var product models.Product
			if err := lockForUpdate(tx).
				First(&product, "id = ?", newProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.NotFound("Product not found")
				}
				return err
			}
			if !product.IsActive {
				return utils.InvalidState("Product is inactive")
			}
			if product.Stock < newQuantity {
				return utils.InvalidState("Insufficient stock for the sale")
			}
			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", newQuantity)).Error; err != nil {
				return err
			}

			sale.ProductID = product.ID
			sale.Quantity = newQuantity
			sale.Subtotal = product.Price * float64(newQuantity)
		}

		if in.Discount != nil {
			sale.Discount = *in.Discount
		}
		if productChanged || quantityChanged || in.Discount != nil {
			sale.TotalPrice = sale.Subtotal * (1 - sale.Discount/100)
			if sale.AmountPaid > sale.TotalPrice+PaymentTolerance {
				return utils.InvalidArgument("Amount already paid exceeds the new total price")
			}
			sale.AmountRemaining = sale.TotalPrice - sale.AmountPaid
			if math.Abs(sale.AmountRemaining) < PaymentTolerance {
				sale.AmountRemaining = 0
			}
			sale.Status = DeriveStatus(sale.AmountPaid, sale.TotalPrice)
		}

		if in.PaymentMethod != nil {
			sale.PaymentMethod = *in.PaymentMethod
		}
		if in.Notes != nil {
			sale.Notes = *in.Notes
		}
		if in.DueDate != nil {
			sale.DueDate = in.DueDate
		}

		if err := tx.Save(&sale).Error; err != nil {
			return err
		}

		if sale.Status == models.SaleCompleted {
			var product models.Product
			if err := tx.First(&product, "id = ?", sale.ProductID).Error; err != nil {
				return err
			}
			if err := recordEarning(tx, &sale, product.CostPrice); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Cancel voids a sale that has received no payments and returns the reserved
// quantity to the product. The restored amount is exactly the quantity
// reserved at creation, regardless of stock movements from other sales.
func (s *SaleService) Cancel(saleID uuid.UUID, actor, reason string) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&sale, "id = ?", saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("Sale not found")
			}
			return err
		}
		if sale.Status == models.SaleCancelled {
			return utils.InvalidState("Sale is already cancelled")
		}
		if sale.AmountPaid > 0 || sale.Status != models.SalePending {
			return utils.InvalidState("Sale with registered payments cannot be cancelled")
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", sale.ProductID).
			Update("stock", gorm.Expr("stock + ?", sale.Quantity)).Error; err != nil {
			return err
		}

		note := fmt.Sprintf("Cancelled by %s", actor)
		appendAuditNote(&sale, note, reason)
		sale.Status = models.SaleCancelled
		return tx.Save(&sale).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Sale %s cancelled by %s", sale.ID, actor)
	return &sale, nil
}

// Get returns a sale with its product, seller and earning preloaded.
func (s *SaleService) Get(saleID uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := s.db.Preload("Product").Preload("Seller").Preload("Earning").
		First(&sale, "id = ?", saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Sale not found")
		}
		return nil, err
	}
	return &sale, nil
}

func (s *SaleService) List(offset, limit int) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.Preload("Product").Preload("Seller").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&sales).Error
	return sales, err
}

// HasOpenSales reports whether the product is referenced by any sale that is
// still PENDING or PARTIAL. Shared precondition for product deletion.
func (s *SaleService) HasOpenSales(productID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Sale{}).
		Where("product_id = ? AND status IN ?", productID,
			[]string{models.SalePending, models.SalePartial}).
		Count(&count).Error
	return count > 0, err
}

// recordEarning snapshots cost and effective sale price the moment a sale
// completes. The effective unit price includes the discount so revenue
// matches the money actually received.
func recordEarning(tx *gorm.DB, sale *models.Sale, costPrice float64) error {
	earning := models.Earning{
		SaleID:     sale.ID,
		ProductID:  sale.ProductID,
		CostPrice:  costPrice,
		SalePrice:  sale.TotalPrice / float64(sale.Quantity),
		Quantity:   sale.Quantity,
		IsRecorded: true,
	}
	earning.Recompute()
	return tx.Create(&earning).Error
}

func appendAuditNote(sale *models.Sale, event, detail string) {
	note := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04"), event)
	if detail != "" {
		note += " - " + detail
	}
	if sale.Notes != "" {
		sale.Notes += "\n"
	}
	sale.Notes += note
}
