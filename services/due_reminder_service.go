// services/due_reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"posledger-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// DueReminderService messages sellers about open sales whose due date is
// approaching or already past, and runs daily housekeeping.
type DueReminderService struct {
	db         *gorm.DB
	client     *twilio.RestClient
	tokenStore *DBTokenStore
}

func NewDueReminderService(db *gorm.DB) *DueReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &DueReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		tokenStore: NewDBTokenStore(db),
	}
}

func (s *DueReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendDueReminders()
		if purged, err := s.tokenStore.PurgeExpired(); err != nil {
			log.Printf("Failed to purge expired revoked tokens: %v", err)
		} else if purged > 0 {
			log.Printf("Purged %d expired revoked tokens", purged)
		}
	})

	c.Start()
	log.Println("Due reminder scheduler started")
}

// SendDueReminders processes every open sale due within the next 3 days or
// overdue.
func (s *DueReminderService) SendDueReminders() {
	log.Println("Starting due payment reminder processing...")

	cutoff := time.Now().AddDate(0, 0, 3)

	var sales []models.Sale
	err := s.db.Preload("Seller").Preload("Product").
		Where("status IN ? AND due_date IS NOT NULL AND due_date <= ?",
			[]string{models.SalePending, models.SalePartial}, cutoff).
		Find(&sales).Error
	if err != nil {
		log.Printf("Failed to fetch due sales: %v", err)
		return
	}

	for _, sale := range sales {
		s.remindSeller(sale)
	}

	log.Println("Due payment reminder processing completed")
}

func (s *DueReminderService) remindSeller(sale models.Sale) {
	if sale.Seller == nil || sale.Seller.Phone == "" {
		return
	}

	productName := ""
	if sale.Product != nil {
		productName = sale.Product.Name
	}
	message := fmt.Sprintf(
		"Payment reminder: sale of %s (qty %d) has %.2f outstanding, due %s.",
		productName, sale.Quantity, sale.AmountRemaining,
		sale.DueDate.Format("2006-01-02"))

	// WhatsApp if the phone is in E.164 format, else SMS
	channel := "sms"
	to := sale.Seller.Phone
	if strings.HasPrefix(to, "+") {
		to = "whatsapp:" + to
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder for sale %s: %v", sale.ID, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent for sale %s, SID: %s", sale.ID, *resp.Sid)
	}

	reminderLog := models.PaymentReminderLog{
		SaleID:       sale.ID,
		SellerID:     sale.SellerID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}
	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for sale %s: %v", sale.ID, err)
	}
}
