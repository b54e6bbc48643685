package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RevokedToken records a logged-out token by its jti. Rows are kept until the
// token would have expired anyway, then purged by the scheduler.
type RevokedToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	JTI       string    `gorm:"column:jti;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

func (r *RevokedToken) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
