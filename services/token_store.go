// services/token_store.go
package services

import (
	"errors"
	"time"

	"posledger-backend/models"

	"gorm.io/gorm"
)

// DBTokenStore keeps revoked token ids in the shared database so that every
// instance of the service agrees on which tokens are dead. Rows expire with
// the token itself and get purged by the scheduler.
type DBTokenStore struct {
	db *gorm.DB
}

func NewDBTokenStore(db *gorm.DB) *DBTokenStore {
	return &DBTokenStore{db: db}
}

func (s *DBTokenStore) Revoke(jti string, expiresAt time.Time) error {
	return s.db.Create(&models.RevokedToken{JTI: jti, ExpiresAt: expiresAt}).Error
}

func (s *DBTokenStore) IsRevoked(jti string) (bool, error) {
	var revoked models.RevokedToken
	err := s.db.First(&revoked, "jti = ?", jti).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PurgeExpired drops revocation rows for tokens that are past their own
// expiry and could not validate anyway.
func (s *DBTokenStore) PurgeExpired() (int64, error) {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
