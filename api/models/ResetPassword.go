package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ResetPasswordTTL is how long a reset token stays usable.
const ResetPasswordTTL = time.Hour

type ResetPassword struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Email     string    `gorm:"size:100;not null;index" json:"email"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (r *ResetPassword) Prepare() {
	r.Token = strings.TrimSpace(r.Token)
	r.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(r.Email)))
	r.CreatedAt = time.Now()
}

func (r *ResetPassword) SaveResetPassword(db *gorm.DB) (*ResetPassword, error) {
	if err := db.Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// FindValidToken returns the reset row for token if it has not expired.
func (r *ResetPassword) FindValidToken(db *gorm.DB, token string, now time.Time) (*ResetPassword, error) {
	var found ResetPassword
	err := db.Where("token = ? AND created_at > ?", token, now.Add(-ResetPasswordTTL)).Take(&found).Error
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *ResetPassword) DeleteResetPassword(db *gorm.DB) (int64, error) {
	result := db.Where("id = ?", r.ID).Delete(&ResetPassword{})
	return result.RowsAffected, result.Error
}

// PurgeExpiredResetTokens removes tokens issued before now minus the TTL.
func PurgeExpiredResetTokens(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("created_at <= ?", now.Add(-ResetPasswordTTL)).Delete(&ResetPassword{})
	return result.RowsAffected, result.Error
}
