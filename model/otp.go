package model

import "time"

// OTP is a single one-time reset code. There is no uniqueness constraint on
// UserID: several outstanding codes for the same user may coexist and any
// record matching (user, code, not expired) wins at verification time.
type OTP struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"index;not null"`
	Code      string    `gorm:"column:otp;not null"`
	ExpiresAt time.Time `gorm:"column:otp_expiry;index"`
	CreatedAt time.Time
}
