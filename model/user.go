package model

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"uniqueIndex;not null"`
	Email    string `gorm:"uniqueIndex;not null"`

	// Nil marks an account provisioned through an OAuth provider. Such an
	// account has no local credential and password login must fail for it.
	HashedPassword *string

	CreatedAt time.Time
	UpdatedAt time.Time

	OTPs []OTP `gorm:"foreignKey:UserID"`
}
