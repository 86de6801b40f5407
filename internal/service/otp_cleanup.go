package service

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mwrona/auth-api/model"
)

// OTPCleanup periodically purges expired reset codes. Housekeeping only:
// expired rows already fail verification, this just keeps the table from
// growing without bound.
func OTPCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("OTP cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			res := db.
				Where("otp_expiry < ?", time.Now()).
				Delete(&model.OTP{})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup expired OTPs", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up expired OTPs", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}
