package service

import (
	"crypto/rand"
	"math/big"
	"time"

	"gorm.io/gorm"

	"mwrona/auth-api/model"
)

const otpLength = 6

// OTPService issues and consumes the one-time codes that gate the password
// reset flow.
type OTPService struct {
	DB  *gorm.DB
	TTL time.Duration
}

func NewOTPService(db *gorm.DB, ttl time.Duration) *OTPService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}

	return &OTPService{
		DB:  db,
		TTL: ttl,
	}
}

// Issue stores a fresh 6-digit code for the user and returns it so it can be
// mailed out. Codes issued earlier stay valid until consumed or expired, a
// second forgot-password request doesn't cancel the first.
func (o *OTPService) Issue(userID uint) (string, error) {
	code, err := randDigits(otpLength)
	if err != nil {
		return "", err
	}

	rec := model.OTP{
		UserID:    userID,
		Code:      code,
		ExpiresAt: time.Now().Add(o.TTL),
	}

	if err := o.DB.Create(&rec).Error; err != nil {
		return "", err
	}

	return code, nil
}

// Verify consumes the code. It reports true only when a record for this user
// carries this exact code and hasn't expired yet, and deletes that record so
// the code can't be replayed. Wrong code, expired code and unknown user are
// all the same uniform false with nothing removed.
func (o *OTPService) Verify(userID uint, code string) (bool, error) {
	var rec model.OTP

	err := o.DB.
		Where("user_id = ? AND otp = ? AND otp_expiry > ?", userID, code, time.Now()).
		First(&rec).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}

		return false, err
	}

	if err := o.DB.Delete(&rec).Error; err != nil {
		return false, err
	}

	return true, nil
}

// InvalidateAll deletes every outstanding code for the user. Called after a
// successful password reset so no previously mailed code survives it.
func (o *OTPService) InvalidateAll(userID uint) error {
	return o.DB.Where("user_id = ?", userID).Delete(&model.OTP{}).Error
}

func randDigits(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}

		b[i] = byte('0' + v.Int64())
	}

	return string(b), nil
}
