package service

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer dispatches reset codes out of band. Implementations must report
// transport failure to the caller, the reset flow surfaces it instead of
// pretending the code was delivered.
type Mailer interface {
	SendOTP(to, code string) error
}

// SMTPMailer sends reset codes through the SMTP relay configured under the
// mail.* keys.
type SMTPMailer struct{}

func (SMTPMailer) SendOTP(to, code string) error {
	from := viper.GetString("mail.sender")
	if to == from {
		return errors.New("invalid email address")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password Reset OTP")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your OTP for password reset is: %s\nThis code is valid for %s.",
		code, viper.GetDuration("otp.ttl")))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		viper.GetString("mail.username"),
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(m)
}

// LogMailer is a development stand-in that writes the code to the log
// instead of dialing a relay. Selected when no mail host is configured.
type LogMailer struct{}

func (LogMailer) SendOTP(to, code string) error {
	zap.L().Info("Password reset OTP (mail.host not configured, not sent)",
		zap.String("to", to),
		zap.String("otp", code),
	)
	return nil
}
