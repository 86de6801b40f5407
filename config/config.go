// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	dbDSN          = pflag.String("db-dsn", "", "Overrides the configured database DSN")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("security.jwt_secret", "security_jwt_secret")

	v.BindEnv("google.client_id", "google_client_id")
	v.BindEnv("google.client_secret", "google_client_secret")
	v.BindEnv("google.redirect_url", "google_redirect_url")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.username", "mail_username")
	v.BindEnv("mail.password", "mail_password")
	v.BindEnv("mail.sender", "mail_sender")

	v.BindEnv("otp.ttl", "otp_ttl")
	v.BindEnv("otp.cleanup_interval", "otp_cleanup_interval")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "auth.db")

	v.SetDefault("mail.port", 587)

	v.SetDefault("otp.ttl", 2*time.Minute)
	v.SetDefault("otp.cleanup_interval", 10*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional, everything can come from envs
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if *dbDSN != "" {
		v.Set("db.dsn", *dbDSN)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("database DSN can't be empty")
	}

	if v.GetString("security.jwt_secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetDuration("otp.ttl") <= 0 {
		return errors.New("otp.ttl must be bigger than 0")
	}

	if v.GetDuration("otp.cleanup_interval") <= 0 {
		return errors.New("otp.cleanup_interval must be bigger than 0")
	}

	if v.GetString("google.client_id") == "" || v.GetString("google.client_secret") == "" {
		zap.L().Warn("Google OAuth credentials are not configured. Logging in with Google won't work")
	}

	if v.GetString("mail.host") == "" {
		zap.L().Warn("No mail.host configured, password reset OTPs will be written to the log instead of being emailed")
	} else {
		if v.GetString("mail.username") == "" {
			return errors.New("mail.username can't be empty")
		}
		if v.GetString("mail.sender") == "" {
			return errors.New("mail.sender can't be empty")
		}
	}

	return nil
}
