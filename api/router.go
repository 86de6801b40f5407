// Package api contains all endpoints available
package api

import (
	"context"
	"fmt"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"mwrona/auth-api/db"
	"mwrona/auth-api/internal/service"
	"mwrona/auth-api/middleware"
	"mwrona/auth-api/pkg/security"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

// GoogleProvider is the slice of the OAuth client the handlers depend on,
// abstracted so flows can be exercised without talking to Google.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	FetchUser(ctx context.Context, code string) (*service.GoogleUser, error)
}

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Scrypt *security.ScryptHash
	OTP    *service.OTPService
	Mailer service.Mailer
	Google GoogleProvider
}

func NewRouter() (*API, error) {
	a := &API{
		Scrypt: security.New(),
		Google: service.NewGoogleClient(),
	}

	if viper.GetString("mail.host") != "" {
		a.Mailer = service.SMTPMailer{}
	} else {
		a.Mailer = service.LogMailer{}
	}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db
	a.OTP = service.NewOTPService(db, viper.GetDuration("otp.ttl"))

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v, ok := c.Get("userID"); ok {
					fields = append(fields, zap.Any("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	router.LoadHTMLGlob("templates/*.html")
	router.Static("/static", "./static")

	jwt := middleware.NewJWTMiddleware(db)
	formLimit := middleware.BodySizeLimiter(1 << 20)

	// GET / 			-> Landing page
	router.GET("/", cacheFor(30), a.Index)

	// GET/POST /signup 		-> Registers a new local account
	router.GET("/signup", a.SignupPage)
	router.POST("/signup", formLimit, a.Signup)

	// GET/POST /login 		-> Logs in a user and starts a session
	router.GET("/login", a.LoginPage)
	router.POST("/login", formLimit, a.Login)

	// GET/POST /forgot-password 	-> Issues a reset OTP and mails it out
	router.GET("/forgot-password", a.ForgotPasswordPage)
	router.POST("/forgot-password", formLimit, a.ForgotPassword)

	// GET/POST /verify-otp 	-> Consumes the mailed OTP
	router.GET("/verify-otp", a.VerifyOTPPage)
	router.POST("/verify-otp", formLimit, a.VerifyOTP)

	// GET/POST /reset-password 	-> Overwrites the credential, closes OTPs
	router.GET("/reset-password", a.ResetPasswordPage)
	router.POST("/reset-password", formLimit, a.ResetPassword)

	// GET /login/google 		-> Redirects to the Google consent page
	router.GET("/login/google", a.GoogleLogin)

	// GET /auth/google 		-> OAuth callback, resolves the account
	router.GET("/auth/google", a.GoogleCallback)

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 	-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate	-> Validates a JWT token
		main.HEAD("/validate", jwt, a.Validate)

		// GET /api/token	-> Decodes the session token into its claims
		main.GET("/token", a.Token)
	}

	service.OTPCleanup(viper.GetDuration("otp.cleanup_interval"), db)

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
