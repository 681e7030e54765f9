package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session tokens (signin/signup)
	JWTSecret       string
	SessionTokenTTL time.Duration

	// Reset/invite tokens (separate signing secret)
	ResetSecret    string
	ResetTokenTTL  time.Duration
	InviteTokenTTL time.Duration

	// reCAPTCHA
	CaptchaSecret    string
	CaptchaVerifyURL string

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Links embedded in reset/invite emails
	FrontendURL string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "smartschool_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		SessionTokenTTL: parseDuration(getEnv("SESSION_TOKEN_TTL", "1h"), time.Hour),

		ResetSecret:    getEnv("RESET_SECRET", ""),
		ResetTokenTTL:  parseDuration(getEnv("RESET_TOKEN_TTL", "1h"), time.Hour),
		InviteTokenTTL: parseDuration(getEnv("INVITE_TOKEN_TTL", "48h"), 48*time.Hour),

		CaptchaSecret:    getEnv("CAPTCHA_KEY", ""),
		CaptchaVerifyURL: getEnv("CAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", `"Smart School" <noreply@smartschool.com>`),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
