package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv        string
	Port          string
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationsDir string
	RedisURL      string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	JWTExpiry     string
	UploadDir     string
	MaxUploadSize int64

	SessionCookie string
	SessionTTL    time.Duration

	ShopName        string
	Currency        string
	WhatsAppNumber  string
	WhatsAppBaseURL string

	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	OrderNotifyEmail  string
	ReviewAutoApprove bool

	Timezone      string
	OriginURL     string
	AdminEmail    string
	AdminPassword string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		Logger.Warn(".env file not found, using system environment variables")
	}

	maxUploadSize, _ := strconv.ParseInt(os.Getenv("MAX_UPLOAD_SIZE"), 10, 64)
	if maxUploadSize == 0 {
		maxUploadSize = 5242880
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "336h"))
	if err != nil || sessionTTL <= 0 {
		sessionTTL = 14 * 24 * time.Hour
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		smtpPort = 587
	}

	AppConfig = &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", getEnv("PORT", "8082")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "farm_shop"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "database/migration"),
		RedisURL:      os.Getenv("REDIS_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getEnv("JWT_SECRET", "secret"),
		JWTExpiry:     getEnv("JWT_EXPIRY", "24h"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: maxUploadSize,

		SessionCookie: getEnv("SESSION_COOKIE", "farm_session"),
		SessionTTL:    sessionTTL,

		ShopName:        getEnv("SHOP_NAME", "Wamugunda Farm"),
		Currency:        getEnv("CURRENCY", "KSh"),
		WhatsAppNumber:  getEnv("WHATSAPP_NUMBER", "254700000000"),
		WhatsAppBaseURL: getEnv("WHATSAPP_BASE_URL", "https://wa.me"),

		CloudinaryURL:       os.Getenv("CLOUDINARY_URL"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		SMTPHost:          os.Getenv("SMTP_HOST"),
		SMTPPort:          smtpPort,
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		SMTPFrom:          getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
		OrderNotifyEmail:  os.Getenv("ORDER_NOTIFY_EMAIL"),
		ReviewAutoApprove: getEnv("REVIEW_AUTO_APPROVE", "false") == "true",

		Timezone:      getEnv("TIMEZONE", "Africa/Nairobi"),
		OriginURL:     os.Getenv("ORIGIN_URL"), // comma separated
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	Logger.Info("configuration loaded",
		zap.String("env", AppConfig.AppEnv),
		zap.String("port", AppConfig.Port),
	)
}

// Location resolves Timezone, falling back to UTC when the zone database
// does not know it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		Logger.Warn("unknown timezone, using UTC", zap.String("timezone", c.Timezone), zap.Error(err))
		return time.UTC
	}
	return loc
}

// JWTTTL parses JWTExpiry, defaulting to a day.
func (c *Config) JWTTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTExpiry)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// WhatsAppLinkBase is the deep-link target every order message is appended to.
func (c *Config) WhatsAppLinkBase() string {
	return c.WhatsAppBaseURL + "/" + c.WhatsAppNumber
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
