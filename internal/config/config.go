package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreDynamo = "dynamo"
	StoreMongo  = "mongo"

	MailSMTP       = "smtp"
	MailMailerSend = "mailersend"
	MailLog        = "log"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	AppName  string
	LogLevel string

	StoreDriver    string // "dynamo" | "mongo"
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	MongoURI             string
	MongoDatabase        string
	MongoUsersCollection string

	JWTSecret string
	JWTExpiry time.Duration

	MailDriver       string // "smtp" | "mailersend" | "log"
	MailFromName     string
	SMTPHost         string
	SMTPPort         string
	SMTPFrom         string
	SMTPUsername     string
	SMTPPassword     string
	MailerSendAPIKey string

	ProductAPIURL     string
	ProductAPILimit   int
	ProductAPISkip    int
	ProductAPISelect  string // comma-separated field list, empty for all fields
	ProductAPITimeout time.Duration

	DashboardRequireAuth bool
	RateLimitRPS         float64
	RateLimitBurst       int
	AllowedOrigins       []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		AppName:  getEnv("APP_NAME", "Assignment"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver:    getEnv("STORE_DRIVER", StoreDynamo),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users: getEnv("DYNAMO_TABLE_USERS", "users"),
		},

		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:        getEnv("MONGO_DATABASE", "otp_dashboard"),
		MongoUsersCollection: getEnv("MONGO_COLLECTION_USERS", "users"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		MailDriver:       getEnv("MAIL_DRIVER", MailSMTP),
		MailFromName:     getEnv("MAIL_FROM_NAME", "Assignment"),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnv("SMTP_PORT", "1025"),
		SMTPFrom:         getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		MailerSendAPIKey: getEnv("MAILERSEND_API_KEY", ""),

		ProductAPIURL:     strings.TrimRight(getEnv("PRODUCT_API_URL", "https://dummyjson.com"), "/"),
		ProductAPILimit:   getEnvInt("PRODUCT_API_LIMIT", 0),
		ProductAPISkip:    getEnvInt("PRODUCT_API_SKIP", 0),
		ProductAPISelect:  getEnv("PRODUCT_API_SELECT", ""),
		ProductAPITimeout: getEnvDuration("PRODUCT_API_TIMEOUT", 10*time.Second),

		DashboardRequireAuth: getEnvBool("DASHBOARD_REQUIRE_AUTH", true),
		RateLimitRPS:         getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:       getEnvInt("RATE_LIMIT_BURST", 10),
		AllowedOrigins:       strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}
}

// IsProduction reports whether secure-only cookies should be issued.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
