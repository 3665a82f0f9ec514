package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	ReceiptsDir       string
	MailerSendAPIKey  string
	MailFromEmail     string
	MailFromName      string
	RabbitMQURL       string
	RabbitMQExchange  string
	NotifyWorkers     int
	NotifyQueueSize   int
	NotifyMaxAttempts int
}

// PlaceholderJWTSecret is only accepted when GIN_MODE is debug or test.
const PlaceholderJWTSecret = "super-secret-key-change-me"

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// LoadEnv reads configuration from the process environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to read .env: %v", err)
	}

	env := Env{
		AppAddr: getEnvOrDefault("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBHost:     getEnvOrDefault("DB_HOST", "127.0.0.1"),
		DBPort:     getEnvAsIntOrDefault("DB_PORT", 3306),
		DBUser:     getEnvOrDefault("DB_USER", "root"),
		DBPassword: strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		DBName:     getEnvOrDefault("DB_NAME", "viajes"),

		JWTSecret: getEnvOrDefault("JWT_SECRET", PlaceholderJWTSecret),
		JWTTTL:    getEnvAsDurationOrDefault("JWT_TTL", 24*time.Hour),

		CORSAllowedOrigins: defaultCORSOrigins,

		ReceiptsDir:       getEnvOrDefault("RECEIPTS_DIR", "comprobantes"),
		MailerSendAPIKey:  strings.TrimSpace(os.Getenv("MAILERSEND_API_KEY")),
		MailFromEmail:     strings.TrimSpace(os.Getenv("MAIL_FROM_EMAIL")),
		MailFromName:      getEnvOrDefault("MAIL_FROM_NAME", "Viajes Seguros S.A."),
		RabbitMQURL:       strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		RabbitMQExchange:  getEnvOrDefault("RABBITMQ_EXCHANGE", "viajes"),
		NotifyWorkers:     getEnvAsIntOrDefault("NOTIFY_WORKERS", 2),
		NotifyQueueSize:   getEnvAsIntOrDefault("NOTIFY_QUEUE_SIZE", 100),
		NotifyMaxAttempts: getEnvAsIntOrDefault("NOTIFY_MAX_ATTEMPTS", 3),
	}

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		origins := []string{}
		for _, o := range strings.Split(raw, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				origins = append(origins, o)
			}
		}
		env.CORSAllowedOrigins = origins
	}

	return env
}

// Validate rejects settings the server must not start with. A missing or
// placeholder JWT secret would let anyone mint tokens.
func (e Env) Validate() error {
	secret := strings.TrimSpace(e.JWTSecret)
	if secret != "" && secret != PlaceholderJWTSecret {
		return nil
	}
	switch e.GinMode {
	case "debug", "test":
		log.Printf("warning: JWT_SECRET not set, using the development placeholder (GIN_MODE=%s)", e.GinMode)
		return nil
	}
	return errors.New("JWT_SECRET must be set to a private value outside debug/test mode")
}

// DSN builds the go-sql-driver/mysql connection string.
func (e Env) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBPort,
		e.DBName,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("warning: %s=%q is not a number, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("warning: %s=%q is not a valid duration, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
