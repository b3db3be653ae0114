package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort string
	BaseURL    string

	DatabaseDriver string
	DatabaseDSN    string

	AccessSecret string
	TokenTTL     time.Duration
	OTPTTL       time.Duration

	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	// EmailNotifier selects the email channel: kafka, sendgrid or log.
	EmailNotifier  string
	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	RedisAddr       string
	RedisPassword   string
	OTPRateWindow   time.Duration
	OTPRateMax      int
	OTPRateCooldown time.Duration

	CloudinaryUrl string

	LogLevel string
	LogFile  string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	return Config{
		Env:        getEnv("ENV", "dev"),
		ServerPort: getEnv("SERVER_PORT", ":3000"),
		BaseURL:    getEnv("BASE_URL", "*"),

		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),

		AccessSecret: os.Getenv("ACCESS_SECRET"),
		TokenTTL:     getDuration("TOKEN_TTL", 7*24*time.Hour),
		OTPTTL:       getDuration("OTP_TTL", 10*time.Minute),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "alumni-notifications"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		EmailNotifier:  strings.ToLower(getEnv("EMAIL_NOTIFIER", "kafka")),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       os.Getenv("MAIL_FROM"),
		MailFromName:   getEnv("MAIL_FROM_NAME", "KES Alumni Association"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		OTPRateWindow:   getDuration("OTP_RATE_WINDOW", 10*time.Minute),
		OTPRateMax:      getInt("OTP_RATE_MAX", 5),
		OTPRateCooldown: getDuration("OTP_RATE_COOLDOWN", 30*time.Second),

		CloudinaryUrl: os.Getenv("CLOUDINARY_URL"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.AccessSecret) == "" {
		return errors.New("config: ACCESS_SECRET must be set")
	}
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return errors.New("config: DATABASE_DSN must be set")
	}
	switch c.DatabaseDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return errors.New("config: DATABASE_DRIVER must be postgres, mysql or sqlite")
	}
	switch c.EmailNotifier {
	case "kafka":
		if c.KafkaBroker == "" {
			return errors.New("config: KAFKA_BROKER must be set when EMAIL_NOTIFIER=kafka")
		}
	case "sendgrid":
		if c.SendGridAPIKey == "" || c.MailFrom == "" {
			return errors.New("config: SENDGRID_API_KEY and MAIL_FROM must be set when EMAIL_NOTIFIER=sendgrid")
		}
	case "log":
		if c.IsProd() {
			return errors.New("config: EMAIL_NOTIFIER=log must not be used when ENV=prod")
		}
	default:
		return errors.New("config: EMAIL_NOTIFIER must be kafka, sendgrid or log")
	}
	if c.TokenTTL <= 0 || c.OTPTTL <= 0 {
		return errors.New("config: TOKEN_TTL and OTP_TTL must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
