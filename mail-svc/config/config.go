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
	Env string

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPTimeout  time.Duration

	MailFrom     string
	MailFromName string
	PortalURL    string

	LogLevel string
	LogFile  string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	return Config{
		Env: getEnv("ENV", "dev"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "alumni-notifications"),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "mail-svc"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPTimeout:  getDuration("SMTP_TIMEOUT", 15*time.Second),

		MailFrom:     os.Getenv("MAIL_FROM"),
		MailFromName: getEnv("MAIL_FROM_NAME", "KES Alumni Association"),
		PortalURL:    os.Getenv("PORTAL_URL"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
}

func (c Config) Validate() error {
	if c.KafkaBroker == "" || c.KafkaTopic == "" {
		return errors.New("config: KAFKA_BROKER and KAFKA_TOPIC must be set")
	}
	if c.SMTPHost == "" || c.SMTPPort <= 0 {
		return errors.New("config: SMTP_HOST and SMTP_PORT must be set")
	}
	if c.MailFrom == "" {
		return errors.New("config: MAIL_FROM must be set")
	}
	if (c.SMTPUser == "") != (c.SMTPPassword == "") {
		return errors.New("config: SMTP_USER and SMTP_PASSWORD must be set together")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
