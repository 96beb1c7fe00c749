package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config собирается из переменных окружения (префикс RFPFLOW_ не используется,
// имена совпадают с envconfig-тегами).
type Config struct {
	Environment   string `envconfig:"ENVIRONMENT" default:"development"`
	ServerAddress string `envconfig:"SERVER_ADDRESS" default:"0.0.0.0:8080"`
	PostgresConn  string `envconfig:"POSTGRES_CONN" required:"true"`

	OpenAIAPIKey    string  `envconfig:"OPENAI_API_KEY" required:"true"`
	ExtractionModel string  `envconfig:"EXTRACTION_MODEL" default:"gpt-4o-mini"`
	ComparisonModel string  `envconfig:"COMPARISON_MODEL" default:"gpt-4o-mini"`
	ExtractionTemp  float64 `envconfig:"EXTRACTION_TEMPERATURE" default:"0.1"`
	ComparisonTemp  float64 `envconfig:"COMPARISON_TEMPERATURE" default:"0.3"`

	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	MailFrom string `envconfig:"MAIL_FROM"`

	IMAPHost    string `envconfig:"IMAP_HOST"`
	IMAPUser    string `envconfig:"IMAP_USER"`
	IMAPPass    string `envconfig:"IMAP_PASS"`
	IMAPMailbox string `envconfig:"IMAP_MAILBOX" default:"INBOX"`
}

// Load читает .env (если есть) и окружение.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
