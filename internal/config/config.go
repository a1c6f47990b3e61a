package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Postgres Postgres
	Redis    Redis
	Bot      Bot
	Mail     Mail
	Listings Listings
	Distance Distance
	Enricher Enricher
	Schedule Schedule
	HTTP     HTTP

	SearchPath string `env:"SEARCH_CONFIG" envDefault:"search.yaml"`
}

type App struct {
	Name     string `env:"APP_NAME" envDefault:"rent-radar"`
	Version  string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type Bot struct {
	Token    string  `env:"BOT_TOKEN" json:"-"`
	ChatIDs  []int64 `env:"BOT_CHAT_IDS" envSeparator:","`
	AdminIDs []int64 `env:"BOT_ADMIN_IDS" envSeparator:","`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

type Mail struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD" json:"-"`
	From     string `env:"SMTP_FROM"`
}

func (m Mail) Enabled() bool {
	return m.Host != ""
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	config.Mail.Password = correctNewlines(config.Mail.Password)

	return config, nil
}

func correctNewlines(s string) string {
	return strings.NewReplacer(`"`, "", `\n`, "\n").Replace(s)
}
