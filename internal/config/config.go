// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// PaymentConfig describes the receiving account a valid slip must name and
// the acceptance rules applied to verified evidence.
type PaymentConfig struct {
	PromptPayNumber     string  `yaml:"promptpay_number"`
	AccountNameTH       string  `yaml:"account_name_th"`
	AccountNameEN       string  `yaml:"account_name_en"`
	PricePerUnlock      float64 `yaml:"price_per_unlock"`      // fallback unit price when the catalog row has none
	SlipExpirationHours int     `yaml:"slip_expiration_hours"` // slips older than this are rejected
	// SingleUnlockPerContent refuses a second redemption of the same
	// (code, content) pair. Off by default: a code may re-unlock the same
	// content, consuming another quota unit.
	SingleUnlockPerContent bool `yaml:"single_unlock_per_content"`
}

type SlipProviderConfig struct {
	BaseURL     string        `yaml:"base_url"`
	AccessToken string        `yaml:"access_token"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	CookieDomain string        `yaml:"cookie_domain"`
	Secure       bool          `yaml:"secure"`
	TTL          time.Duration `yaml:"ttl"`
}

type RateLimitConfig struct {
	PurchasePerHour int `yaml:"purchase_per_hour"` // slip uploads per client IP per hour
}

type Config struct {
	Server    ServerConfig       `yaml:"server"`
	Log       LogConfig          `yaml:"log"`
	Database  DatabaseConfig     `yaml:"database"`
	Redis     RedisConfig        `yaml:"redis"`
	Payment   PaymentConfig      `yaml:"payment"`
	Provider  SlipProviderConfig `yaml:"slip_provider"`
	Session   SessionConfig      `yaml:"session"`
	RateLimit RateLimitConfig    `yaml:"rate_limit"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev

	// Secrets may come from the environment instead of the file.
	if v := os.Getenv("SLIP_PROVIDER_ACCESS_TOKEN"); v != "" {
		cfg.Provider.AccessToken = v
	}
	if v := os.Getenv("SESSION_JWT_SECRET"); v != "" {
		cfg.Session.JWTSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Payment.PricePerUnlock <= 0 {
		cfg.Payment.PricePerUnlock = 9
	}
	if cfg.Payment.SlipExpirationHours <= 0 {
		cfg.Payment.SlipExpirationHours = 24
	}
	if cfg.Provider.Timeout <= 0 {
		cfg.Provider.Timeout = 15 * time.Second
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 7 * 24 * time.Hour
	}
	if cfg.RateLimit.PurchasePerHour <= 0 {
		cfg.RateLimit.PurchasePerHour = 20
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate enforces the payment fields a deployment cannot run without.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Payment.PromptPayNumber == "" {
		return errors.New("payment.promptpay_number is required")
	}
	if c.Payment.AccountNameTH == "" {
		return errors.New("payment.account_name_th is required")
	}
	if c.Payment.AccountNameEN == "" {
		return errors.New("payment.account_name_en is required")
	}
	return nil
}
