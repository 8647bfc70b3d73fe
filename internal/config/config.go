package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrMissingSigningKey = errors.New("JWT signing key is not configured")
	ErrMissingDatabase   = errors.New("postgres configuration is incomplete")
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Stripe   *StripeConfig   `mapstructure:"stripe"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	ApexDomain         string   `mapstructure:"apex_domain"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	TokenLifetimeHours int      `mapstructure:"token_lifetime_hours"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

func (c *APIConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the yaml config at path and applies OJASS_* environment
// overrides (e.g. OJASS_API_JWT_SIGNING_KEY). Secrets are expected to
// come from the environment, never from the committed yaml.
func Load(path string) (*AppConfig, error) {
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("OJASS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if conf.API == nil {
		conf.API = &APIConfig{}
	}
	if conf.Stripe == nil {
		conf.Stripe = &StripeConfig{}
	}
	if conf.API.JWTSigningKey == "" {
		conf.API.JWTSigningKey = viper.GetString("api.jwt_signing_key")
	}
	if conf.Stripe.SecretKey == "" {
		conf.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	}
	if conf.API.TokenLifetimeHours <= 0 {
		conf.API.TokenLifetimeHours = 24
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Startup is the only place misconfiguration is surfaced. A missing
// signing key must never degrade into per-request failures.
func (c *AppConfig) validate() error {
	if c.API.JWTSigningKey == "" {
		return ErrMissingSigningKey
	}

	if os.Getenv("DATABASE_URL") == "" {
		if c.Postgres == nil || c.Postgres.Host == "" || c.Postgres.DBName == "" {
			return ErrMissingDatabase
		}
	}

	return nil
}
