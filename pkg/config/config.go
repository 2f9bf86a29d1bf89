package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverBolt     = "bolt"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	AuthModeJWT      = "jwt"
	AuthModeFirebase = "firebase"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	LogJSON                 bool
	StoreDriver             string
	BoltPath                string
	MongoURI                string
	MongoDatabase           string
	PostgresConnStr         string
	AuthMode                string
	FirebaseCredentialsPath string
	JWTSecret               string
	WebhookSecret           string
	NatsURL                 string
	RedisAddr               string
	MetricsPort             string
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("STORE_DRIVER", DriverBolt)
	v.SetDefault("BOLT_PATH", "socialfeed.db")
	v.SetDefault("MONGO_DATABASE", "socialmedia")
	v.SetDefault("AUTH_MODE", AuthModeJWT)
	v.SetDefault("METRICS_PORT", "9090")

	cfg := &Config{
		Port:                    v.GetString("PORT"),
		Env:                     v.GetString("ENV"),
		LogLevel:                strings.ToLower(v.GetString("LOG_LEVEL")),
		LogJSON:                 v.GetBool("LOG_JSON"),
		StoreDriver:             strings.ToLower(v.GetString("STORE_DRIVER")),
		BoltPath:                v.GetString("BOLT_PATH"),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDatabase:           v.GetString("MONGO_DATABASE"),
		PostgresConnStr:         v.GetString("POSTGRES_CONN_STR"),
		AuthMode:                strings.ToLower(v.GetString("AUTH_MODE")),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		WebhookSecret:           v.GetString("WEBHOOK_SECRET"),
		NatsURL:                 v.GetString("NATS_URL"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		MetricsPort:             v.GetString("METRICS_PORT"),
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = "supersecretjwtkey"
	}
	return cfg, cfg.Validate()
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverBolt:
		if c.BoltPath == "" {
			return errors.New("BOLT_PATH must be set for the bolt driver")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI environment variable not set")
		}
	case DriverPostgres:
		if c.PostgresConnStr == "" {
			return errors.New("POSTGRES_CONN_STR environment variable not set")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.AuthMode {
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET must be set in production")
		}
	case AuthModeFirebase:
		if c.FirebaseCredentialsPath == "" {
			return errors.New("FIREBASE_CREDENTIALS_PATH must be set for firebase auth")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}
	return nil
}
