package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port               int
	MongoURI           string
	MongoDatabase      string
	Store              string
	LogLevel           string
	RateLimitRPS       float64
	RateLimitBurst     int
	RedisURL           string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("PORT", 4000)
	v.SetDefault("MONGODB_URI", "mongodb://127.0.0.1:27017")
	v.SetDefault("MONGODB_DATABASE", "recipes")
	v.SetDefault("RECIPES_STORE", StoreMongo)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	cfg := &Config{
		Port:               v.GetInt("PORT"),
		MongoURI:           v.GetString("MONGODB_URI"),
		MongoDatabase:      v.GetString("MONGODB_DATABASE"),
		Store:              strings.ToLower(strings.TrimSpace(v.GetString("RECIPES_STORE"))),
		LogLevel:           v.GetString("LOG_LEVEL"),
		RateLimitRPS:       v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
		RedisURL:           v.GetString("REDIS_URL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.Store != StoreMongo && c.Store != StoreMemory {
		return errors.Errorf("RECIPES_STORE must be %q or %q, got %q", StoreMongo, StoreMemory, c.Store)
	}
	if c.Store == StoreMongo && c.MongoURI == "" {
		return errors.New("MONGODB_URI environment variable is not set")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
