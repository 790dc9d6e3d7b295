package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DBDriver         string `koanf:"db_driver" validate:"oneof=postgres sqlite"`
	DBHost           string `koanf:"db_host"`
	DBPort           string `koanf:"db_port"`
	DBUser           string `koanf:"db_user"`
	DBPassword       string `koanf:"db_password"`
	DBName           string `koanf:"db_name" validate:"required"`
	DBSSLMode        string `koanf:"db_sslmode"`
	JWTSecret        string `koanf:"jwt_secret" validate:"required"`
	JWTTTLHours      int    `koanf:"jwt_ttl_hours" validate:"gt=0"`
	ServerPort       string `koanf:"server_port" validate:"required"`
	LogLevel         string `koanf:"log_level"`
	LogFormat        string `koanf:"log_format" validate:"oneof=console json"`
	CORSAllowOrigins string `koanf:"cors_allow_origins"`
	AdminUsername    string `koanf:"admin_username"`
	AdminPassword    string `koanf:"admin_password" validate:"required_with=AdminUsername"`
	AdminEmail       string `koanf:"admin_email"`
}

// Default returns the configuration used when no environment overrides are set.
func Default() *Config {
	return &Config{
		DBDriver:         "postgres",
		DBHost:           "localhost",
		DBPort:           "5432",
		DBUser:           "postgres",
		DBPassword:       "postgres",
		DBName:           "simple_lms",
		DBSSLMode:        "disable",
		JWTSecret:        "secret",
		JWTTTLHours:      72,
		ServerPort:       "8080",
		LogLevel:         "info",
		LogFormat:        "console",
		CORSAllowOrigins: "*",
	}
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := Default()

	k := koanf.New(".")
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBName
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}
