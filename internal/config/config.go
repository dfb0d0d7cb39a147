package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var (
	dbUserEmptyError    = errors.New("DB User is Empty")
	dbNameEmptyError    = errors.New("DB Name is Empty")
	jwtSecretEmptyError = errors.New("JWT Secret is Empty")
)

type AppConfig struct {
	Env  string
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	Password string
	User     string
	URL      string
}

type AuthConfig struct {
	JwtSecret string
}

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
}

func LoadConfig() (*Config, error) {
	// .env не обязателен, переменные могут прийти из окружения
	_ = godotenv.Load()

	c := &Config{
		App: AppConfig{
			Env:  getEnv("APP_ENV", "dev"),
			Port: getEnv("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			Name:     getEnv("DATABASE_NAME", "chronetask"),
			Password: getEnv("DATABASE_PASSWORD", "postgres"),
			User:     getEnv("DATABASE_USER", "postgres"),
			URL:      getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
	}

	if c.Auth.JwtSecret == "" {
		return nil, jwtSecretEmptyError
	}

	if err := makeDbUrl(c); err != nil {
		return nil, err
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func makeDbUrl(cfg *Config) error {
	if cfg.Database.URL == "" {
		if cfg.Database.User == "" {
			return dbUserEmptyError
		}
		if cfg.Database.Name == "" {
			return dbNameEmptyError
		}
		cfg.Database.URL = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Name,
		)
	}
	return nil
}
