package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	StoreName      string
	AdminEmail     string
	DefaultCountry string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),

		StoreName:      os.Getenv("STORE_NAME"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		DefaultCountry: os.Getenv("DEFAULT_COUNTRY"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = "Nigeria"
	}
	if cfg.StoreName == "" {
		cfg.StoreName = "Storefront"
	}

	return cfg
}
