// Package config resolves process settings from configs/.env and the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"

	devAdminPassword = "admin1234"
	devJWTSecret     = "dev-only-consumables-secret"
)

type Config struct {
	Port          string
	Release       bool
	StorageDriver string
	DatabaseURL   string
	DB            DBConfig
	BadgerPath    string

	AdminPassword string
	JWTSecret     string
	AdminTokenTTL time.Duration

	Location         *time.Location
	ReportLocale     language.Tag
	DefaultRequester string
	CORSOrigins      []string
	GormLogLevel     string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns DATABASE_URL when set, otherwise a URL assembled from the DB_* parts
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("STORAGE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("BADGER_PATH", "data/badger")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_TOKEN_TTL", "12h")
	v.SetDefault("APP_TIMEZONE", "Asia/Seoul")
	v.SetDefault("REPORT_LOCALE", "ko")
	v.SetDefault("DEFAULT_REQUESTER_ID", "floor-user")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("GORM_LOG_LEVEL", "warn")
}

// Load reads configs/.env (if present) into the environment and resolves the settings
func Load() (Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}
	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper resolves the settings from v
func FromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)

	cfg := Config{
		Port:          v.GetString("PORT"),
		Release:       v.GetString("GIN_MODE") == "release",
		StorageDriver: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		BadgerPath:       v.GetString("BADGER_PATH"),
		AdminPassword:    v.GetString("ADMIN_PASSWORD"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		DefaultRequester: v.GetString("DEFAULT_REQUESTER_ID"),
		GormLogLevel:     strings.ToLower(v.GetString("GORM_LOG_LEVEL")),
	}

	if cfg.StorageDriver != DriverPostgres && cfg.StorageDriver != DriverBadger {
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.AdminPassword == "" || cfg.JWTSecret == "" {
		if cfg.Release {
			return Config{}, errors.New("ADMIN_PASSWORD and JWT_SECRET must be set in release mode")
		}
		if cfg.AdminPassword == "" {
			log.Println("WARNING: ADMIN_PASSWORD not set, using development default")
			cfg.AdminPassword = devAdminPassword
		}
		if cfg.JWTSecret == "" {
			log.Println("WARNING: JWT_SECRET not set, using development default")
			cfg.JWTSecret = devJWTSecret
		}
	}

	ttl, err := time.ParseDuration(v.GetString("ADMIN_TOKEN_TTL"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid ADMIN_TOKEN_TTL %q", v.GetString("ADMIN_TOKEN_TTL"))
	}
	cfg.AdminTokenTTL = ttl

	loc, err := time.LoadLocation(v.GetString("APP_TIMEZONE"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	tag, err := language.Parse(v.GetString("REPORT_LOCALE"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid REPORT_LOCALE: %w", err)
	}
	cfg.ReportLocale = tag

	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}
