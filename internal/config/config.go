package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Catalog
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Catalog struct {
		PageSize int

		// Renewal window. The proposed date defaults to
		// RenewalDefaultWeeks from today; submissions are rejected when
		// they fall before today or after RenewalMaxWeeks from today.
		RenewalDefaultWeeks int
		RenewalMaxWeeks     int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies

	// Catalog defaults
	v.SetDefault("catalog_page_size", DefaultPageSize)
	v.SetDefault("catalog_renewal_default_weeks", 3)
	v.SetDefault("catalog_renewal_max_weeks", 4)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Catalog: Catalog{
			PageSize:            v.GetInt("CATALOG_PAGE_SIZE"),
			RenewalDefaultWeeks: v.GetInt("CATALOG_RENEWAL_DEFAULT_WEEKS"),
			RenewalMaxWeeks:     v.GetInt("CATALOG_RENEWAL_MAX_WEEKS"),
		},
	}
}
