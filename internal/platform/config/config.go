package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // office time zone must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Print drivers accepted by PRINT_DRIVER.
const (
	PrintDriverSpool = "spool"
	PrintDriverHTTP  = "http"
	PrintDriverNone  = "none"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	DBConnectTimeout   time.Duration
	LogLevel           string
	JWTSecret          string
	JWTExpiryDuration  time.Duration
	JWTIssuer          string
	LoginRateLimit     string
	CORSAllowedOrigins []string

	// Transactions
	SerialPrefix            string
	DefaultCurrencies       []string
	RejectUnknownCurrencies bool

	// Invoice header defaults, used when the settings table has no value
	OfficeTagline  string
	OfficeName     string
	OfficeSubtitle string
	OfficeAddress  string
	OfficePhone    string
	PrinterName    string
	OfficeLocation *time.Location

	// Printing
	PrintDriver        string
	PrintAgentURL      string
	PrintSpoolDir      string
	PrintTimeout       time.Duration
	PrintAssetsTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DB_CONNECT_TIMEOUT", "30s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "exchange-office")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("SERIAL_PREFIX", "EXC")
	viper.SetDefault("DEFAULT_CURRENCIES", "EUR,CHF,USD,GBP,AUD,CAD,TRY,ALL")
	viper.SetDefault("REJECT_UNKNOWN_CURRENCIES", false)
	viper.SetDefault("OFFICE_TAGLINE", "Money & Crypto Exchange Office")
	viper.SetDefault("OFFICE_NAME", "FEJZULLAI")
	viper.SetDefault("OFFICE_SUBTITLE", "COMPANY")
	viper.SetDefault("OFFICE_ADDRESS", "Ul/Rr.Brakja Ginoski 135")
	viper.SetDefault("OFFICE_PHONE", "070 378 645")
	viper.SetDefault("PRINTER_NAME", "")
	viper.SetDefault("OFFICE_TIMEZONE", "Europe/Skopje")
	viper.SetDefault("PRINT_DRIVER", PrintDriverSpool)
	viper.SetDefault("PRINT_AGENT_URL", "http://localhost:9100")
	viper.SetDefault("PRINT_SPOOL_DIR", "./spool")
	viper.SetDefault("PRINT_TIMEOUT", "10s")
	viper.SetDefault("PRINT_ASSETS_TIMEOUT", "3s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.DBConnectTimeout = durationOrDefault("DB_CONNECT_TIMEOUT", 30*time.Second)
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", 12*time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "exchange-office"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.SerialPrefix = strings.ToUpper(strings.TrimSpace(viper.GetString("SERIAL_PREFIX")))
	if !isLetters(cfg.SerialPrefix) {
		return nil, fmt.Errorf("SERIAL_PREFIX %q must contain only letters", cfg.SerialPrefix)
	}
	cfg.DefaultCurrencies = splitList(strings.ToUpper(viper.GetString("DEFAULT_CURRENCIES")))
	cfg.RejectUnknownCurrencies = viper.GetBool("REJECT_UNKNOWN_CURRENCIES")

	cfg.OfficeTagline = viper.GetString("OFFICE_TAGLINE")
	cfg.OfficeName = viper.GetString("OFFICE_NAME")
	cfg.OfficeSubtitle = viper.GetString("OFFICE_SUBTITLE")
	cfg.OfficeAddress = viper.GetString("OFFICE_ADDRESS")
	cfg.OfficePhone = viper.GetString("OFFICE_PHONE")
	cfg.PrinterName = viper.GetString("PRINTER_NAME")

	tz := viper.GetString("OFFICE_TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: Invalid OFFICE_TIMEZONE ('%s'). Defaulting to UTC.\n", tz)
		loc = time.UTC
	}
	cfg.OfficeLocation = loc

	cfg.PrintDriver = strings.ToLower(viper.GetString("PRINT_DRIVER"))
	switch cfg.PrintDriver {
	case PrintDriverSpool, PrintDriverHTTP, PrintDriverNone:
	default:
		return nil, fmt.Errorf("PRINT_DRIVER %q must be one of %s, %s, %s", cfg.PrintDriver, PrintDriverSpool, PrintDriverHTTP, PrintDriverNone)
	}
	cfg.PrintAgentURL = strings.TrimRight(viper.GetString("PRINT_AGENT_URL"), "/")
	cfg.PrintSpoolDir = viper.GetString("PRINT_SPOOL_DIR")
	cfg.PrintTimeout = durationOrDefault("PRINT_TIMEOUT", 10*time.Second)
	cfg.PrintAssetsTimeout = durationOrDefault("PRINT_ASSETS_TIMEOUT", 3*time.Second)

	return cfg, nil
}

// durationOrDefault parses key as a duration, logging and falling back on bad values.
func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
