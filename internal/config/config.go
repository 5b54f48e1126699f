package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

type Config struct {
	Env                 string        // dev, prod
	LogLevel            string        // zerolog level name
	DataDir             string        // directory holding per-entity data files
	Store               string        // file or sqlite
	SQLitePath          string        // database path when Store is sqlite
	BusinessOpenHour    int           // first bookable hour of day
	BusinessCloseHour   int           // first non-bookable hour of day
	AppointmentDuration time.Duration // fixed slot length
	BillDueTerm         time.Duration // issue date + term = due date
	ExpirySoonWindow    time.Duration // supplies expiring within this window raise alerts
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                 getEnv("APP_ENV", "dev"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DataDir:             getEnv("CLINIC_DATA_DIR", "data"),
		Store:               getEnv("CLINIC_STORE", StoreFile),
		SQLitePath:          getEnv("CLINIC_SQLITE_PATH", "data/clinic.db"),
		BusinessOpenHour:    getInt("BUSINESS_HOURS_OPEN", 8),
		BusinessCloseHour:   getInt("BUSINESS_HOURS_CLOSE", 18),
		AppointmentDuration: getDuration("APPOINTMENT_DURATION", 30*time.Minute),
		BillDueTerm:         getDuration("BILL_DUE_TERM", 30*24*time.Hour),
		ExpirySoonWindow:    getDuration("EXPIRY_SOON_WINDOW", 30*24*time.Hour),
	}

	if cfg.Store != StoreFile && cfg.Store != StoreSQLite {
		return Config{}, fmt.Errorf("CLINIC_STORE must be %q or %q, got %q", StoreFile, StoreSQLite, cfg.Store)
	}
	if cfg.BusinessOpenHour < 0 || cfg.BusinessCloseHour > 24 || cfg.BusinessOpenHour >= cfg.BusinessCloseHour {
		return Config{}, fmt.Errorf("invalid business hours [%d,%d)", cfg.BusinessOpenHour, cfg.BusinessCloseHour)
	}
	if cfg.AppointmentDuration <= 0 {
		return Config{}, fmt.Errorf("APPOINTMENT_DURATION must be positive, got %s", cfg.AppointmentDuration)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid integer for %s=%q, using default %d\n", key, v, def)
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
