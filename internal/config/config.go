package config

import (
	"os"
	"strconv"
	"time"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceAPI      = "api"
)

type Config struct {
	App struct {
		Debug    bool
		JSONLogs bool
	}
	Data struct {
		Source         string
		NEOsPath       string
		ApproachesPath string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}
	Redis struct {
		Enabled  bool
		Host     string
		Port     string
		Password string
		DB       int
		TTL      time.Duration
	}
	NASA struct {
		CADURL    string
		SBDBURL   string
		DateMin   string
		DateMax   string
		DistMax   string
		Timeout   time.Duration
		RateLimit float64
		RateBurst int
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.JSONLogs = getEnvAsBool("LOG_JSON", false)

	// Источник данных
	cfg.Data.Source = getEnv("NEO_SOURCE", SourceFile)
	cfg.Data.NEOsPath = getEnv("NEO_FILE", "data/neos.csv")
	cfg.Data.ApproachesPath = getEnv("CAD_FILE", "data/cad.json")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "neowatch")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", false)
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)
	cfg.Redis.TTL = getEnvAsDuration("REDIS_TTL", 6*time.Hour)

	// NASA JPL SSD API
	cfg.NASA.CADURL = getEnv("NASA_CAD_URL", "https://ssd-api.jpl.nasa.gov/cad.api")
	cfg.NASA.SBDBURL = getEnv("NASA_SBDB_URL", "https://ssd-api.jpl.nasa.gov/sbdb_query.api")
	cfg.NASA.DateMin = getEnv("NASA_CAD_DATE_MIN", "1900-01-01")
	cfg.NASA.DateMax = getEnv("NASA_CAD_DATE_MAX", "2200-12-31")
	cfg.NASA.DistMax = getEnv("NASA_CAD_DIST_MAX", "0.05")
	cfg.NASA.Timeout = getEnvAsDuration("NASA_TIMEOUT", 60*time.Second)
	cfg.NASA.RateLimit = getEnvAsFloat("NASA_RATE_LIMIT", 1)
	cfg.NASA.RateBurst = getEnvAsInt("NASA_RATE_BURST", 1)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
