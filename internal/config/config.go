// Package config
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address        string
	Interval       time.Duration
	LogLevel       string
	LogFormat      string
	DataDir        string
	DBPath         string
	ExtensionsDir  string
	JWTSecret      string
	JWTExpiry      time.Duration
	AllowedOrigins []string
}

func Load() *Config {
	godotenv.Load()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	interval := 5 * time.Second
	if raw := os.Getenv("SAMPLE_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "text"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = dataDir + "/pulseboard.db"
	}

	extensionsDir := os.Getenv("EXTENSIONS_DIR")
	if extensionsDir == "" {
		extensionsDir = dataDir + "/extensions"
	}

	jwtExpiry := 24 * time.Hour
	if raw := os.Getenv("JWT_EXPIRY"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			jwtExpiry = parsed
		}
	}

	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, origin := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return &Config{
		Address:        addr,
		Interval:       interval,
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		DataDir:        dataDir,
		DBPath:         dbPath,
		ExtensionsDir:  extensionsDir,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      jwtExpiry,
		AllowedOrigins: origins,
	}
}
