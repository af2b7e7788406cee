// Package config loads application settings from the environment. A local
// .env file is read when present so development does not require exporting
// variables by hand.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the server needs.
type Config struct {
	Env  string
	Port string

	DBUser string
	DBPass string
	DBHost string
	DBPort int
	DBName string

	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int

	// PaymentDelayMS simulates gateway latency on charge requests.
	PaymentDelayMS int
	// DocumentDir is where uploaded documents are stored on disk.
	DocumentDir string
}

// Load reads the environment and returns a populated Config. Missing
// required variables are fatal.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:  getenv("APP_ENV", "development"),
		Port: getenv("PORT", "8080"),

		DBUser: must("DB_USER"),
		DBPass: must("DB_PASS"),
		DBHost: getenv("DB_HOST", "127.0.0.1"),
		DBPort: mustInt("DB_PORT", 3306),
		DBName: must("DB_NAME"),

		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TTL_MIN", 15),
		RefreshTTLDays: mustInt("REFRESH_TTL_DAYS", 30),
		BcryptCost:     mustInt("BCRYPT_COST", 12),

		PaymentDelayMS: mustInt("PAYMENT_DELAY_MS", 400),
		DocumentDir:    getenv("DOCUMENT_DIR", "./data/documents"),
	}
}

func must(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required environment variable %s", key)
	}
	return v
}

func mustInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("environment variable %s must be an integer, got %q", key, v)
	}
	return n
}
