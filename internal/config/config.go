package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultFacilityTZ     = "Europe/Madrid"
	defaultSlotResetCron  = "0 15 * * *"
	defaultDBQueryTimeout = 5 * time.Second
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 10
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	// FacilityTZ is the IANA zone of the kitchen. Every "now" in the
	// ordering flow is read in this zone.
	FacilityTZ     string
	SlotResetCron  string
	DBQueryTimeout time.Duration

	// RabbitMQURL is optional. Event publishing is disabled when empty.
	RabbitMQURL string

	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:         os.Getenv("DB_HOST"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPort:         os.Getenv("DB_PORT"),
		AppPort:        os.Getenv("APP_PORT"),
		AppEnv:         os.Getenv("APP_ENV"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		FacilityTZ:     getEnv("FACILITY_TZ", defaultFacilityTZ),
		SlotResetCron:  getEnv("SLOT_RESET_CRON", defaultSlotResetCron),
		DBQueryTimeout: getDuration("DB_QUERY_TIMEOUT", defaultDBQueryTimeout),
		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", defaultRateLimitBurst),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}
