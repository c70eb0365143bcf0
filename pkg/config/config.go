package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Bookings BookingsConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig selects PostgreSQL storage when URL is set; otherwise the
// service keeps everything in memory.
type DatabaseConfig struct {
	URL         string
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
}

type RedisConfig struct {
	URL            string
	Password       string
	DB             int
	ScheduleTTL    time.Duration
	IdempotencyTTL time.Duration
}

type NATSConfig struct {
	URL string
}

type BookingsConfig struct {
	Timezone        string
	AllowPastDates  bool
	SeedDefaults    bool
	MaxCalendarDays int

	// CreateRateLimit caps POST /bookings per client IP and window; 0 disables it.
	CreateRateLimit  int
	CreateRateWindow time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8082"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			MaxConns:    getInt("DB_MAX_CONNS", 10),
			MinConns:    getInt("DB_MIN_CONNS", 1),
			MaxLifetime: getDuration("DB_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			URL:            getEnv("REDIS_URL", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getInt("REDIS_DB", 0),
			ScheduleTTL:    getDuration("REDIS_SCHEDULE_TTL", 5*time.Minute),
			IdempotencyTTL: getDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Bookings: BookingsConfig{
			Timezone:         getEnv("BOOKINGS_TIMEZONE", "UTC"),
			AllowPastDates:   getBool("BOOKINGS_ALLOW_PAST_DATES", false),
			SeedDefaults:     getBool("BOOKINGS_SEED_DEFAULTS", true),
			MaxCalendarDays:  getInt("BOOKINGS_MAX_CALENDAR_DAYS", 62),
			CreateRateLimit:  getInt("BOOKINGS_CREATE_RATE_LIMIT", 10),
			CreateRateWindow: getDuration("BOOKINGS_CREATE_RATE_WINDOW", time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
	}
}

// Location resolves the configured booking timezone, falling back to UTC.
func (c BookingsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
