package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	UpstreamHTTP    = "http"
	UpstreamFixture = "fixture"
)

type Config struct {
	ServerPort string
	Env        string
	LogLevel   string

	UpstreamMode     string
	UpstreamBaseURL  string
	AppointmentsPath string
	UpstreamTimeout  time.Duration
	RetryAttempts    int

	RefreshInterval time.Duration
	CacheTTL        time.Duration
	PageSize        int
	ClinicTimezone  string

	RedisURL  string
	DBUrl     string
	NatsURL   string
	JWTSecret string
}

func Load() *Config {
	// .env é opcional
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Env:        getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		UpstreamMode:     getEnv("UPSTREAM_MODE", UpstreamHTTP),
		UpstreamBaseURL:  getEnv("UPSTREAM_BASE_URL", "http://localhost:3000/api"),
		AppointmentsPath: getEnv("UPSTREAM_APPOINTMENTS_PATH", "/appointments"),
		UpstreamTimeout:  getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		RetryAttempts:    getInt("FETCH_RETRY_ATTEMPTS", 1),

		RefreshInterval: getDuration("REFRESH_INTERVAL", 30*time.Second),
		CacheTTL:        getDuration("CACHE_TTL", 45*time.Second),
		PageSize:        getInt("PAGE_SIZE", 10),
		ClinicTimezone:  getEnv("CLINIC_TIMEZONE", "America/Sao_Paulo"),

		RedisURL:  os.Getenv("REDIS_URL"),
		DBUrl:     os.Getenv("DATABASE_URL"),
		NatsURL:   os.Getenv("NATS_URL"),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) AppointmentsURL() string {
	return c.UpstreamBaseURL + c.AppointmentsPath
}
