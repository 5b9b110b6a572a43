package config

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string
	JWTSecret   string
	APIPrefix   string
	Env         string
	TimeZone    string
}

type ClientConfig struct {
	BaseURL   string
	TokenFile string
}

var AppConfig *Config

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: databaseURL(),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisPass:   getEnv("REDIS_PASS", ""),
		JWTSecret:   getEnv("JWT_SECRET", "retail-transfers-dev-secret"),
		APIPrefix:   "/" + strings.Trim(getEnv("API_PREFIX", "/api"), "/"),
		Env:         getEnv("APP_ENV", "production"),
		TimeZone:    getEnv("TZ_NAME", "Asia/Yangon"),
	}
	AppConfig = cfg
	return cfg
}

func LoadClient() *ClientConfig {
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	return &ClientConfig{
		BaseURL:   strings.TrimRight(getEnv("RETAIL_API_BASE_URL", "http://localhost:8080/api"), "/"),
		TokenFile: getEnv("RETAIL_TOKEN_FILE", home+"/.retail-transfers/token"),
	}
}

func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	if os.Getenv("LOCAL_DB") == "true" {
		return "host=localhost port=5432 user=postgres dbname=retail_transfers sslmode=disable"
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// NewLogger returns a production zap logger, or a development one when APP_ENV=development.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// SetTimeZone sets time.Local so calendar days match the shop's clock.
func SetTimeZone(name string, log *zap.Logger) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("failed to load time zone, keeping default", zap.String("tz", name), zap.Error(err))
		return
	}
	time.Local = loc
	log.Info("application time zone set", zap.String("tz", loc.String()))
}

func InitDB(cfg *Config, log *zap.Logger) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set (or set LOCAL_DB=true)")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Info("testing database connection")
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("database connected")
	return db, nil
}

// InitRedis returns nil when no address is configured; callers then run without a cache.
func InitRedis(cfg *Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, caching disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
}
