package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/beststarli/double-token-demo/pkg/constant"
)

const (
	DefaultPort                   = constant.DefaultPort
	DefaultAccessTokenExpiryMin   = constant.DefaultAccessTokenExpiryMin
	DefaultRefreshTokenExpiryMin  = constant.DefaultRefreshTokenExpiryMin
	DefaultCleanupIntervalMinutes = constant.DefaultCleanupIntervalMinutes
)

type Config struct {
	Env                    string
	Port                   string
	DBURL                  string
	AccessTokenSecret      string
	RefreshTokenSecret     string
	AccessExpiryMin        int
	RefreshExpiryMin       int
	RotateRefreshOnUse     bool
	CleanupIntervalMinutes int
	LogLevel               string
	LogPretty              bool
}

// Load reads configuration from config/.env.<env> (if present) and the
// process environment, with the environment taking precedence.
func Load() *Config {
	env := getEnv("ENV", "development")

	envFile := "config/.env.dev"
	if env == "production" {
		envFile = "config/.env.prod"
	}
	// Missing file is fine; real env vars may carry everything.
	_ = godotenv.Load(envFile)

	return &Config{
		Env:                    env,
		Port:                   getEnv("PORT", DefaultPort),
		DBURL:                  mustGetEnv("DB_URL"),
		AccessTokenSecret:      mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:     mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:        getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:       getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		RotateRefreshOnUse:     getEnvAsBool("ROTATE_REFRESH_ON_USE", false),
		CleanupIntervalMinutes: getEnvAsInt("CLEANUP_INTERVAL_MINUTES", DefaultCleanupIntervalMinutes),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogPretty:              getEnvAsBool("LOG_PRETTY", env == "development"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultVal)
		return defaultVal
	}
	return val
}
