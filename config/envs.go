package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP          string   // Host IP for the server
	RESTPort        int      // Port for the REST API
	GinMode         string   // Mode for the Gin framework (e.g., release, debug, test)
	APIKey          string   // Key guarding simulation routes; empty leaves them open
	ReportStore     string   // Report backend: memory, mongo, postgres or sqlite
	DBHost          string   // Hostname or IP address for MongoDB
	DBPort          int      // Port number for MongoDB
	DBUser          string   // Username for MongoDB
	DBPassword      string   // Password for MongoDB
	DBName          string   // Name of the MongoDB database
	PostgresURL     string   // Connection string for PostgreSQL
	SQLitePath      string   // Database file for SQLite
	RedisAddr       string   // Redis address; empty disables the report cache
	RedisPassword   string   // Password for Redis
	CacheTTLSeconds int      // Lifetime of cached reports
	MoveBudget      int      // Default moves allowed per run
	MaxMoveBudget   int      // Largest budget a request may ask for
	WatchFrameMS    int      // Delay between streamed watch frames
	WatchOrigins    []string // Browser origins allowed to open watch streams; empty means same origin only
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:          getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:        getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:         getEnvWithDefault("GIN_MODE", "release"),
		APIKey:          getEnvWithDefault("API_KEY", ""),
		ReportStore:     getEnvWithDefault("REPORT_STORE", "memory"),
		DBHost:          getEnvWithDefault("DB_HOST", ""),
		DBPort:          getEnvAsIntWithDefault("DB_PORT", 27017),
		DBUser:          getEnvWithDefault("DB_USER", ""),
		DBPassword:      getEnvWithDefault("DB_PASS", ""),
		DBName:          getEnvWithDefault("DB_NAME", "picobot"),
		PostgresURL:     getEnvWithDefault("POSTGRES_URL", ""),
		SQLitePath:      getEnvWithDefault("SQLITE_PATH", "picobot.db"),
		RedisAddr:       getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword:   getEnvWithDefault("REDIS_PASS", ""),
		CacheTTLSeconds: getEnvAsIntWithDefault("CACHE_TTL_SECONDS", 3600),
		MoveBudget:      getEnvAsIntWithDefault("MOVE_BUDGET", 1000000),
		MaxMoveBudget:   getEnvAsIntWithDefault("MAX_MOVE_BUDGET", 10000000),
		WatchFrameMS:    getEnvAsIntWithDefault("WATCH_FRAME_MS", 50),
		WatchOrigins:    getEnvAsListWithDefault("WATCH_ORIGINS", nil),
	}
}

// MustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
// Backends call it for settings only they need.
func MustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves an integer environment variable or returns a default value if not set.
// A value that cannot be parsed is fatal.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvAsListWithDefault splits a comma separated environment variable, dropping empty items.
func getEnvAsListWithDefault(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
