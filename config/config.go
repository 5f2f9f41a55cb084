package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Secrets have no defaults in code and must come from env files or the environment.
type AppConfig struct {
	AppPort        string
	Env            string
	JWTSecret      string
	AccessTokenTTL time.Duration
	// Database
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis backs the token blacklist; empty host keeps it in memory
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// HTTP
	AllowedOrigins     []string
	RateLimitPerMinute int
	GinMode            string
	GinPath            string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Uploads
	UploadDir     string
	MaxUploadSize int64
	// Quote source
	QuoteAPIURL  string
	QuoteTimeout time.Duration
	// Tracker rules
	Timezone            string
	MaxNotesLength      int
	DefaultPagesGoal    int
	DefaultVideosGoal   int
	HistoryDefaultLimit int
	HistoryMaxLimit     int
}

// Load builds the configuration. Precedence, lowest first:
// config/config.json -> defaults -> environment (including .env files).
func Load() (AppConfig, error) {
	var cfg AppConfig

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env.dev"
	}
	for _, f := range []string{envFile, ".env"} {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}

	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	applyEnvLogLevel(&cfg)

	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET must be set in environment variables")
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// loadJSONConfig reads grouped sections from path if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if f, ok := m[key].(float64); ok {
			return int(f)
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		b, _ := m[key].(bool)
		return b
	}
	getStringSlice := func(m map[string]any, key string) []string {
		arr, ok := m[key].([]any)
		if !ok {
			return nil
		}
		res := make([]string, 0, len(arr))
		for _, it := range arr {
			if s, ok := it.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.Env = getString(app, "Env")
		out.JWTSecret = getString(app, "JWTSecret")
		if v := getInt(app, "AccessTokenTTLMinutes"); v != 0 {
			out.AccessTokenTTL = time.Duration(v) * time.Minute
		}
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		out.AllowedOrigins = getStringSlice(app, "AllowedOrigins")
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		out.GinMode = getString(g, "Mode")
		out.GinPath = getString(g, "LogPath")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DBDriver = getString(dbs, "Driver")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	if up, ok := raw["upload"].(map[string]any); ok {
		out.UploadDir = getString(up, "Dir")
		out.MaxUploadSize = int64(getInt(up, "MaxSizeBytes"))
	}

	if q, ok := raw["quote"].(map[string]any); ok {
		out.QuoteAPIURL = getString(q, "APIURL")
		if v := getInt(q, "TimeoutSec"); v != 0 {
			out.QuoteTimeout = time.Duration(v) * time.Second
		}
	}

	if tr, ok := raw["tracker"].(map[string]any); ok {
		out.Timezone = getString(tr, "Timezone")
		out.MaxNotesLength = getInt(tr, "MaxNotesLength")
		out.DefaultPagesGoal = getInt(tr, "DefaultPagesGoal")
		out.DefaultVideosGoal = getInt(tr, "DefaultVideosGoal")
		out.HistoryDefaultLimit = getInt(tr, "HistoryDefaultLimit")
		out.HistoryMaxLimit = getInt(tr, "HistoryMaxLimit")
	}

	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8000"
	}
	if c.Env == "" {
		c.Env = "dev"
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 10080 * time.Minute
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = 5 * 1024 * 1024
	}
	if c.QuoteAPIURL == "" {
		c.QuoteAPIURL = "https://api.quotable.io/quotes/random?tags=wisdom"
	}
	if c.QuoteTimeout == 0 {
		c.QuoteTimeout = 10 * time.Second
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.MaxNotesLength == 0 {
		c.MaxNotesLength = 5000
	}
	if c.DefaultPagesGoal == 0 {
		c.DefaultPagesGoal = 10
	}
	if c.DefaultVideosGoal == 0 {
		c.DefaultVideosGoal = 1
	}
	if c.HistoryDefaultLimit == 0 {
		c.HistoryDefaultLimit = 30
	}
	if c.HistoryMaxLimit == 0 {
		c.HistoryMaxLimit = 365
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.Env = getEnv("APP_ENV", c.Env)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	if v := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 0); v > 0 {
		c.AccessTokenTTL = time.Duration(v) * time.Minute
	}

	c.DBDriver = strings.ToLower(getEnv("DB_DRIVER", c.DBDriver))
	c.DatabaseURI = getEnv("DATABASE_URL", c.DatabaseURI)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)

	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnvInt("REDIS_PORT", c.RedisPort)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.GinPath = getEnv("GIN_LOG_PATH", c.GinPath)

	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogPath = getEnv("LOG_PATH", c.LogPath)

	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	if v := getEnvInt("MAX_UPLOAD_SIZE", 0); v > 0 {
		c.MaxUploadSize = int64(v)
	}

	c.QuoteAPIURL = getEnv("QUOTE_API_URL", c.QuoteAPIURL)
	if v := getEnvInt("QUOTE_TIMEOUT_SEC", 0); v > 0 {
		c.QuoteTimeout = time.Duration(v) * time.Second
	}

	c.Timezone = getEnv("TIMEZONE", c.Timezone)
	c.MaxNotesLength = getEnvInt("MAX_NOTES_LENGTH", c.MaxNotesLength)
}

// applyEnvLogLevel derives the log level from the environment name unless set explicitly.
func applyEnvLogLevel(c *AppConfig) {
	if c.LogLevel != "" {
		return
	}
	switch c.Env {
	case "dev":
		c.LogLevel = "debug"
	case "prod":
		c.LogLevel = "warn"
	default:
		c.LogLevel = "info"
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
