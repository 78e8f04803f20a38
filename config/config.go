package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	JWTExpireHours     int
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Storage backend: mongo, mysql or sqlite
	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	MongoMaxPool  int
	DatabaseURI   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	SQLitePath    string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Redis for caching, token blacklist and registration counters
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	RedisDisabled bool
	// RabbitMQ mirror of analytics events; disabled when URL is empty
	AMQPURL      string
	AMQPExchange string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Registration security
	RegisterMaxPerIPPerDay        int
	RegisterAttemptCooldownSec    int
	RegisterFailedMaxPerIPPerHour int
	RegisterTempBanMinutes        int
	// Cache TTLs in seconds
	CourseCacheTTLSec      int
	LeaderboardCacheTTLSec int
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.RWMutex
)

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}

	// Precedence: config/config.json -> defaults -> .env -> environment variable overrides
	if err := loadJSONConfig(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Printf("invalid config/config.json: %v", err)
	}

	applyDefaults(&cfg)

	// .env only fills variables that are not already exported
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	mu.RLock()
	if loaded {
		c := cfg
		mu.RUnlock()
		return c
	}
	mu.RUnlock()
	return Load()
}

// Set replaces the cached configuration. Defaults are applied to zero values.
func Set(c AppConfig) {
	applyDefaults(&c)
	mu.Lock()
	cfg = c
	loaded = true
	mu.Unlock()
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// fileConfig mirrors the grouped layout of config/config.json.
type fileConfig struct {
	App struct {
		AppPort            string   `json:"AppPort"`
		JWTSecret          string   `json:"JWTSecret"`
		JWTExpireHours     int      `json:"JWTExpireHours"`
		RateLimitPerMinute int      `json:"RateLimitPerMinute"`
		AllowedOrigins     []string `json:"AllowedOrigins"`
	} `json:"app"`
	Store struct {
		Driver        string `json:"Driver"`
		MongoURI      string `json:"MongoURI"`
		MongoDatabase string `json:"MongoDatabase"`
		MongoMaxPool  int    `json:"MongoMaxPool"`
		DatabaseURI   string `json:"DatabaseURI"`
		DBHost        string `json:"DBHost"`
		DBPort        string `json:"DBPort"`
		DBUser        string `json:"DBUser"`
		DBPassword    string `json:"DBPassword"`
		DBName        string `json:"DBName"`
		SQLitePath    string `json:"SQLitePath"`
	} `json:"store"`
	Redis struct {
		RedisHost     string `json:"RedisHost"`
		RedisPort     int    `json:"RedisPort"`
		RedisDB       int    `json:"RedisDB"`
		RedisPassword string `json:"RedisPassword"`
		Disabled      bool   `json:"Disabled"`
	} `json:"redis"`
	AMQP struct {
		URL      string `json:"URL"`
		Exchange string `json:"Exchange"`
	} `json:"amqp"`
	Log struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		GinMode    string `json:"GinMode"`
		GinPath    string `json:"GinPath"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   bool   `json:"Compress"`
	} `json:"log"`
	Register struct {
		MaxPerIPPerDay        int `json:"MaxPerIPPerDay"`
		AttemptCooldownSec    int `json:"AttemptCooldownSec"`
		FailedMaxPerIPPerHour int `json:"FailedMaxPerIPPerHour"`
		TempBanMinutes        int `json:"TempBanMinutes"`
	} `json:"register"`
	Cache struct {
		CourseTTLSec      int `json:"CourseTTLSec"`
		LeaderboardTTLSec int `json:"LeaderboardTTLSec"`
	} `json:"cache"`
}

// loadJSONConfig reads JSON file into out if present. Returns error only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var fc fileConfig
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return err
	}

	out.AppPort = fc.App.AppPort
	out.JWTSecret = fc.App.JWTSecret
	out.JWTExpireHours = fc.App.JWTExpireHours
	out.RateLimitPerMinute = fc.App.RateLimitPerMinute
	out.AllowedOrigins = fc.App.AllowedOrigins

	out.StoreDriver = fc.Store.Driver
	out.MongoURI = fc.Store.MongoURI
	out.MongoDatabase = fc.Store.MongoDatabase
	out.MongoMaxPool = fc.Store.MongoMaxPool
	out.DatabaseURI = fc.Store.DatabaseURI
	out.DBHost = fc.Store.DBHost
	out.DBPort = fc.Store.DBPort
	out.DBUser = fc.Store.DBUser
	out.DBPassword = fc.Store.DBPassword
	out.DBName = fc.Store.DBName
	out.SQLitePath = fc.Store.SQLitePath

	out.RedisHost = fc.Redis.RedisHost
	out.RedisPort = fc.Redis.RedisPort
	out.RedisDB = fc.Redis.RedisDB
	out.RedisPassword = fc.Redis.RedisPassword
	out.RedisDisabled = fc.Redis.Disabled

	out.AMQPURL = fc.AMQP.URL
	out.AMQPExchange = fc.AMQP.Exchange

	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.GinMode = fc.Log.GinMode
	out.GinPath = fc.Log.GinPath
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress

	out.RegisterMaxPerIPPerDay = fc.Register.MaxPerIPPerDay
	out.RegisterAttemptCooldownSec = fc.Register.AttemptCooldownSec
	out.RegisterFailedMaxPerIPPerHour = fc.Register.FailedMaxPerIPPerHour
	out.RegisterTempBanMinutes = fc.Register.TempBanMinutes

	out.CourseCacheTTLSec = fc.Cache.CourseTTLSec
	out.LeaderboardCacheTTLSec = fc.Cache.LeaderboardTTLSec
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5000"
	}
	if c.JWTExpireHours == 0 {
		c.JWTExpireHours = 24
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.StoreDriver == "" {
		c.StoreDriver = "mongo"
	}
	if c.MongoURI == "" {
		c.MongoURI = "mongodb://localhost:27017"
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = "eduquest"
	}
	if c.MongoMaxPool == 0 {
		c.MongoMaxPool = 100
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "eduquest"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "eduquest.db"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.AMQPExchange == "" {
		c.AMQPExchange = "eduquest.events"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	// Registration hardening defaults
	if c.RegisterMaxPerIPPerDay == 0 {
		c.RegisterMaxPerIPPerDay = 5
	}
	if c.RegisterAttemptCooldownSec == 0 {
		c.RegisterAttemptCooldownSec = 10
	}
	if c.RegisterFailedMaxPerIPPerHour == 0 {
		c.RegisterFailedMaxPerIPPerHour = 20
	}
	if c.RegisterTempBanMinutes == 0 {
		c.RegisterTempBanMinutes = 60
	}
	if c.CourseCacheTTLSec == 0 {
		c.CourseCacheTTLSec = 3600
	}
	if c.LeaderboardCacheTTLSec == 0 {
		c.LeaderboardCacheTTLSec = 60
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("JWT_SECRET", ""); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("JWT_EXPIRE_HOURS", ""); v != "" {
		c.JWTExpireHours = mustParseInt(v)
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("STORE_DRIVER", ""); v != "" {
		c.StoreDriver = strings.ToLower(v)
	}
	if v := getEnv("MONGODB_URI", ""); v != "" {
		c.MongoURI = v
	}
	if v := getEnv("MONGODB_DATABASE", ""); v != "" {
		c.MongoDatabase = v
	}
	if v := getEnv("MONGODB_MAX_POOL", ""); v != "" {
		c.MongoMaxPool = mustParseInt(v)
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("SQLITE_PATH", ""); v != "" {
		c.SQLitePath = v
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("REDIS_DISABLED", ""); v != "" {
		c.RedisDisabled = v == "true"
	}
	if v := getEnv("AMQP_URL", ""); v != "" {
		c.AMQPURL = v
	}
	if v := getEnv("AMQP_EXCHANGE", ""); v != "" {
		c.AMQPExchange = v
	}
	// Logging env overrides
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	// Registration env overrides
	if v := getEnv("REGISTER_MAX_PER_IP_PER_DAY", ""); v != "" {
		c.RegisterMaxPerIPPerDay = mustParseInt(v)
	}
	if v := getEnv("REGISTER_ATTEMPT_COOLDOWN_SEC", ""); v != "" {
		c.RegisterAttemptCooldownSec = mustParseInt(v)
	}
	if v := getEnv("REGISTER_FAILED_MAX_PER_IP_PER_HOUR", ""); v != "" {
		c.RegisterFailedMaxPerIPPerHour = mustParseInt(v)
	}
	if v := getEnv("REGISTER_TEMP_BAN_MINUTES", ""); v != "" {
		c.RegisterTempBanMinutes = mustParseInt(v)
	}
	if v := getEnv("COURSE_CACHE_TTL_SEC", ""); v != "" {
		c.CourseCacheTTLSec = mustParseInt(v)
	}
	if v := getEnv("LEADERBOARD_CACHE_TTL_SEC", ""); v != "" {
		c.LeaderboardCacheTTLSec = mustParseInt(v)
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
