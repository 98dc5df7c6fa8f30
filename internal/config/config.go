package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Telemetry TelemetryConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	DBSlowQuery       time.Duration

	Warehouse  WarehouseConfig
	Cache      CacheConfig
	Browse     BrowseConfig
	Summarizer SummarizerConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
}

// WarehouseConfig points at the read-only database holding the inventory
// views. Unset connection fields fall back to the metadata database.
type WarehouseConfig struct {
	Type     string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	// Snapshot scans are expected to be slower than metadata lookups.
	SlowQuery time.Duration

	AppsTable      string
	TeamAppsTable  string
	UsageTable     string
	TeamUsageTable string
	DirectoryTable string
}

// TelemetryConfig covers logging and trace export.
type TelemetryConfig struct {
	LogLevel      string
	LogFormat     string
	OTLPEndpoint  string
	OTelEnabled   bool
	SamplingRatio float64
}

type CacheConfig struct {
	InventoryTTL time.Duration
	UsageTTL     time.Duration
	MetadataTTL  time.Duration
	IdentityTTL  time.Duration
}

type BrowseConfig struct {
	AppBaseURL         string
	PreferredOwnerRole string
	ViewerHeader       string
}

type SummarizerConfig struct {
	Enabled bool
	APIKey  string
	Model   string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type RateLimitConfig struct {
	SummarizeRate    float64
	SummarizeBurst   int
	SummarizeLockTTL time.Duration
}

const DefaultAppBaseURL = "https://app.snowflake.com/sfcogsops/snowhouse_aws_us_west_2/#/streamlit-apps/"

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "appinventory"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "appinventory"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		DBSlowQuery:       getenvDuration("DATABASE_SLOW_QUERY", 200*time.Millisecond),
	}

	endpoint := strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "")))
	cfg.Telemetry = TelemetryConfig{
		LogLevel:      strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		LogFormat:     strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
		OTLPEndpoint:  endpoint,
		OTelEnabled:   getenvBool("OTEL_ENABLED", endpoint != ""),
		SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
	}

	cfg.Warehouse = WarehouseConfig{
		Type:           getenv("WAREHOUSE_TYPE", cfg.DBType),
		Host:           getenv("WAREHOUSE_HOST", cfg.DBHost),
		Port:           getenv("WAREHOUSE_PORT", cfg.DBPort),
		Name:           getenv("WAREHOUSE_NAME", cfg.DBName),
		User:           getenv("WAREHOUSE_USER", cfg.DBUser),
		Password:       getenv("WAREHOUSE_PASSWORD", cfg.DBPassword),
		SSLMode:        getenv("WAREHOUSE_SSLMODE", cfg.DBSSLMode),
		SlowQuery:      getenvDuration("WAREHOUSE_SLOW_QUERY", 2*time.Second),
		AppsTable:      getenv("WAREHOUSE_APPS_TABLE", "streamlit_apps_with_org"),
		TeamAppsTable:  getenv("WAREHOUSE_TEAM_APPS_TABLE", "streamlit_apps_ps_only"),
		UsageTable:     getenv("WAREHOUSE_USAGE_TABLE", "streamlit_app_usage"),
		TeamUsageTable: getenv("WAREHOUSE_TEAM_USAGE_TABLE", "streamlit_app_usage_ps_only"),
		DirectoryTable: getenv("WAREHOUSE_DIRECTORY_TABLE", "employee_directory"),
	}

	cfg.Cache = CacheConfig{
		InventoryTTL: getenvDuration("CACHE_INVENTORY_TTL", 8*time.Hour),
		UsageTTL:     getenvDuration("CACHE_USAGE_TTL", time.Hour),
		MetadataTTL:  getenvDuration("CACHE_METADATA_TTL", 60*time.Second),
		IdentityTTL:  getenvDuration("CACHE_IDENTITY_TTL", time.Hour),
	}

	cfg.Browse = BrowseConfig{
		AppBaseURL:         getenv("APP_BASE_URL", DefaultAppBaseURL),
		PreferredOwnerRole: getenv("PREFERRED_OWNER_ROLE", "TECHNICAL_ACCOUNT_MANAGER"),
		ViewerHeader:       getenv("VIEWER_HEADER", "X-Forwarded-User"),
	}

	apiKey := strings.TrimSpace(getenv("GEMINI_API_KEY", ""))
	cfg.Summarizer = SummarizerConfig{
		Enabled: getenvBool("SUMMARIZER_ENABLED", apiKey != ""),
		APIKey:  apiKey,
		Model:   getenv("SUMMARIZER_MODEL", "gemini-2.5-flash"),
		Timeout: getenvDuration("SUMMARIZER_TIMEOUT", 30*time.Second),
	}

	cfg.Redis = RedisConfig{
		Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       getenvInt("REDIS_DB", 0),
	}

	cfg.RateLimit = RateLimitConfig{
		SummarizeRate:    getenvFloat("SUMMARIZE_RATE_PER_SEC", 0.1),
		SummarizeBurst:   getenvInt("SUMMARIZE_BURST", 3),
		SummarizeLockTTL: getenvDuration("SUMMARIZE_LOCK_TTL", time.Minute),
	}

	return cfg
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewCatalog),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

// getenvDuration accepts Go durations ("90s", "8h") or whole seconds.
func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return def
}
