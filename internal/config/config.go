package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Narrative providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Narrative failure policies.
const (
	FailurePolicyAbort   = "abort"
	FailurePolicyDegrade = "degrade"
)

// DevJWTSecret is the signing key used when AUTH_JWT_SECRET is unset. It is rejected when auth is enabled.
const DevJWTSecret = "dev-secret"

// Order data sources.
const (
	OrdersSourceFile     = "file"
	OrdersSourcePostgres = "postgres"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Data      DataConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Logger    LoggerConfig
	Narrative NarrativeConfig
	Auth      AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DataConfig locates the static reference collections. Empty paths select the embedded defaults.
type DataConfig struct {
	OrdersPath   string
	IssuesPath   string
	RepliesPath  string
	OrdersSource string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	EventsChannel string
}

// KafkaConfig configures the triage outcome topic. No brokers disables publishing.
type KafkaConfig struct {
	Brokers     []string
	TriageTopic string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Format      string
	Development bool
}

// NarrativeConfig configures the evidence/recommendation generator.
type NarrativeConfig struct {
	Provider       string
	BaseURL        string
	Model          string
	APIKey         string
	Temperature    float64
	TimeoutSeconds int
	FailurePolicy  string
}

// AuthConfig defines API authentication parameters.
type AuthConfig struct {
	Enabled               bool
	JWTSecret             string
	AccessTokenTTLMinutes int
	ClientID              string
	ClientSecretHash      string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	temperature, err := strconv.ParseFloat(getEnv("NARRATIVE_TEMPERATURE", "0.1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid NARRATIVE_TEMPERATURE: %w", err)
	}

	provider := strings.ToLower(getEnv("NARRATIVE_PROVIDER", ProviderOpenAI))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-triage-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Data: DataConfig{
			OrdersPath:   os.Getenv("DATA_ORDERS_PATH"),
			IssuesPath:   os.Getenv("DATA_ISSUES_PATH"),
			RepliesPath:  os.Getenv("DATA_REPLIES_PATH"),
			OrdersSource: strings.ToLower(getEnv("DATA_ORDERS_SOURCE", OrdersSourceFile)),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:          os.Getenv("REDIS_ADDR"),
			Password:      os.Getenv("REDIS_PASSWORD"),
			DB:            redisDB,
			EventsChannel: os.Getenv("REDIS_EVENTS_CHANNEL"),
		},
		Kafka: KafkaConfig{
			Brokers:     getEnvAsList("KAFKA_BROKERS"),
			TriageTopic: getEnv("KAFKA_TRIAGE_TOPIC", "ticket-triage-events"),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			Development: getEnv("APP_ENV", "development") == "development",
		},
		Narrative: NarrativeConfig{
			Provider:       provider,
			BaseURL:        getEnv("NARRATIVE_BASE_URL", defaultBaseURL(provider)),
			Model:          getEnv("NARRATIVE_MODEL", defaultModel(provider)),
			APIKey:         narrativeAPIKey(provider),
			Temperature:    temperature,
			TimeoutSeconds: getEnvAsInt("NARRATIVE_TIMEOUT_SECONDS", 20),
			FailurePolicy:  strings.ToLower(getEnv("NARRATIVE_FAILURE_POLICY", FailurePolicyAbort)),
		},
		Auth: AuthConfig{
			Enabled:               getEnvAsBool("AUTH_ENABLED", false),
			JWTSecret:             getEnv("AUTH_JWT_SECRET", DevJWTSecret),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			ClientID:              os.Getenv("AUTH_CLIENT_ID"),
			ClientSecretHash:      os.Getenv("AUTH_CLIENT_SECRET_HASH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects enumerated settings outside their allowed values.
func (c *Config) Validate() error {
	switch c.Narrative.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("invalid NARRATIVE_PROVIDER %q", c.Narrative.Provider)
	}
	switch c.Narrative.FailurePolicy {
	case FailurePolicyAbort, FailurePolicyDegrade:
	default:
		return fmt.Errorf("invalid NARRATIVE_FAILURE_POLICY %q", c.Narrative.FailurePolicy)
	}
	switch c.Data.OrdersSource {
	case OrdersSourceFile:
	case OrdersSourcePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("DATA_ORDERS_SOURCE=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("invalid DATA_ORDERS_SOURCE %q", c.Data.OrdersSource)
	}
	if c.Auth.Enabled && (c.Auth.ClientID == "" || c.Auth.ClientSecretHash == "") {
		return fmt.Errorf("AUTH_ENABLED requires AUTH_CLIENT_ID and AUTH_CLIENT_SECRET_HASH")
	}
	if c.Auth.Enabled && (strings.TrimSpace(c.Auth.JWTSecret) == "" || c.Auth.JWTSecret == DevJWTSecret) {
		return fmt.Errorf("AUTH_ENABLED requires AUTH_JWT_SECRET to be set to a non-default value")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout bounds a single generator call. Zero means unbounded.
func (n NarrativeConfig) Timeout() time.Duration {
	if n.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// Degrade reports whether generator failures leave the run intact.
func (n NarrativeConfig) Degrade() bool {
	return n.FailurePolicy == FailurePolicyDegrade
}

func defaultBaseURL(provider string) string {
	if provider == ProviderGemini {
		return ""
	}
	return "https://api.groq.com/openai/v1"
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return "llama-3.1-8b-instant"
}

func narrativeAPIKey(provider string) string {
	if key := os.Getenv("NARRATIVE_API_KEY"); key != "" {
		return key
	}
	if provider == ProviderGemini {
		return os.Getenv("GEMINI_API_KEY")
	}
	return os.Getenv("GROQ_API_KEY")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
