package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
	defaultActivationTTL   = 30 * time.Minute
)

// Config is the process configuration, read once at start-up.
type Config struct {
	Port  string
	GoEnv string // development or production

	DatabaseURL      string // preferred over the POSTGRES_* values when set
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ActivationTTL   time.Duration

	RedisURL string

	// Search is disabled when ElasticsearchURL is empty.
	ElasticsearchURL    string
	ElasticsearchAPIKey string

	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	MailSender           string
	CustomerServiceEmail string

	APIDomain    string // base URL for links in emails
	FEURL        string // CORS origin
	RateLimitRPS float64
	OTELEnabled  bool
}

// LoadDotenv reads .env files when present. Missing files are not an error.
func LoadDotenv(files ...string) {
	_ = godotenv.Load(files...)
}

func Load() (Config, error) {
	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "development"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       getenv("POSTGRES_DB", "gmice"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisURL: getenv("REDIS_URL", "redis://localhost:6379/0"),

		ElasticsearchURL:    os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchAPIKey: os.Getenv("ELASTICSEARCH_API_KEY"),

		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		MailSender:           getenv("MAIL_SENDER", "no-reply@gmice.local"),
		CustomerServiceEmail: os.Getenv("CUSTOMER_SERVICE_EMAIL"),

		APIDomain: getenv("API_DOMAIN", "http://localhost:8080"),
		FEURL:     getenv("FE_URL", "http://localhost:3000"),
	}

	var err error
	if cfg.PostgresPort, err = atoiDefault("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.SMTPPort, err = atoiDefault("SMTP_PORT", 587); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = durationDefault("ACCESS_TOKEN_TTL", defaultAccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = durationDefault("REFRESH_TOKEN_TTL", defaultRefreshTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.ActivationTTL, err = durationDefault("ACTIVATION_TTL", defaultActivationTTL); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = floatDefault("RATE_LIMIT_RPS", 2); err != nil {
		return Config{}, err
	}
	if cfg.OTELEnabled, err = boolDefault("OTEL_ENABLED", false); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" && cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("DATABASE_URL or POSTGRES_PASSWORD is required")
	}
	if cfg.CustomerServiceEmail == "" {
		return Config{}, fmt.Errorf("CUSTOMER_SERVICE_EMAIL is required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return Config{}, fmt.Errorf("token lifetimes must be positive")
	}

	return cfg, nil
}

// DSN returns DATABASE_URL or a DSN assembled from the POSTGRES_* values.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func floatDefault(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return f, nil
}

func boolDefault(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be boolean: %w", key, err)
	}
	return b, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
