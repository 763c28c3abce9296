package config

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Fines     FinesConfig     `yaml:"fines"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC health server settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort int    `yaml:"grpc_port"`
}

// APIConfig points at the library REST backend
type APIConfig struct {
	BaseURL              string `yaml:"base_url"`
	TimeoutSeconds       int    `yaml:"timeout_seconds"`
	FetchTimeoutSeconds  int    `yaml:"fetch_timeout_seconds"`
	ReturnTimeoutSeconds int    `yaml:"return_timeout_seconds"`
}

// FinesConfig contains late fee settings
type FinesConfig struct {
	DailyRate      string `yaml:"daily_rate"` // minor currency units per day
	Location       string `yaml:"location"`   // IANA zone used to decide "today"
	MaxAttempts    int    `yaml:"max_attempts"`
	RetryBackoffMs int    `yaml:"retry_backoff_ms"`
	// MaxReconcileAttempts parks an outbox entry as FAILED after this many
	// failed deliveries.
	MaxReconcileAttempts int `yaml:"max_reconcile_attempts"`
}

// DatabaseConfig contains PostgreSQL connection settings for the fine outbox
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains the secret shared with the library backend
type JWTConfig struct {
	Secret                string `yaml:"secret"`
	ServiceSubject        string `yaml:"service_subject"`
	ServiceTokenExpiryMin int    `yaml:"service_token_expiry_minutes"`
}

// SendGridConfig contains overdue digest email settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	DigestTo  string `yaml:"digest_to"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RetryPendingFines string `yaml:"retry_pending_fines"`
	SendOverdueDigest string `yaml:"send_overdue_digest"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and validates the result
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Backend
	if val := os.Getenv("LIBRARY_API_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("FINE_DAILY_RATE"); val != "" {
		c.Fines.DailyRate = val
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = c.Server.Port + 1
	}

	// Backend validation
	if c.API.BaseURL == "" {
		return fmt.Errorf("library API base URL is required")
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 30
	}
	if c.API.FetchTimeoutSeconds <= 0 {
		c.API.FetchTimeoutSeconds = 10
	}
	if c.API.ReturnTimeoutSeconds <= 0 {
		c.API.ReturnTimeoutSeconds = 15
	}

	// Fines validation
	if c.Fines.DailyRate == "" {
		c.Fines.DailyRate = "1000"
	}
	rate, err := decimal.NewFromString(c.Fines.DailyRate)
	if err != nil {
		return fmt.Errorf("invalid fine daily rate %q: %w", c.Fines.DailyRate, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("fine daily rate must not be negative: %s", rate)
	}
	if c.Fines.Location == "" {
		c.Fines.Location = "Asia/Jakarta"
	}
	if _, err := time.LoadLocation(c.Fines.Location); err != nil {
		return fmt.Errorf("invalid fines location %q: %w", c.Fines.Location, err)
	}
	if c.Fines.MaxAttempts <= 0 {
		c.Fines.MaxAttempts = 3
	}
	if c.Fines.RetryBackoffMs <= 0 {
		c.Fines.RetryBackoffMs = 500
	}
	if c.Fines.MaxReconcileAttempts <= 0 {
		c.Fines.MaxReconcileAttempts = 10
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.ServiceSubject == "" {
		c.JWT.ServiceSubject = "libratrack-cronjob"
	}
	if c.JWT.ServiceTokenExpiryMin <= 0 {
		c.JWT.ServiceTokenExpiryMin = 15
	}

	// SendGrid defaults
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "LibraTrack"
	}

	// Scheduler defaults
	if c.Scheduler.RetryPendingFines == "" {
		c.Scheduler.RetryPendingFines = "0 */10 * * * *" // every 10 minutes
	}
	if c.Scheduler.SendOverdueDigest == "" {
		c.Scheduler.SendOverdueDigest = "0 0 1 * * *" // 1 AM UTC
	}

	return nil
}

// DailyRate returns the configured late fee per day
func (c *Config) DailyRate() decimal.Decimal {
	rate, err := decimal.NewFromString(c.Fines.DailyRate)
	if err != nil {
		return decimal.NewFromInt(1000)
	}
	return rate
}

// FinesLocation returns the zone in which "today" is decided
func (c *Config) FinesLocation() *time.Location {
	loc, err := time.LoadLocation(c.Fines.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FetchTimeout bounds the parallel collection fetch
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.API.FetchTimeoutSeconds) * time.Second
}

// ReturnTimeout bounds the two-step return and fine sequence
func (c *Config) ReturnTimeout() time.Duration {
	return time.Duration(c.API.ReturnTimeoutSeconds) * time.Second
}

// FineLandingWindow is how long before an outbox entry was queued its fine
// may already have reached the backend: the whole return sequence plus slack
// for clock skew.
func (c *Config) FineLandingWindow() time.Duration {
	return c.ReturnTimeout() + time.Minute
}

// ClientTimeout is the per-request HTTP client timeout
func (c *Config) ClientTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RetryBackoff is the pause between in-process fine creation attempts
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Fines.RetryBackoffMs) * time.Millisecond
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the gRPC health server address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
