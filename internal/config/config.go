package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	GRPC      GRPCConfig      `yaml:"grpc" toml:"grpc"`
	Store     StoreConfig     `yaml:"store" toml:"store"`
	Firebase  FirebaseConfig  `yaml:"firebase" toml:"firebase"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	JWT       JWTConfig       `yaml:"jwt" toml:"jwt"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	SendGrid  SendGridConfig  `yaml:"sendgrid" toml:"sendgrid"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
	Scheduler SchedulerConfig `yaml:"scheduler" toml:"scheduler"`
	Settings  SettingsConfig  `yaml:"settings" toml:"settings"`
	Engine    EngineConfig    `yaml:"engine" toml:"engine"`
}

// ServerConfig contains HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Host            string `yaml:"host" toml:"host"`
	Port            int    `yaml:"port" toml:"port"`
	ReadTimeout     int    `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    int    `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout     int    `yaml:"idle_timeout" toml:"idle_timeout"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// GRPCConfig contains the health/reflection server settings
type GRPCConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	Port    int  `yaml:"port" toml:"port"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver string `yaml:"driver" toml:"driver"` // "firestore" or "postgres"
}

// FirebaseConfig contains Firestore project settings
type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id" toml:"project_id"`
	CredentialsFile string `yaml:"credentials_file" toml:"credentials_file"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string `yaml:"host" toml:"host"`
	Port            int    `yaml:"port" toml:"port"`
	User            string `yaml:"user" toml:"user"`
	Password        string `yaml:"password" toml:"password"`
	Database        string `yaml:"database" toml:"database"`
	SSLMode         string `yaml:"ssl_mode" toml:"ssl_mode"`
	MaxOpenConns    int    `yaml:"max_open_conns" toml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns" toml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_seconds" toml:"conn_max_lifetime_seconds"`
	AutoMigrate     bool   `yaml:"auto_migrate" toml:"auto_migrate"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret" toml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes" toml:"access_token_expiry_minutes"`
}

// Operator is a staff login allowed to request API tokens.
type Operator struct {
	Username     string `yaml:"username" toml:"username"`
	PasswordHash string `yaml:"password_hash" toml:"password_hash"` // bcrypt
}

// AuthConfig lists the operators of the shop
type AuthConfig struct {
	Operators []Operator `yaml:"operators" toml:"operators"`
}

// SendGridConfig contains reminder e-mail settings. An empty API key disables sending.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key" toml:"api_key"`
	FromEmail string `yaml:"from_email" toml:"from_email"`
	FromName  string `yaml:"from_name" toml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" toml:"format"` // "json" or "text"
}

// MetricsConfig contains Prometheus settings
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Path      string `yaml:"path" toml:"path"`
	Namespace string `yaml:"namespace" toml:"namespace"`
}

// SchedulerConfig contains cron schedule settings (with seconds, UTC)
type SchedulerConfig struct {
	RecomputeCustomerStats string `yaml:"recompute_customer_stats" toml:"recompute_customer_stats"`
	SendDeliveryReminders  string `yaml:"send_delivery_reminders" toml:"send_delivery_reminders"`
	SendReturnReminders    string `yaml:"send_return_reminders" toml:"send_return_reminders"`
}

// SettingsConfig holds the shop preferences shown to staff
type SettingsConfig struct {
	BusinessName   string   `yaml:"business_name" toml:"business_name" json:"business_name"`
	CurrencySymbol string   `yaml:"currency_symbol" toml:"currency_symbol" json:"currency_symbol"`
	DateFormat     string   `yaml:"date_format" toml:"date_format" json:"date_format"`
	TimeFormat     string   `yaml:"time_format" toml:"time_format" json:"time_format"`
	Categories     []string `yaml:"categories" toml:"categories" json:"categories"`
	Colors         []string `yaml:"colors" toml:"colors" json:"colors"`
}

// EngineConfig holds the booking policies
type EngineConfig struct {
	ActiveBookingPolicy          string `yaml:"active_booking_policy" toml:"active_booking_policy"`
	AvailabilityIncludeCompleted bool   `yaml:"availability_include_completed" toml:"availability_include_completed"`
}

const (
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
)

// Load reads configuration from a YAML or TOML file, picked by extension
func Load(configPath string) (*Config, error) {
	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Store
	if val := os.Getenv("STORE_DRIVER"); val != "" {
		c.Store.Driver = val
	}

	// Firebase
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Firebase.ProjectID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" && c.Firebase.CredentialsFile == "" {
		c.Firebase.CredentialsFile = val
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
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.GRPC.Enabled && (c.GRPC.Port <= 0 || c.GRPC.Port > 65535) {
		return fmt.Errorf("invalid grpc port: %d", c.GRPC.Port)
	}

	// Store validation
	if c.Store.Driver == "" {
		c.Store.Driver = DriverFirestore
	}
	switch c.Store.Driver {
	case DriverFirestore:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("firebase project id is required")
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
		if c.Database.MaxOpenConns == 0 {
			c.Database.MaxOpenConns = 10
		}
		if c.Database.MaxIdleConns == 0 {
			c.Database.MaxIdleConns = 5
		}
		if c.Database.ConnMaxLifetime == 0 {
			c.Database.ConnMaxLifetime = 300
		}
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 720
	}

	for i, op := range c.Auth.Operators {
		if op.Username == "" || op.PasswordHash == "" {
			return fmt.Errorf("operator %d needs a username and password hash", i+1)
		}
	}

	if c.SendGrid.APIKey != "" && c.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from_email is required when an api key is set")
	}

	// Metrics defaults
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "wardrobe"
	}

	// Scheduler defaults
	if c.Scheduler.RecomputeCustomerStats == "" {
		c.Scheduler.RecomputeCustomerStats = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendDeliveryReminders == "" {
		c.Scheduler.SendDeliveryReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.SendReturnReminders == "" {
		c.Scheduler.SendReturnReminders = "0 30 8 * * *" // 8:30 AM UTC
	}

	// Settings defaults
	if c.Settings.CurrencySymbol == "" {
		c.Settings.CurrencySymbol = "₹"
	}
	if c.Settings.DateFormat == "" {
		c.Settings.DateFormat = "DD/MM/YYYY"
	}
	if c.Settings.TimeFormat == "" {
		c.Settings.TimeFormat = "hh:mm A"
	}

	// Engine defaults
	switch c.Engine.ActiveBookingPolicy {
	case "":
		c.Engine.ActiveBookingPolicy = "exclude-completed"
	case "exclude-completed", "exclude-completed-and-postponed":
	default:
		return fmt.Errorf("unknown active booking policy: %q", c.Engine.ActiveBookingPolicy)
	}

	return nil
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
	return fmt.Sprintf("%s:%d", c.Server.Host, c.GRPC.Port)
}
