package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkhouse/backend/internal/domain/shared/valueobject"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Email    EmailConfig
	Royalty  RoyaltyConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// StorageConfig holds object storage (S3-compatible) settings
type StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// EmailConfig holds SMTP transport settings
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Enabled switches between the real SMTP transport and the recording
	// stub; development environments run with the stub.
	Enabled bool
}

// RoyaltyConfig holds royalty engine tuning
type RoyaltyConfig struct {
	// Currency is the tenant-configured statement currency (ISO 4217)
	Currency string
	// BatchWorkers bounds concurrent author processing in a batch run
	BatchWorkers int
	// StageTimeout is the wall-clock budget of one pipeline stage
	StageTimeout time.Duration
	// DeliveryMaxAttempts is the email retry budget
	DeliveryMaxAttempts int
	// DeliveryBaseDelay is the initial retry backoff, doubling per attempt
	DeliveryBaseDelay time.Duration
}

// Load reads configuration from config.yaml and INKHOUSE_* environment
// variables. Environment variables override file values; a missing config
// file is not an error because every key has a default.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("INKHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "inkhouse")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "inkhouse")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 30)
	v.SetDefault("database.connmaxidletime", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "inkhouse")
	v.SetDefault("jwt.expiration", 24*time.Hour)

	v.SetDefault("storage.endpoint", "http://localhost:9000")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "inkhouse-statements")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.usepathstyle", true)
	v.SetDefault("storage.presignexpiration", 15*time.Minute)

	v.SetDefault("email.host", "localhost")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from", "royalties@inkhouse.example")
	v.SetDefault("email.enabled", false)

	v.SetDefault("royalty.currency", "USD")
	v.SetDefault("royalty.batchworkers", 4)
	v.SetDefault("royalty.stagetimeout", 2*time.Minute)
	v.SetDefault("royalty.deliverymaxattempts", 3)
	v.SetDefault("royalty.deliverybasedelay", time.Second)
}

// Validate checks the configuration for values that cannot work at runtime
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return errors.New("app.port is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port %d is out of range", c.Database.Port)
	}
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return errors.New("jwt.secret is required in production")
	}
	if !valueobject.Currency(c.Royalty.Currency).IsValid() {
		return fmt.Errorf("royalty.currency %q is not a supported currency code", c.Royalty.Currency)
	}
	if c.Royalty.BatchWorkers <= 0 {
		return errors.New("royalty.batchworkers must be positive")
	}
	if c.Royalty.StageTimeout <= 0 {
		return errors.New("royalty.stagetimeout must be positive")
	}
	if c.Royalty.DeliveryMaxAttempts <= 0 {
		return errors.New("royalty.deliverymaxattempts must be positive")
	}
	if c.Email.Enabled && c.Email.Host == "" {
		return errors.New("email.host is required when email is enabled")
	}
	return nil
}

// DSN returns the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// IsProduction reports whether the app runs in the production environment
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}
