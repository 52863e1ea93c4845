package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Paddle   PaddleConfig   `mapstructure:"paddle"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CheckoutConfig holds checkout flow configuration.
type CheckoutConfig struct {
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	ConfirmationTTL    time.Duration `mapstructure:"confirmation_ttl"`
	GatewayCallTimeout time.Duration `mapstructure:"gateway_call_timeout"`
	GatewayConfigTTL   time.Duration `mapstructure:"gateway_config_ttl"`
	DefaultCountryCode string        `mapstructure:"default_country_code"`
}

// StripeConfig holds Stripe provider configuration.
type StripeConfig struct {
	APIKey        string `mapstructure:"api_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// PaddleConfig holds Paddle provider configuration.
type PaddleConfig struct {
	APIKey          string `mapstructure:"api_key"`
	WebhookSecret   string `mapstructure:"webhook_secret"`
	Environment     string `mapstructure:"environment"` // production, sandbox
	CheckoutBaseURL string `mapstructure:"checkout_base_url"`
}

// AdminConfig holds admin API configuration.
type AdminConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/votely")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	// Read from environment variables
	v.SetEnvPrefix("VOTELY")
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Override with environment variables for sensitive values
	if password := os.Getenv("VOTELY_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("VOTELY_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if key := os.Getenv("VOTELY_STRIPE_API_KEY"); key != "" {
		cfg.Stripe.APIKey = key
	}
	if secret := os.Getenv("VOTELY_STRIPE_WEBHOOK_SECRET"); secret != "" {
		cfg.Stripe.WebhookSecret = secret
	}
	if key := os.Getenv("VOTELY_PADDLE_API_KEY"); key != "" {
		cfg.Paddle.APIKey = key
	}
	if secret := os.Getenv("VOTELY_PADDLE_WEBHOOK_SECRET"); secret != "" {
		cfg.Paddle.WebhookSecret = secret
	}
	if secret := os.Getenv("VOTELY_ADMIN_JWT_SECRET"); secret != "" {
		cfg.Admin.JWTSecret = secret
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "votely")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Checkout defaults
	v.SetDefault("checkout.session_ttl", 24*time.Hour)
	v.SetDefault("checkout.confirmation_ttl", 60*time.Second)
	v.SetDefault("checkout.gateway_call_timeout", 10*time.Second)
	v.SetDefault("checkout.gateway_config_ttl", 60*time.Second)
	v.SetDefault("checkout.default_country_code", "US")

	// Paddle defaults
	v.SetDefault("paddle.environment", "production")
	v.SetDefault("paddle.checkout_base_url", "https://pay.paddle.com/checkout")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
