package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Webhook     WebhookConfig  `mapstructure:"webhook"`
	Escrow      EscrowConfig   `mapstructure:"escrow"`
	Soroban     SorobanConfig  `mapstructure:"soroban"`
	Redis       RedisConfig    `mapstructure:"redis"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"timeFormat"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// AuthConfig contains access-token settings. JWTSecret has no default and
// must come from the environment.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwtSecret"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"` // minutes
	Issuer    string        `mapstructure:"issuer"`
}

// WebhookConfig contains settings for the inbound escrow webhook. An empty
// Secret disables the endpoint entirely rather than leaving it open.
type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}

// EscrowConfig contains escrow lifecycle settings
type EscrowConfig struct {
	SweepInterval time.Duration `mapstructure:"sweepInterval"` // seconds
}

// SorobanConfig identifies the ledger contracts invocation payloads target
type SorobanConfig struct {
	RPCURL            string `mapstructure:"rpcUrl"`
	NetworkPassphrase string `mapstructure:"networkPassphrase"`
	EscrowContractID  string `mapstructure:"escrowContractId"`
	LoanContractID    string `mapstructure:"loanContractId"`
}

// RedisConfig contains settings for the rate limiter backend. An empty Addr
// disables rate limiting.
type RedisConfig struct {
	Addr             string        `mapstructure:"addr"`
	Password         string        `mapstructure:"password"`
	DB               int           `mapstructure:"db"`
	RateLimit        int           `mapstructure:"rateLimit"`
	RateLimitWindow  time.Duration `mapstructure:"rateLimitWindow"` // seconds
}
