package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"dicepot/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseName     string `env:"DATABASE_NAME"`
	DatabaseMaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"10"`

	// HTTP API
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":3001"`
	CORSOrigin      string        `env:"CORS_ORIGIN" envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Authentication
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`

	// Game settings
	StartingBalance     decimal.Decimal   `env:"STARTING_BALANCE" envDefault:"100.00"`
	AllowedStakes       []decimal.Decimal `env:"ALLOWED_STAKES" envDefault:"5,10,20,50"`
	DailyStakeLimit     decimal.Decimal   `env:"DAILY_STAKE_LIMIT" envDefault:"500"` // zero disables the limit
	DailyLimitResetHour int               `env:"DAILY_LIMIT_RESET_HOUR" envDefault:"0"`
	CashOutRequireGain  bool              `env:"CASHOUT_REQUIRE_GAIN" envDefault:"true"`

	// Discord configuration, bot disabled when the token is empty
	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID"`

	// NATS, event forwarding disabled when the URL is empty
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"dicepot.events"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL combines the base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsStakeAllowed reports whether a stake is permitted. An empty list allows any stake.
func (c *Config) IsStakeAllowed(stake decimal.Decimal) bool {
	if len(c.AllowedStakes) == 0 {
		return true
	}
	for _, allowed := range c.AllowedStakes {
		if allowed.Equal(stake) {
			return true
		}
	}
	return false
}

// DailyLimitEnabled reports whether the daily stake limit is enforced
func (c *Config) DailyLimitEnabled() bool {
	return c.DailyStakeLimit.IsPositive()
}

// BotEnabled reports whether the Discord surface should start
func (c *Config) BotEnabled() bool {
	return c.DiscordToken != ""
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	if c.DailyLimitResetHour < 0 || c.DailyLimitResetHour > 23 {
		return fmt.Errorf("DAILY_LIMIT_RESET_HOUR must be between 0 and 23, got %d", c.DailyLimitResetHour)
	}
	if c.DailyStakeLimit.IsNegative() {
		return fmt.Errorf("DAILY_STAKE_LIMIT cannot be negative")
	}
	if c.StartingBalance.IsNegative() {
		return fmt.Errorf("STARTING_BALANCE cannot be negative")
	}
	for _, stake := range c.AllowedStakes {
		if !stake.IsPositive() {
			return fmt.Errorf("ALLOWED_STAKES must all be positive, got %s", stake)
		}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	if c.Environment != "test" {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required")
		}
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:    ":0",
		CORSOrigin:  "*",
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
		Environment: "test",
		LogLevel:    "debug",
		LogFormat:   "text",

		StartingBalance: decimal.RequireFromString("100.00"),
		AllowedStakes: []decimal.Decimal{
			decimal.NewFromInt(5),
			decimal.NewFromInt(10),
			decimal.NewFromInt(20),
			decimal.NewFromInt(50),
		},
		DailyStakeLimit:     decimal.NewFromInt(500),
		DailyLimitResetHour: 0,
		CashOutRequireGain:  true,
		NATSSubjectPrefix:   "dicepot.events",
	}
}
