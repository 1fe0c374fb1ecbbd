package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Contact  ServiceConfig  `yaml:"contact" mapstructure:"contact"`
	Accounts ServiceConfig  `yaml:"accounts" mapstructure:"accounts"`
	Payments ServiceConfig  `yaml:"payments" mapstructure:"payments"`
	Payoff   ServiceConfig  `yaml:"payoff" mapstructure:"payoff"`
	Activity ActivityConfig `yaml:"activity" mapstructure:"activity"`
	Imagery  ImageryConfig  `yaml:"imagery" mapstructure:"imagery"`
	Policy   PolicyConfig   `yaml:"policy" mapstructure:"policy"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServiceConfig holds connection settings for one backend service.
type ServiceConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Key         string  `yaml:"key" mapstructure:"key"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// ActivityConfig configures the site-activity logging service.
type ActivityConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Enabled       bool `yaml:"enabled" mapstructure:"enabled"`
}

// ImageryConfig configures vehicle image URL construction.
type ImageryConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Production bool   `yaml:"production" mapstructure:"production"`
}

// PolicyConfig points at the account-status policy file. An empty path
// means the built-in default policy.
type PolicyConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONTRACTHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("contact.timeout_secs", 10)
	v.SetDefault("accounts.timeout_secs", 15)
	v.SetDefault("payments.timeout_secs", 10)
	v.SetDefault("payoff.timeout_secs", 20)
	v.SetDefault("activity.timeout_secs", 5)
	v.SetDefault("activity.enabled", true)
	v.SetDefault("imagery.production", false)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings required to reach the backend services
// are present. The store driver is validated lazily when the store opens.
func (c *Config) Validate() error {
	required := []struct{ key, val string }{
		{"contact.base_url", c.Contact.BaseURL},
		{"accounts.base_url", c.Accounts.BaseURL},
		{"payments.base_url", c.Payments.BaseURL},
		{"payoff.base_url", c.Payoff.BaseURL},
	}
	for _, r := range required {
		if r.val == "" {
			return eris.Errorf("config: %s is required (CONTRACTHUB_%s)",
				r.key, strings.ToUpper(strings.ReplaceAll(r.key, ".", "_")))
		}
	}
	if c.Activity.Enabled && c.Activity.BaseURL == "" {
		return eris.New("config: activity.base_url is required when activity logging is enabled")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
