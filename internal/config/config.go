package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"gold-price-alerts/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Activity  ActivityConfig  `mapstructure:"activity"`
	State     StateConfig     `mapstructure:"state"`
	History   HistoryConfig   `mapstructure:"history"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Export    ExportConfig    `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// AgentConfig covers the agent-execution service.
type AgentConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	AgentID        string        `mapstructure:"agent_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// SchedulerConfig covers the schedule-management service.
type SchedulerConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ActivityConfig covers the agent activity event stream.
type ActivityConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	WSURL       string        `mapstructure:"ws_url"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// StateConfig locates local key-value persistence.
type StateConfig struct {
	Path string `mapstructure:"path"`
}

// HistoryConfig bounds the execution-log window.
type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

// DefaultsConfig seeds alert settings on first run.
type DefaultsConfig struct {
	Frequency   string `mapstructure:"frequency"`
	TriggerTime string `mapstructure:"trigger_time"`
	Timezone    string `mapstructure:"timezone"`
	Unit        string `mapstructure:"unit"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GOLDALERT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "goldalert")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_size_mb", 20)
	v.SetDefault("logging.max_backups", 3)

	v.SetDefault("agent.base_url", "http://localhost:8000")
	v.SetDefault("agent.agent_id", "gold-price-manager")
	v.SetDefault("agent.request_timeout", "60s")
	v.SetDefault("agent.user_agent", "goldalert/1.0")

	v.SetDefault("scheduler.base_url", "http://localhost:8000")
	v.SetDefault("scheduler.request_timeout", "15s")

	v.SetDefault("activity.enabled", true)
	v.SetDefault("activity.ws_url", "ws://localhost:8000/ws/activity")
	v.SetDefault("activity.dial_timeout", "10s")

	v.SetDefault("state.path", "goldalert.state.json")

	v.SetDefault("history.limit", 20)

	v.SetDefault("defaults.frequency", "daily")
	v.SetDefault("defaults.trigger_time", "09:00")
	v.SetDefault("defaults.timezone", "UTC")
	v.SetDefault("defaults.unit", "ounce")

	v.SetDefault("export.max_data_points", 5000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Agent.BaseURL == "" {
		return fmt.Errorf("agent.base_url is required")
	}
	if c.Agent.AgentID == "" {
		return fmt.Errorf("agent.agent_id is required")
	}
	if c.Scheduler.BaseURL == "" {
		return fmt.Errorf("scheduler.base_url is required")
	}
	if c.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("history.limit must be greater than zero")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}

// ResolveHistoryLimit returns either the CLI override or config default.
func (c *Config) ResolveHistoryLimit(override int) int {
	if override > 0 {
		return override
	}
	return c.History.Limit
}
