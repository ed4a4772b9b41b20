package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/yourusername/tribo-console/internal/backend"
)

// EnvPrefix is prepended to every environment variable, e.g. TRIBO_BACKEND_URL
const EnvPrefix = "TRIBO"

// Config holds the application configuration
type Config struct {
	// Backend configuration
	BackendURL     string
	RequestTimeout time.Duration // 0 disables the client-side deadline

	// Scheduler configuration
	StatusInterval time.Duration
	LogInterval    time.Duration

	// Console configuration
	LogNearBottom   int // lines from the bottom that still count as "at the bottom"
	DefaultCategory backend.Category
	Commands        []string // predefined command tokens

	// Simulator configuration
	SimulatorAddr   string
	SimulatorImages string

	// Observability
	LogLevel    string
	LogFormat   string // "json" or "text"
	LogFile     string // used by the terminal UI, which owns stdout
	MetricsPort int
	HealthPort  int
}

// Defaults returns the configuration used when nothing else is set
func Defaults() *Config {
	return &Config{
		BackendURL:      "http://127.0.0.1:8088",
		RequestTimeout:  0,
		StatusInterval:  2 * time.Second,
		LogInterval:     time.Second,
		LogNearBottom:   3,
		DefaultCategory: backend.CategoryTrial,
		Commands:        []string{"s", "z"},
		SimulatorAddr:   "127.0.0.1:8088",
		SimulatorImages: "graficos",
		LogLevel:        "info",
		LogFormat:       "json",
		LogFile:         "tribo-console.log",
		MetricsPort:     9090,
		HealthPort:      8080,
	}
}

// Load reads defaults, then the optional YAML file at path, then TRIBO_* environment variables
func Load(path string) (*Config, error) {
	def := Defaults()

	v := viper.New()
	v.SetDefault("backend_url", def.BackendURL)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("status_interval", def.StatusInterval)
	v.SetDefault("log_interval", def.LogInterval)
	v.SetDefault("log_near_bottom", def.LogNearBottom)
	v.SetDefault("default_category", string(def.DefaultCategory))
	v.SetDefault("commands", def.Commands)
	v.SetDefault("simulator_addr", def.SimulatorAddr)
	v.SetDefault("simulator_images", def.SimulatorImages)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("metrics_port", def.MetricsPort)
	v.SetDefault("health_port", def.HealthPort)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	category, err := backend.ParseCategory(v.GetString("default_category"))
	if err != nil {
		return nil, fmt.Errorf("default_category: %w", err)
	}

	cfg := &Config{
		BackendURL:      strings.TrimSpace(v.GetString("backend_url")),
		RequestTimeout:  v.GetDuration("request_timeout"),
		StatusInterval:  v.GetDuration("status_interval"),
		LogInterval:     v.GetDuration("log_interval"),
		LogNearBottom:   v.GetInt("log_near_bottom"),
		DefaultCategory: category,
		Commands:        commands(v),
		SimulatorAddr:   v.GetString("simulator_addr"),
		SimulatorImages: v.GetString("simulator_images"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		LogFile:         v.GetString("log_file"),
		MetricsPort:     v.GetInt("metrics_port"),
		HealthPort:      v.GetInt("health_port"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the engine cannot run without
func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("backend_url must be an absolute http(s) URL, got: %q", c.BackendURL)
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("status_interval must be positive, got: %s", c.StatusInterval)
	}
	if c.LogInterval <= 0 {
		return fmt.Errorf("log_interval must be positive, got: %s", c.LogInterval)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got: %s", c.RequestTimeout)
	}
	if c.LogNearBottom < 0 {
		return fmt.Errorf("log_near_bottom must not be negative, got: %d", c.LogNearBottom)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log_format must be either 'json' or 'text', got: %s", c.LogFormat)
	}
	return nil
}

// commands accepts both YAML lists and comma separated env values
func commands(v *viper.Viper) []string {
	if s, ok := v.Get("commands").(string); ok {
		return splitCommands([]string{s})
	}
	return splitCommands(v.GetStringSlice("commands"))
}

func splitCommands(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
