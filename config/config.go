package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Execnotify ExecnotifyConfig `yaml:"execnotify"`
	Feed       FeedConfig       `yaml:"feed"`
	Dedup      DedupConfig      `yaml:"dedup"`
	Notify     NotifyConfig     `yaml:"notify"`
	Health     HealthConfig     `yaml:"health"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`

	// Credentials are never read from the YAML file; LoadConfig resolves
	// them from the environment.
	Credentials Credentials `yaml:"-"`
}

type ExecnotifyConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type FeedConfig struct {
	Environment         string          `yaml:"environment"`
	Topics              []string        `yaml:"topics"`
	AuthWindow          time.Duration   `yaml:"auth_window"`
	PingInterval        time.Duration   `yaml:"ping_interval"`
	PongTimeout         time.Duration   `yaml:"pong_timeout"`
	ReconnectDelay      time.Duration   `yaml:"reconnect_delay"`
	TradeOnly           *bool           `yaml:"trade_executions_only"`
	Endpoints           EndpointsConfig `yaml:"endpoints"`
	Rest                EndpointsConfig `yaml:"rest"`
}

type EndpointsConfig struct {
	Mainnet string `yaml:"mainnet"`
	Testnet string `yaml:"testnet"`
}

type DedupConfig struct {
	Window int `yaml:"window"`
}

type NotifyConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	Rate           RateConfig    `yaml:"rate"`
	StartupMessage bool          `yaml:"startup_message"`
}

type RateConfig struct {
	EventsPerSecond float64 `yaml:"events_per_second"`
	Burst           int     `yaml:"burst"`
}

type HealthConfig struct {
	Enabled            bool          `yaml:"enabled"`
	Address            string        `yaml:"address"`
	StalenessThreshold time.Duration `yaml:"staleness_threshold"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type MetricsConfig struct {
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
}

// Credentials holds the secrets resolved from the environment.
type Credentials struct {
	APIKey          string
	APISecret       string
	SlackWebhookURL string
}

func LoadConfig(path string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Feed: FeedConfig{
			Topics:         []string{"execution"},
			AuthWindow:     10 * time.Second,
			PingInterval:   20 * time.Second,
			PongTimeout:    10 * time.Second,
			ReconnectDelay: 5 * time.Second,
		},
		Dedup: DedupConfig{Window: 1000},
		Notify: NotifyConfig{
			Timeout:        10 * time.Second,
			StartupMessage: true,
		},
		Health: HealthConfig{
			Enabled:            true,
			Address:            ":8080",
			StalenessThreshold: 300 * time.Second,
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Secrets and environment selection come from the environment only.
	config.Credentials.APIKey = strings.TrimSpace(os.Getenv("BYBIT_API_KEY"))
	config.Credentials.APISecret = strings.TrimSpace(os.Getenv("BYBIT_API_SECRET"))
	config.Credentials.SlackWebhookURL = strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL"))
	if v := os.Getenv("BYBIT_TESTNET"); strings.EqualFold(strings.TrimSpace(v), "true") {
		config.Feed.Environment = EnvironmentTestnet
	}
	config.Feed.Environment = NormalizeEnvironment(config.Feed.Environment)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Execnotify.Name == "" {
		return fmt.Errorf("execnotify.name is required")
	}

	if cfg.Execnotify.Version == "" {
		return fmt.Errorf("execnotify.version is required")
	}

	if cfg.Credentials.APIKey == "" || cfg.Credentials.APISecret == "" {
		return fmt.Errorf("BYBIT_API_KEY and BYBIT_API_SECRET must be set")
	}

	if cfg.Credentials.SlackWebhookURL == "" {
		return fmt.Errorf("SLACK_WEBHOOK_URL must be set")
	}

	if len(cfg.Feed.Topics) == 0 {
		return fmt.Errorf("feed.topics must not be empty")
	}

	if cfg.Feed.AuthWindow <= 0 {
		return fmt.Errorf("feed.auth_window must be greater than 0")
	}
	if cfg.Feed.PingInterval <= 0 {
		return fmt.Errorf("feed.ping_interval must be greater than 0")
	}
	if cfg.Feed.PongTimeout <= 0 {
		return fmt.Errorf("feed.pong_timeout must be greater than 0")
	}
	if cfg.Feed.ReconnectDelay <= 0 {
		return fmt.Errorf("feed.reconnect_delay must be greater than 0")
	}

	if cfg.Dedup.Window <= 0 {
		return fmt.Errorf("dedup.window must be greater than 0")
	}

	if cfg.Notify.Timeout <= 0 {
		return fmt.Errorf("notify.timeout must be greater than 0")
	}

	if cfg.Health.Enabled {
		if cfg.Health.Address == "" {
			return fmt.Errorf("health.address is required when the health server is enabled")
		}
		if cfg.Health.StalenessThreshold <= 0 {
			return fmt.Errorf("health.staleness_threshold must be greater than 0")
		}
	}

	if WebsocketURL(cfg) == "" {
		return fmt.Errorf("feed.endpoints has no url for environment '%s'", cfg.Feed.Environment)
	}

	return nil
}

// TradeExecutionsOnly reports whether non-trade execution types (funding,
// ADL, delivery) should be filtered out. Defaults to true when unset.
func (c *FeedConfig) TradeExecutionsOnly() bool {
	if c.TradeOnly == nil {
		return true
	}
	return *c.TradeOnly
}
