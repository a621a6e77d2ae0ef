package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Sector pairs a ticker with its display name.
type Sector struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"sectorpulse"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"sectorpulse.forecasts"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
	} `yaml:"kafka"`
	Cache struct {
		Backend string        `yaml:"backend" default:"memory"` // memory or redis
		MaxAge  time.Duration `yaml:"max_age" default:"12h"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	DataSource struct {
		APIKey       string        `yaml:"api_key"`
		BaseURL      string        `yaml:"base_url" default:"https://financialmodelingprep.com/api/v3"`
		Timeout      time.Duration `yaml:"timeout" default:"15s"`
		LookbackDays int           `yaml:"lookback_days" default:"730"`
	} `yaml:"datasource"`
	Universe struct {
		Sectors   []Sector `yaml:"sectors"`
		Benchmark string   `yaml:"benchmark" default:"SPY"`
	} `yaml:"universe"`
	Model struct {
		ShortVolWindow int     `yaml:"short_vol_window" default:"21"`
		LongVolWindow  int     `yaml:"long_vol_window" default:"63"`
		Lookback       int     `yaml:"lookback" default:"60"`
		Forward        int     `yaml:"forward" default:"5"`
		SectorBasis    int     `yaml:"sector_basis" default:"11"`
		HiddenSize     int     `yaml:"hidden_size" default:"64"`
		LearningRate   float64 `yaml:"learning_rate" default:"0.001"`
		Epochs         int     `yaml:"epochs" default:"1000"`
		BatchSize      int     `yaml:"batch_size" default:"32"`
		TrainFraction  float64 `yaml:"train_fraction" default:"0.8"`
		Seed           int64   `yaml:"seed" default:"42"`
	} `yaml:"model"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
}

// DefaultSectors is the SPDR S&P 500 sector ETF universe used when the
// config does not list its own.
var DefaultSectors = []Sector{
	{Symbol: "XLK", Name: "Technology"},
	{Symbol: "XLF", Name: "Financials"},
	{Symbol: "XLE", Name: "Energy"},
	{Symbol: "XLV", Name: "Healthcare"},
	{Symbol: "XLI", Name: "Industrials"},
	{Symbol: "XLP", Name: "Consumer Staples"},
	{Symbol: "XLY", Name: "Consumer Discretionary"},
	{Symbol: "XLU", Name: "Utilities"},
	{Symbol: "XLRE", Name: "Real Estate"},
	{Symbol: "XLC", Name: "Communication Services"},
	{Symbol: "XLB", Name: "Materials"},
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(c.Universe.Sectors) == 0 {
		c.Universe.Sectors = DefaultSectors
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FMP_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("SECTOR_SYMBOLS"); v != "" {
		sectors := make([]Sector, 0)
		for _, sym := range strings.Split(v, ",") {
			sym = strings.TrimSpace(sym)
			if sym != "" {
				sectors = append(sectors, Sector{Symbol: sym, Name: sym})
			}
		}
		if len(sectors) > 0 {
			c.Universe.Sectors = sectors
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
		c.ClickHouse.Enabled = true
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Backend = "redis"
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Model.Lookback < 1 || c.Model.Forward < 1 {
		return fmt.Errorf("model.lookback and model.forward must be positive")
	}
	if c.Model.ShortVolWindow < 2 || c.Model.LongVolWindow <= c.Model.ShortVolWindow {
		return fmt.Errorf("model windows must satisfy 2 <= short < long")
	}
	return nil
}
