package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	defaultListen         = ":8080"
	defaultFetchTimeout   = 10 * time.Second
	defaultMaxBodySize    = 32 << 20
	defaultMinDimension   = 1000
	defaultJPEGQuality    = 95
	defaultSharpenRadius  = 2
	defaultSharpenPercent = 150
	defaultWorkers        = 1
	defaultMaxRows        = 10000
)

// Duration parses yaml values like "10s" through time.ParseDuration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}

	v, err := time.ParseDuration(str)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	*d = Duration(v)

	return nil
}

type FetcherConfig struct {
	Timeout     Duration `yaml:"timeout"`
	MaxBodySize int64    `yaml:"max_body_size"`
	UserAgent   string   `yaml:"user_agent"`
}

type NormalizerConfig struct {
	MinDimension   int `yaml:"min_dimension"`
	JPEGQuality    int `yaml:"jpeg_quality"`
	SharpenRadius  int `yaml:"sharpen_radius"`
	SharpenPercent int `yaml:"sharpen_percent"`
}

type LoaderConfig struct {
	MaxRows int `yaml:"max_rows"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

type Config struct {
	Listen           string           `yaml:"listen"`
	RedisURL         string           `yaml:"redis_url"`
	LogLevel         string           `yaml:"log_level"`
	FetcherConfig    FetcherConfig    `yaml:"fetcher"`
	NormalizerConfig NormalizerConfig `yaml:"normalizer"`
	LoaderConfig     LoaderConfig     `yaml:"loader"`
	BatchConfig      BatchConfig      `yaml:"batch"`
}

func (c *Config) SetDefaults() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
	if c.FetcherConfig.Timeout <= 0 {
		c.FetcherConfig.Timeout = Duration(defaultFetchTimeout)
	}
	if c.FetcherConfig.MaxBodySize <= 0 {
		c.FetcherConfig.MaxBodySize = defaultMaxBodySize
	}
	if c.NormalizerConfig.MinDimension <= 0 {
		c.NormalizerConfig.MinDimension = defaultMinDimension
	}
	if c.NormalizerConfig.JPEGQuality <= 0 {
		c.NormalizerConfig.JPEGQuality = defaultJPEGQuality
	}
	if c.NormalizerConfig.SharpenRadius <= 0 {
		c.NormalizerConfig.SharpenRadius = defaultSharpenRadius
	}
	if c.NormalizerConfig.SharpenPercent <= 0 {
		c.NormalizerConfig.SharpenPercent = defaultSharpenPercent
	}
	if c.LoaderConfig.MaxRows <= 0 {
		c.LoaderConfig.MaxRows = defaultMaxRows
	}
	if c.BatchConfig.Workers <= 0 {
		c.BatchConfig.Workers = defaultWorkers
	}
}

func MustLoad(fileName string) *Config {
	cfg, err := Load(fileName)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(fileName string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(fileName)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file: %w", err)
		}
	}

	cfg.SetDefaults()

	return &cfg, nil
}
