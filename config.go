package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file. Command line flags take
// precedence over values read from it.
type Config struct {
	LogLevel *int         `yaml:"log_level"`
	Redis    RedisConfig  `yaml:"redis"`
	Replay   ReplayConfig `yaml:"replay"`
}

type RedisConfig struct {
	Server string `yaml:"server"`
	Port   int    `yaml:"port"`
	Prefix string `yaml:"prefix"`
}

type ReplayConfig struct {
	Realtime bool    `yaml:"realtime"`
	Speed    float64 `yaml:"speed"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks value ranges only. It does not fill defaults.
func (c *Config) Validate() error {
	if c.LogLevel != nil && (*c.LogLevel < int(LogLevelNone) || *c.LogLevel > int(LogLevelDebug)) {
		return fmt.Errorf("log_level %d out of range 0-4", *c.LogLevel)
	}

	if c.Redis.Port < 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("redis.port %d out of range", c.Redis.Port)
	}

	for i := 0; i < len(c.Redis.Prefix); i++ {
		if ch := c.Redis.Prefix[i]; ch <= ' ' || ch > 0x7E {
			return fmt.Errorf("redis.prefix %q must be printable ASCII without spaces", c.Redis.Prefix)
		}
	}

	if c.Replay.Speed < 0 {
		return fmt.Errorf("replay.speed must not be negative, got %g", c.Replay.Speed)
	}
	return nil
}

// Apply copies values set in the file into opts, skipping any option whose
// flag was given on the command line.
func (c *Config) Apply(opts *Options, flagSet func(name string) bool) {
	if c.LogLevel != nil && !flagSet("log") {
		opts.LogLevel = LogLevel(*c.LogLevel)
	}
	if c.Redis.Server != "" && !flagSet("redis_server") {
		opts.RedisServerAddr = c.Redis.Server
	}
	if c.Redis.Port != 0 && !flagSet("redis_port") {
		opts.RedisServerPort = uint16(c.Redis.Port)
	}
	if c.Redis.Prefix != "" && !flagSet("redis_prefix") {
		opts.RedisPrefix = c.Redis.Prefix
	}
	if c.Replay.Realtime && !flagSet("realtime") {
		opts.Realtime = true
	}
	if c.Replay.Speed != 0 && !flagSet("speed") {
		opts.ReplaySpeed = c.Replay.Speed
	}
}
