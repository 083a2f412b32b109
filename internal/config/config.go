package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ECS        ECSConfig        `toml:"ecs"`
	Simulation SimulationConfig `toml:"simulation"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ECSConfig struct {
	PageSize             int `toml:"page_size"` // power of two, at most 65536
	DestroyQueueCapacity int `toml:"destroy_queue_capacity"`
}

type SimulationConfig struct {
	TickRate     time.Duration `toml:"tick_rate"`
	Ticks        int           `toml:"ticks"` // 0 = run until signalled
	SpawnList    string        `toml:"spawn_list"`
	ScriptsDir   string        `toml:"scripts_dir"`
	BoundsWidth  float64       `toml:"bounds_width"`
	BoundsHeight float64       `toml:"bounds_height"`
	Seed         int64         `toml:"seed"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate)
	}
	if c.Simulation.Ticks < 0 {
		return fmt.Errorf("simulation.ticks must not be negative, got %d", c.Simulation.Ticks)
	}
	if c.Simulation.BoundsWidth <= 0 || c.Simulation.BoundsHeight <= 0 {
		return fmt.Errorf("simulation bounds must be positive")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		ECS: ECSConfig{
			PageSize:             1024,
			DestroyQueueCapacity: 64,
		},
		Simulation: SimulationConfig{
			TickRate:     50 * time.Millisecond,
			Ticks:        200,
			SpawnList:    "data/yaml/spawn_list.yaml",
			ScriptsDir:   "scripts",
			BoundsWidth:  320,
			BoundsHeight: 180,
			Seed:         1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
