package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/brain/internal/core/observability/log"
)

// Config is the application configuration of the brain CLI.
type Config struct {
	LogLevel string       `json:"log_level" yaml:"log_level"`
	Tree     string       `json:"tree,omitempty" yaml:"tree,omitempty"`
	Herd     HerdConfig   `json:"herd" yaml:"herd"`
	HTTP     HTTPConfig   `json:"http" yaml:"http"`
	Patrol   PatrolConfig `json:"patrol" yaml:"patrol"`
}

// HerdConfig controls how many agents run and how they are stepped.
type HerdConfig struct {
	Agents       int           `json:"agents" yaml:"agents"`
	Shards       int           `json:"shards" yaml:"shards"`
	TickInterval time.Duration `json:"tick_interval" yaml:"tick_interval"`

	// TickBudget caps the number of steps of `brain run`; 0 means unbounded.
	TickBudget int `json:"tick_budget" yaml:"tick_budget"`
}

type HTTPConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// PatrolConfig describes the two-waypoint patrol brain.
type PatrolConfig struct {
	From  [2]float64 `json:"from" yaml:"from"`
	To    [2]float64 `json:"to" yaml:"to"`
	Speed float64    `json:"speed" yaml:"speed"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Herd: HerdConfig{
			Agents:       1,
			Shards:       4,
			TickInterval: time.Second / 60,
			TickBudget:   1000,
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Patrol: PatrolConfig{
			From:  [2]float64{300, 0},
			To:    [2]float64{-300, 0},
			Speed: 250,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Herd.Agents < 0 {
		errs = append(errs, fmt.Errorf("herd.agents must not be negative, got %d", c.Herd.Agents))
	}
	if c.Herd.Shards <= 0 {
		errs = append(errs, fmt.Errorf("herd.shards must be positive, got %d", c.Herd.Shards))
	}
	if c.Herd.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("herd.tick_interval must be positive, got %s", c.Herd.TickInterval))
	}
	if c.Herd.TickBudget < 0 {
		errs = append(errs, fmt.Errorf("herd.tick_budget must not be negative, got %d", c.Herd.TickBudget))
	}
	if c.Patrol.Speed <= 0 {
		errs = append(errs, fmt.Errorf("patrol.speed must be positive, got %v", c.Patrol.Speed))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return lvl
}
