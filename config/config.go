// Package config loads the Storyloom roster from YAML: which agents exist,
// their personas, context windows and shards, how task types route to them,
// and which memory backend the runner should wire in. Config is passive
// data; wiring happens in the storyloom façade so this package stays free of
// backend dependencies.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/storyloom/storyloom/core"
)

// Backend names accepted by MemoryConfig.
const (
	BackendInMemory = "inmemory"
	BackendRedis    = "redis"
)

// Duration wraps time.Duration so YAML values like "30s" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root of the roster file.
type Config struct {
	Memory MemoryConfig      `yaml:"memory"`
	Runner RunnerConfig      `yaml:"runner"`
	Agents []AgentConfig     `yaml:"agents"`
	Routes map[string]string `yaml:"routes"`
}

// MemoryConfig selects and parameterizes the memory backend.
type MemoryConfig struct {
	// Backend is "inmemory" (default) or "redis".
	Backend string      `yaml:"backend"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig carries connection settings for the Redis backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RunnerConfig tunes the run pipeline.
type RunnerConfig struct {
	HandlerTimeout Duration `yaml:"handler_timeout"`
	QueryRetries   int      `yaml:"query_retries"`
	RetryBackoff   Duration `yaml:"retry_backoff"`
}

// AgentConfig describes one roster agent.
type AgentConfig struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Persona       string `yaml:"persona"`
	ContextWindow int    `yaml:"context_window"`
	Shard         string `yaml:"shard"`
}

// Core converts the YAML shape into the immutable core configuration.
func (a AgentConfig) Core() core.AgentConfig {
	return core.AgentConfig{
		ID:            a.ID,
		Name:          a.Name,
		Persona:       a.Persona,
		ContextWindow: a.ContextWindow,
		Shard:         a.Shard,
	}
}

// Load reads and parses a roster file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals and validates roster YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Memory.Backend == "" {
		c.Memory.Backend = BackendInMemory
	}
	if c.Memory.Backend == BackendRedis {
		if c.Memory.Redis.Addr == "" {
			c.Memory.Redis.Addr = "localhost:6379"
		}
		if c.Memory.Redis.KeyPrefix == "" {
			c.Memory.Redis.KeyPrefix = "storyloom"
		}
	}
}

// Validate rejects rosters that cannot be wired: unknown backends, unnamed
// or duplicated agents, negative windows, routes to undeclared agents.
func (c *Config) Validate() error {
	switch c.Memory.Backend {
	case BackendInMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown memory backend %q", c.Memory.Backend)
	}

	seen := map[string]bool{}
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent %d: name must not be empty", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("agent %q declared twice", a.Name)
		}
		seen[a.Name] = true
		if a.ContextWindow < 0 {
			return fmt.Errorf("agent %q: context_window must not be negative", a.Name)
		}
	}

	for taskType, agentName := range c.Routes {
		if !seen[agentName] {
			return fmt.Errorf("route %q: agent %q not declared", taskType, agentName)
		}
	}

	return nil
}
