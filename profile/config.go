package profile

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables honored by FromEnv.
const (
	EnvProfileFile = "QUILL_PROFILE_FILE"
	EnvWrite       = "QUILL_WRITE_PROFILES"
	EnvForceWrite  = "QUILL_FORCE_WRITE_PROFILES"
)

// Config holds the profiling harness settings.
type Config struct {
	// File is the path of the stats file.
	File string `yaml:"file"`
	// Write enables persisting new and corrected measurements.
	Write bool `yaml:"write"`
	// ForceWrite silently overwrites measurements that fail comparison.
	ForceWrite bool `yaml:"force_write"`
	// Variance is the comparison tolerance band, defaults to 0.05.
	Variance float64 `yaml:"variance"`
}

// DefaultConfig returns the config used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		File:     "profiles.txt",
		Variance: DefaultVariance,
	}
}

// LoadConfig reads a YAML config file. Unset fields fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("profile: parse config %s: %w", path, err)
	}
	if cfg.Variance == 0 {
		cfg.Variance = DefaultVariance
	}
	return cfg, nil
}

// FromEnv overlays the config with environment variable settings and
// returns the result.
func (c Config) FromEnv() Config {
	if v := os.Getenv(EnvProfileFile); v != "" {
		c.File = v
	}
	if envBool(EnvWrite) {
		c.Write = true
	}
	if envBool(EnvForceWrite) {
		c.ForceWrite = true
	}
	return c
}

// Open opens the stats file described by the config.
func (c Config) Open(env Env) (*StatsFile, error) {
	return Open(c.File, env, WithWrite(c.Write), WithForceWrite(c.ForceWrite))
}

func envBool(name string) bool {
	v := os.Getenv(name)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		// Any non-empty, non-boolean value counts as set.
		return true
	}
	return b
}
