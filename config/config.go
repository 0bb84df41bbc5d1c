// Package config reads application settings from PRINTFLOW_* environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"

	"printflow/configurator"
	"printflow/datatable"
	"printflow/logging"
)

const envPrefix = "PRINTFLOW_"

var envKeys = []string{
	"LOG_LEVEL",
	"LOG_FORMAT",
	"LOG_OUTPUT",
	"DEV",
	"PAGE_SIZE",
	"SESSION_TTL",
	"CLASSIFICATION_POLICY",
	"SEED_CATALOG",
}

// Config holds raw settings keyed without the PRINTFLOW_ prefix.
type Config struct {
	values map[string]string
}

// Load reads the environment.
func Load() *Config {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads settings through lookup, e.g. os.LookupEnv.
func LoadFrom(lookup func(string) (string, bool)) *Config {
	cfg := &Config{values: make(map[string]string)}
	for _, key := range envKeys {
		if v, ok := lookup(envPrefix + key); ok && strings.TrimSpace(v) != "" {
			cfg.values[key] = strings.TrimSpace(v)
		}
	}
	return cfg
}

func (c *Config) GetString(key, defaultValue string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	return defaultValue
}

func (c *Config) GetInt(key string, defaultValue int) int {
	if v, ok := c.values[key]; ok {
		if i, err := cast.ToIntE(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func (c *Config) GetBool(key string, defaultValue bool) bool {
	if v, ok := c.values[key]; ok {
		if b, err := cast.ToBoolE(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func (c *Config) GetDuration(key string, defaultValue time.Duration) time.Duration {
	if v, ok := c.values[key]; ok {
		if d, err := cast.ToDurationE(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

// Logging returns the logger configuration.
func (c *Config) Logging() logging.Config {
	dev := c.GetBool("DEV", false)
	format := "json"
	if dev {
		format = "console"
	}
	return logging.Config{
		Level:       c.GetString("LOG_LEVEL", "info"),
		Format:      c.GetString("LOG_FORMAT", format),
		OutputPath:  c.GetString("LOG_OUTPUT", ""),
		Development: dev,
	}
}

// PageSize returns the default design list page size, clamped to the allowed range.
func (c *Config) PageSize() int {
	size := c.GetInt("PAGE_SIZE", datatable.DefaultPageSize)
	if size < 1 || size > datatable.MaxPageSize {
		return datatable.DefaultPageSize
	}
	return size
}

// SessionTTL returns how long an idle wizard session is kept.
func (c *Config) SessionTTL() time.Duration {
	return c.GetDuration("SESSION_TTL", 30*time.Minute)
}

// ClassificationPolicy returns the wizard policy: "legacy" checks only the sides
// and process groups, anything else requires every group.
func (c *Config) ClassificationPolicy() configurator.ClassificationPolicy {
	if strings.EqualFold(c.GetString("CLASSIFICATION_POLICY", ""), "legacy") {
		return configurator.PolicyLegacyKeys
	}
	return configurator.PolicyAllGroups
}

// SeedCatalog reports whether the embedded catalog is loaded on startup.
func (c *Config) SeedCatalog() bool {
	return c.GetBool("SEED_CATALOG", true)
}
