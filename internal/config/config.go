// Package config loads the querygated daemon configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/querygate"
)

// Config holds the querygated configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Protocol ProtocolConfig `yaml:"protocol"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ProtocolConfig pins protocol versions: the default used when a request
// names no version, and optional per-peer pins.
type ProtocolConfig struct {
	DefaultVersion string            `yaml:"default_version"`
	Peers          map[string]string `yaml:"peers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := filepath.Join("config", fmt.Sprintf("%s.yaml", env))

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Protocol.DefaultVersion == "" {
		c.Protocol.DefaultVersion = querygate.Current.String()
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if _, err := querygate.ParseVersion(c.Protocol.DefaultVersion); err != nil {
		return fmt.Errorf("protocol.default_version: %w", err)
	}
	for peer, v := range c.Protocol.Peers {
		if _, err := querygate.ParseVersion(v); err != nil {
			return fmt.Errorf("protocol.peers.%s: %w", peer, err)
		}
	}
	return nil
}

// DefaultVersion returns the parsed default protocol version. Call after
// Validate.
func (c *Config) DefaultVersion() querygate.Version {
	v, err := querygate.ParseVersion(c.Protocol.DefaultVersion)
	if err != nil {
		panic(err)
	}
	return v
}

// PeerVersions returns the parsed per-peer version pins. Call after
// Validate.
func (c *Config) PeerVersions() map[string]querygate.Version {
	out := make(map[string]querygate.Version, len(c.Protocol.Peers))
	for peer, s := range c.Protocol.Peers {
		v, err := querygate.ParseVersion(s)
		if err != nil {
			panic(err)
		}
		out[peer] = v
	}
	return out
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
