// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deskbridge/deskbridge/lib/binhash"
	"github.com/deskbridge/deskbridge/lib/process"
)

// EnvironmentVariable names the variable holding the config file path.
const EnvironmentVariable = "DESKBRIDGE_CONFIG"

// Environment identifies the deployment type.
type Environment string

const (
	// Development is a developer checkout: verbose logging, backend
	// binary next to the host.
	Development Environment = "development"
	// Production is a packaged application.
	Production Environment = "production"
)

// Config is the host configuration.
type Config struct {
	Environment Environment   `yaml:"environment"`
	App         AppConfig     `yaml:"app"`
	Backend     BackendConfig `yaml:"backend"`
	Gateway     GatewayConfig `yaml:"gateway"`
	Log         LogConfig     `yaml:"log"`

	// Per-environment overrides, applied after the base values.
	Development *Overrides `yaml:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`

	// path is the file this configuration was loaded from, empty for
	// Default().
	path string
}

// AppConfig describes the desktop application itself.
type AppConfig struct {
	// Name is shown in logs and window titles.
	Name string `yaml:"name"`

	// Manifest is the path to app.jsonc. Relative paths resolve
	// against the config file's directory.
	Manifest string `yaml:"manifest"`
}

// BackendConfig describes how the host launches the backend service.
type BackendConfig struct {
	// Executable is the backend binary. Platform suffixes (.exe) are
	// added by the host, not here.
	Executable string `yaml:"executable"`

	// Digest, when set, pins the executable's BLAKE3 digest (64 hex
	// characters). The host refuses to launch a binary that differs.
	Digest string `yaml:"digest,omitempty"`

	// Arguments are passed to the executable verbatim.
	Arguments []string `yaml:"arguments,omitempty"`

	// Port is the loopback port the backend must bind.
	Port int `yaml:"port"`

	// PortVariable is the environment variable carrying Port to the
	// backend.
	PortVariable string `yaml:"port_env"`

	// Environment holds extra variables for the backend process.
	Environment map[string]string `yaml:"environment,omitempty"`

	// WorkingDirectory is the backend's working directory. Empty
	// inherits the host's.
	WorkingDirectory string `yaml:"working_directory,omitempty"`

	// Readiness bounds the health check loop run after launch.
	Readiness ReadinessConfig `yaml:"readiness"`

	// ShutdownGrace is how long the host waits after SIGTERM before
	// killing the backend on exit.
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

// ReadinessConfig is the exponential backoff used to wait for the
// backend's health endpoint.
type ReadinessConfig struct {
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	MaxWait         time.Duration `yaml:"max_wait"`
}

// GatewayConfig configures the UI-facing capability socket.
type GatewayConfig struct {
	SocketPath string `yaml:"socket_path"`
}

// LogConfig configures the host logger.
type LogConfig struct {
	Level string `yaml:"level"`

	// File receives host logs while a UI command owns the terminal.
	// Without a UI command the host logs to stderr.
	File string `yaml:"file,omitempty"`
}

// Overrides holds the fields an environment section may replace.
// Zero values leave the base value in place.
type Overrides struct {
	Backend *BackendOverrides `yaml:"backend,omitempty"`
	Log     *LogConfig        `yaml:"log,omitempty"`
}

// BackendOverrides is the overridable subset of BackendConfig.
type BackendOverrides struct {
	Executable    string           `yaml:"executable,omitempty"`
	Port          int              `yaml:"port,omitempty"`
	Readiness     *ReadinessConfig `yaml:"readiness,omitempty"`
	ShutdownGrace time.Duration    `yaml:"shutdown_grace,omitempty"`
}

// Default returns a complete configuration. The host runs on these
// values when no config file is given.
func Default() *Config {
	return &Config{
		Environment: Development,
		App: AppConfig{
			Name:     "deskbridge",
			Manifest: "app.jsonc",
		},
		Backend: BackendConfig{
			Executable:   "deskbridge-backend",
			Port:         8080,
			PortVariable: "PORT",
			Readiness: ReadinessConfig{
				InitialInterval: 50 * time.Millisecond,
				MaxInterval:     time.Second,
				MaxWait:         10 * time.Second,
			},
			ShutdownGrace: 5 * time.Second,
		},
		Gateway: GatewayConfig{
			SocketPath: "${XDG_RUNTIME_DIR:-/tmp}/deskbridge/gateway.sock",
		},
		Log: LogConfig{
			Level: "info",
			File:  "${XDG_RUNTIME_DIR:-/tmp}/deskbridge/host.log",
		},
	}
}

// Load loads the file named by DESKBRIDGE_CONFIG, or returns Default()
// with variables expanded when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		cfg := Default()
		cfg.applyEnvironmentOverrides()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path on top of Default().
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}
	cfg.path = absolute

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// Path returns the absolute path of the loaded file, or "" for a
// configuration that did not come from a file.
func (c *Config) Path() string {
	return c.path
}

// BackendDigest returns the pinned executable digest, or the zero
// Digest when none is configured. Call Validate first.
func (c *Config) BackendDigest() binhash.Digest {
	if c.Backend.Digest == "" {
		return binhash.Digest{}
	}
	digest, _ := binhash.ParseDigest(c.Backend.Digest)
	return digest
}

// Resolve makes a relative path absolute against the config file's
// directory, or the working directory when there is no file. Absolute
// paths are returned unchanged.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if c.path != "" {
		return filepath.Join(filepath.Dir(c.path), path)
	}
	if absolute, err := filepath.Abs(path); err == nil {
		return absolute
	}
	return path
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &Overrides{Log: &LogConfig{Level: "warn"}}
		}
	}
	if overrides == nil {
		return
	}

	if backend := overrides.Backend; backend != nil {
		if backend.Executable != "" {
			c.Backend.Executable = backend.Executable
		}
		if backend.Port != 0 {
			c.Backend.Port = backend.Port
		}
		if backend.Readiness != nil {
			if backend.Readiness.InitialInterval != 0 {
				c.Backend.Readiness.InitialInterval = backend.Readiness.InitialInterval
			}
			if backend.Readiness.MaxInterval != 0 {
				c.Backend.Readiness.MaxInterval = backend.Readiness.MaxInterval
			}
			if backend.Readiness.MaxWait != 0 {
				c.Backend.Readiness.MaxWait = backend.Readiness.MaxWait
			}
		}
		if backend.ShutdownGrace != 0 {
			c.Backend.ShutdownGrace = backend.ShutdownGrace
		}
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

func (c *Config) expandVariables() {
	c.App.Manifest = expandVars(c.App.Manifest)
	c.Backend.Executable = expandVars(c.Backend.Executable)
	c.Backend.WorkingDirectory = expandVars(c.Backend.WorkingDirectory)
	c.Gateway.SocketPath = expandVars(c.Gateway.SocketPath)
	c.Log.File = expandVars(c.Log.File)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

var variableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %q", c.Environment))
	}
	if c.Backend.Executable == "" {
		errs = append(errs, errors.New("backend.executable is required"))
	}
	if c.Backend.Digest != "" {
		if _, err := binhash.ParseDigest(c.Backend.Digest); err != nil {
			errs = append(errs, fmt.Errorf("backend.digest: %w", err))
		}
	}
	if c.Backend.Port < 1 || c.Backend.Port > 65535 {
		errs = append(errs, fmt.Errorf("backend.port must be in 1..65535, got %d", c.Backend.Port))
	}
	if !variableName.MatchString(c.Backend.PortVariable) {
		errs = append(errs, fmt.Errorf("backend.port_env %q is not a valid variable name", c.Backend.PortVariable))
	}
	for name := range c.Backend.Environment {
		if !variableName.MatchString(name) {
			errs = append(errs, fmt.Errorf("backend.environment key %q is not a valid variable name", name))
		}
	}

	readiness := c.Backend.Readiness
	if readiness.InitialInterval <= 0 {
		errs = append(errs, errors.New("backend.readiness.initial_interval must be positive"))
	}
	if readiness.MaxInterval < readiness.InitialInterval {
		errs = append(errs, errors.New("backend.readiness.max_interval must be at least initial_interval"))
	}
	if readiness.MaxWait <= 0 {
		errs = append(errs, errors.New("backend.readiness.max_wait must be positive"))
	}
	if c.Backend.ShutdownGrace < 0 {
		errs = append(errs, errors.New("backend.shutdown_grace must not be negative"))
	}

	if c.Gateway.SocketPath == "" {
		errs = append(errs, errors.New("gateway.socket_path is required"))
	}
	if _, known := process.ParseLevel(c.Log.Level); !known {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	return errors.Join(errs...)
}
