package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the configuration file
const (
	EnvRepo    = "DOTSYNC_REPO"
	EnvName    = "DOTSYNC_NAME"
	EnvRemote  = "DOTSYNC_REMOTE"
	EnvNotify  = "DOTSYNC_NOTIFY"
	EnvLogFile = "DOTSYNC_LOG_FILE"
)

// Defaults
const (
	DefaultRemote   = "origin"
	DefaultDebounce = 5 * time.Second
	DefaultInterval = 15 * time.Minute
)

// Config is the resolved dotsync configuration
type Config struct {
	// Repo is the working tree to synchronize
	Repo string `yaml:"repo"`
	// Name identifies this host in commit messages
	Name   string `yaml:"name"`
	Remote string `yaml:"remote"`
	// Notify enables desktop notifications for conflicts and failures
	Notify  bool   `yaml:"notify"`
	LogFile string `yaml:"log_file,omitempty"`
	// CommandTimeout bounds each git invocation, zero disables the limit
	CommandTimeout time.Duration `yaml:"command_timeout"`
	Watch          WatchConfig   `yaml:"watch"`
}

// WatchConfig configures `dotsync watch`
type WatchConfig struct {
	// Debounce is how long the tree must be quiet before a sync starts
	Debounce time.Duration `yaml:"debounce"`
	// Interval is how often to sync when nothing changes locally
	Interval time.Duration `yaml:"interval"`
}

// DefaultPath returns the configuration file location, $XDG_CONFIG_HOME/dotsync/config.yaml
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "dotsync", "config.yaml")
}

// DefaultRepo returns ~/Shared/sync
func DefaultRepo() string {
	return filepath.Join(xdg.Home, "Shared", "sync")
}

// Defaults returns the configuration used when nothing is configured
func Defaults() *Config {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "localhost"
	}
	return &Config{
		Repo:   DefaultRepo(),
		Name:   name,
		Remote: DefaultRemote,
		Notify: true,
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Interval: DefaultInterval,
		},
	}
}

// Load reads the configuration file at path (DefaultPath when empty) over the
// defaults and applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file - use defaults
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.Repo = ExpandHome(cfg.Repo)
	cfg.LogFile = ExpandHome(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvRepo); ok && v != "" {
		c.Repo = v
	}
	if v, ok := lookup(EnvName); ok && v != "" {
		c.Name = v
	}
	if v, ok := lookup(EnvRemote); ok && v != "" {
		c.Remote = v
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		c.LogFile = v
	}
	if v, ok := lookup(EnvNotify); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvNotify, v, err)
		}
		c.Notify = enabled
	}
	return nil
}

// Validate checks that the configuration can be used
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Repo) == "" {
		return fmt.Errorf("repo must not be empty")
	}
	if strings.TrimSpace(c.Remote) == "" {
		return fmt.Errorf("remote must not be empty")
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("command_timeout must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive")
	}
	return nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the configuration to path, creating its directory
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}
