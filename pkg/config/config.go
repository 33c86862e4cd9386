package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "todo"
	configFile = "config.yaml"

	DefaultCalendar = "Tasks"
)

type Config struct {
	// DataFile overrides the location of the task list.
	DataFile      string `yaml:"data_file,omitempty"`
	Calendar      string `yaml:"calendar,omitempty"`
	DefaultFilter string `yaml:"default_filter,omitempty"`
}

// Dir returns ~/.config/todo, which also holds the OAuth files and the
// calendar event index.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func Default() *Config {
	return &Config{Calendar: DefaultCalendar, DefaultFilter: "all"}
}

// Load reads the config file at the default location.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads path, falling back to defaults when it does not exist.
func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Calendar == "" {
		cfg.Calendar = DefaultCalendar
	}
	if cfg.DefaultFilter == "" {
		cfg.DefaultFilter = "all"
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
