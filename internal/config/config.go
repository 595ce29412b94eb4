package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the device settings persisted between invocations.
type Config struct {
	// IPAddress is the LAN address of the air conditioner.
	IPAddress string `json:"ip_address"`
}

const (
	// DefaultConfigFilename is the name of the settings file in the user's home directory.
	DefaultConfigFilename = ".electrolux_ac_config.json"

	// DefaultIPAddress is the address written to a freshly generated settings file.
	DefaultIPAddress = "10.0.0.100"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// defaultDirPermissions is used when parent directories have to be created.
	defaultDirPermissions = 0o755
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns a fresh configuration populated with default values.
func Default() *Config {
	return &Config{IPAddress: DefaultIPAddress}
}

// Path returns the effective settings path: the provided one, or the default
// file in the user's home directory when empty.
func Path(path string) (string, error) {
	if path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigFilename), nil
}

// Load reads the settings file from the provided path ("" means the default
// location). A file that is missing, unreadable, malformed, or carries no
// device address is replaced with a freshly written default, and the default
// is returned without an error. The address itself is not validated here;
// a bogus value surfaces later when the device is dialed.
func Load(path string) (*Config, error) {
	path, err := Path(path)
	if err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return regenerate(path)
	}

	var cfg Config
	if err := json.Unmarshal(contents, &cfg); err != nil {
		return regenerate(path)
	}

	if cfg.IPAddress == "" {
		return regenerate(path)
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path ("" means the default
// location), creating parent directories when needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	path, err := Path(path)
	if err != nil {
		return err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), defaultDirPermissions); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// regenerate writes the default settings to path and returns them.
func regenerate(path string) (*Config, error) {
	cfg := Default()
	if err := Save(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
