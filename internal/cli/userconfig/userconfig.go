// Package userconfig keeps per-user CLI state in ~/.config/healthease/config.json.
// Today that is only which portal commands talk to by default.
package userconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDirName  = "healthease"
	configFileName = "config.json"
)

// UserConfig is the on-disk document
type UserConfig struct {
	// SelectedPortalURL is stored without a trailing slash so it compares
	// equal to the URLs in healthease.yaml
	SelectedPortalURL string `json:"selected_portal_url,omitempty"`
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

// Load reads the user configuration. A missing file is an empty config.
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}
	cfg.SelectedPortalURL = normalizePortalURL(cfg.SelectedPortalURL)

	return &cfg, nil
}

// Save writes the user configuration, readable by the owner only
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}
	return nil
}

// SetSelectedPortal remembers portalURL as the default portal
func SetSelectedPortal(portalURL string) error {
	return update(func(cfg *UserConfig) {
		cfg.SelectedPortalURL = normalizePortalURL(portalURL)
	})
}

// ClearSelectedPortal forgets the default portal, e.g. after it was
// removed from healthease.yaml
func ClearSelectedPortal() error {
	return update(func(cfg *UserConfig) {
		cfg.SelectedPortalURL = ""
	})
}

// GetSelectedPortal returns the selected portal URL, or "" if none is set
func GetSelectedPortal() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.SelectedPortalURL, nil
}

func update(fn func(*UserConfig)) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	fn(cfg)
	return Save(cfg)
}

func normalizePortalURL(portalURL string) string {
	return strings.TrimRight(strings.TrimSpace(portalURL), "/")
}
