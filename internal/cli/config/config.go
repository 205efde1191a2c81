package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "healthease.yaml"

// ErrNotFound is returned when no healthease.yaml exists up the directory tree
var ErrNotFound = errors.New("healthease.yaml not found")

// Portal represents a HealthEase portal deployment
type Portal struct {
	Alias string `yaml:"alias"`
	// URL is where the portal web app is served
	URL string `yaml:"url"`
	// APIURL overrides the API base; defaults to URL + "/api"
	APIURL string `yaml:"api_url,omitempty"`
}

// APIBase returns the base URL of the portal API
func (p *Portal) APIBase() string {
	if p.APIURL != "" {
		return strings.TrimRight(p.APIURL, "/")
	}
	return strings.TrimRight(p.URL, "/") + "/api"
}

// Config represents the CLI configuration file
type Config struct {
	Portals []Portal `yaml:"portals"`
}

// FindConfigFile searches for healthease.yaml in current directory and parent directories
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads config from current directory or parent directories
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if err != nil {
		return nil, err
	}

	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetPortalByAlias returns a portal by its alias
func (c *Config) GetPortalByAlias(alias string) (*Portal, error) {
	for i := range c.Portals {
		if c.Portals[i].Alias == alias {
			return &c.Portals[i], nil
		}
	}
	return nil, fmt.Errorf("portal with alias '%s' not found", alias)
}

// GetPortalByURL returns a portal by its web app URL, ignoring a trailing slash
func (c *Config) GetPortalByURL(rawURL string) (*Portal, error) {
	want := strings.TrimRight(rawURL, "/")
	for i := range c.Portals {
		if strings.TrimRight(c.Portals[i].URL, "/") == want {
			return &c.Portals[i], nil
		}
	}
	return nil, fmt.Errorf("portal with URL '%s' not found", rawURL)
}

// GetPortalByURLOrAlias tries the URL first, then the alias
func (c *Config) GetPortalByURLOrAlias(urlOrAlias string) (*Portal, error) {
	if portal, err := c.GetPortalByURL(urlOrAlias); err == nil {
		return portal, nil
	}
	if portal, err := c.GetPortalByAlias(urlOrAlias); err == nil {
		return portal, nil
	}
	return nil, fmt.Errorf("portal with URL or alias '%s' not found", urlOrAlias)
}

// AddPortal appends a portal unless its URL is already configured.
// It reports whether the config changed.
func (c *Config) AddPortal(portal Portal) bool {
	if _, err := c.GetPortalByURL(portal.URL); err == nil {
		return false
	}
	c.Portals = append(c.Portals, portal)
	return true
}
