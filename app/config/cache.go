package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Cache struct {
	sourcesDir string
	cache      map[string]*SourceConfig
	mu         sync.RWMutex
}

func NewCache(sourcesDir string) *Cache {
	return &Cache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*SourceConfig),
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		sourceName := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := c.LoadConfig(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", sourceName, "parser", config.Parser, "enabled", config.Settings.Enabled)
	}

	return nil
}

func (c *Cache) LoadConfig(sourceName string) (*SourceConfig, error) {
	configFile := c.getConfigFilePath(sourceName)
	sourceConfig, err := c.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	// Set source name from parameter
	sourceConfig.Name = sourceName

	if err := c.validateConfig(sourceConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[sourceConfig.Name] = sourceConfig

	return sourceConfig, nil
}

func (c *Cache) GetConfig(sourceName string) (*SourceConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sourceConfig, ok := c.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return sourceConfig, nil
}

// GetConfigByURL resolves a configuration by its canonical source URL. The
// crawl manager works from database rows, which carry the URL.
func (c *Cache) GetConfigByURL(url string) (*SourceConfig, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, sourceConfig := range c.cache {
		if sourceConfig.URL == url {
			return sourceConfig, nil
		}
	}
	return nil, fmt.Errorf("source config with URL '%s' not found", url)
}

func (c *Cache) GetConfigs() map[string]*SourceConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	configsCopy := make(map[string]*SourceConfig, len(c.cache))
	for k, v := range c.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (c *Cache) GetEnabledConfigs() map[string]*SourceConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	enabledConfigs := make(map[string]*SourceConfig)
	for k, v := range c.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (c *Cache) GetConfigCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Cache) parseConfig(configFile string) (*SourceConfig, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var sourceConfig SourceConfig
	if err := yaml.Unmarshal(data, &sourceConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if sourceConfig.Settings.MaxArticles == 0 {
		sourceConfig.Settings.MaxArticles = 100
	}

	return &sourceConfig, nil
}

func (c *Cache) validateConfig(sourceConfig *SourceConfig) error {
	if sourceConfig == nil {
		return fmt.Errorf("sourceConfig is nil")
	}

	requiredFields := map[string]string{
		"source name": sourceConfig.DisplayName,
		"source URL":  sourceConfig.URL,
		"parser":      sourceConfig.Parser,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if sourceConfig.Settings.MaxArticles < 0 {
		return fmt.Errorf("max articles must be non-negative")
	}

	if sourceConfig.Parser == "feed" && sourceConfig.FeedURL == "" {
		return fmt.Errorf("feed_url is required for the feed parser")
	}

	return nil
}

func (c *Cache) getConfigFilePath(sourceName string) string {
	return filepath.Join(c.sourcesDir, sourceName+".yml")
}
