package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"salescope/internal/common"
	"salescope/pkg/models"
)

func GetConfigPath() string {
	// Check for environment variable first
	if configPath := os.Getenv("SALESCOPE_CONFIG"); configPath != "" {
		return filepath.Dir(configPath)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".salescope")
}

func GetConfigFile() string {
	// Check for environment variable first
	if configFile := os.Getenv("SALESCOPE_CONFIG"); configFile != "" {
		// Validate the path to prevent directory traversal
		cleaned, err := common.CleanPath(configFile)
		if err != nil {
			// Fall back to default if invalid
			return filepath.Join(GetConfigPath(), "config.yaml")
		}
		return cleaned
	}
	return filepath.Join(GetConfigPath(), "config.yaml")
}

// Load reads the configuration file, filling unset values with defaults
func Load() (*models.Config, error) {
	configFile := GetConfigFile()

	cleanedPath, err := common.CleanPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("invalid config file path: %w", err)
	}

	// Missing config is not an error: run with defaults
	if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
		return models.Default(), nil
	}

	data, err := os.ReadFile(cleanedPath) // #nosec G304 - path is validated
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := models.Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(config)
	return config, nil
}

func Save(config *models.Config) error {
	configPath := GetConfigPath()
	if err := os.MkdirAll(configPath, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(GetConfigFile(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func Exists() bool {
	_, err := os.Stat(GetConfigFile())
	return err == nil
}

// applyDefaults backfills zero values left by a sparse YAML file
func applyDefaults(config *models.Config) {
	def := models.Default()

	if config.Database.Path == "" {
		config.Database.Path = def.Database.Path
	}
	if config.Database.BusyTimeout == "" {
		config.Database.BusyTimeout = def.Database.BusyTimeout
	}
	if config.Generate.OutputDir == "" {
		config.Generate.OutputDir = def.Generate.OutputDir
	}
	if config.Generate.Customers <= 0 {
		config.Generate.Customers = def.Generate.Customers
	}
	if config.Generate.Products <= 0 {
		config.Generate.Products = def.Generate.Products
	}
	if config.Generate.Orders <= 0 {
		config.Generate.Orders = def.Generate.Orders
	}
	if config.Generate.MinItemsPerOrder <= 0 {
		config.Generate.MinItemsPerOrder = def.Generate.MinItemsPerOrder
	}
	if config.Generate.MaxItemsPerOrder <= 0 {
		config.Generate.MaxItemsPerOrder = def.Generate.MaxItemsPerOrder
	}
	if config.Generate.StartDate == "" {
		config.Generate.StartDate = def.Generate.StartDate
	}
	if config.Generate.EndDate == "" {
		config.Generate.EndDate = def.Generate.EndDate
	}
	if config.Forecast.Months <= 0 {
		config.Forecast.Months = def.Forecast.Months
	}
	if config.Forecast.ChartFile == "" {
		config.Forecast.ChartFile = def.Forecast.ChartFile
	}
}
