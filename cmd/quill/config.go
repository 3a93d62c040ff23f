// Config loading for the quill CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/quill/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileFull = "config.yaml"

	cfgKeyServiceURL = "service_url"
	cfgKeyUsername   = "username"
	cfgKeyToken      = "token"
	cfgKeyDataDir    = "data_dir"
)

// defaultConfigYAML is written to config.yaml on first run so users have a
// template to fill in.
const defaultConfigYAML = `# Quill CLI configuration

# Base URL of the entity service (required).
# service_url: https://quill.example.com

# Account username (required).
# username:

# Bearer token for the service (optional).
# token:

# Data directory for the offline snapshot (optional; overridable by --data-dir).
# data_dir:
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a commented template on first run. A
// missing config.yaml is not an error; validation happens when a command
// actually needs the service.
func loadConfig(configDir string) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("QUILL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return types.Config{
		ServiceURL: v.GetString(cfgKeyServiceURL),
		Username:   v.GetString(cfgKeyUsername),
		Token:      v.GetString(cfgKeyToken),
		DataDir:    v.GetString(cfgKeyDataDir),
	}, nil
}

// ensureDefaultConfigFile creates a commented config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileFull)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
