// Config loading for the typelayout CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/typelayout/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// envPrefix scopes environment overrides, e.g. TYPELAYOUT_BACKEND.
	envPrefix = "TYPELAYOUT"

	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyPackedAlignment = "packed_alignment"
	cfgKeyLogLevel        = "log_level"
	cfgKeyColor           = "color"

	defaultBackend  = types.BackendSQLite
	defaultLogLevel = "warn"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend         string `yaml:"backend"`
	DataDir         string `yaml:"data_dir,omitempty"`
	PackedAlignment string `yaml:"packed_alignment"`
	LogLevel        string `yaml:"log_level"`
	Color           bool   `yaml:"color"`
}

// settings is the resolved configuration of one CLI invocation.
type settings struct {
	types.Config
	LogLevel string
	Color    bool
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// directory or file is not an error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyPackedAlignment, string(types.DefaultPackedAlignment))
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyColor, true)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// settingsFrom extracts and validates settings. dataDir is the already
// resolved data directory.
func settingsFrom(v *viper.Viper, dataDir string) (settings, error) {
	s := settings{
		Config: types.Config{
			Backend:         v.GetString(cfgKeyBackend),
			DataDir:         dataDir,
			PackedAlignment: types.PackedAlignmentPolicy(v.GetString(cfgKeyPackedAlignment)),
		},
		LogLevel: v.GetString(cfgKeyLogLevel),
		Color:    v.GetBool(cfgKeyColor),
	}
	if err := s.Config.Validate(); err != nil {
		return settings{}, fmt.Errorf("config: %w", err)
	}
	return s, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	cfg := configFile{
		Backend:         defaultBackend,
		DataDir:         dataDir,
		PackedAlignment: string(types.DefaultPackedAlignment),
		LogLevel:        defaultLogLevel,
		Color:           true,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	return true, os.WriteFile(path, data, 0o644)
}
