// Package config loads dillma settings from flags, config files and the
// environment through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultModel is the chat model queried when none is configured.
	DefaultModel = "gpt-4-1106-preview"
	// DefaultTemperature matches the sampling temperature dillma has always used.
	DefaultTemperature = 0.8
	// DefaultMaxTokens caps the completion length.
	DefaultMaxTokens = 800
	// DefaultTimeout bounds the single network round-trip.
	DefaultTimeout = 60 * time.Second

	configName = ".dillma"
	envPrefix  = "DILLMA"
)

// ErrSubstitution is returned when a config file references an environment
// variable that is not set and has no default.
var ErrSubstitution = errors.New("environment variable substitution failed")

// Settings is the process-lifetime configuration. It is read from viper once
// at startup and passed around by value.
type Settings struct {
	Model        string
	ProviderURL  string
	APIKey       string
	Temperature  float32
	MaxTokens    int
	Timeout      time.Duration
	StrictErrors bool
	Markdown     bool
	Debug        bool
}

// SetDefaults registers the defaults for every key dillma reads. Flags bound
// with viper.BindPFlag override these when set.
func SetDefaults() {
	viper.SetDefault("model", DefaultModel)
	viper.SetDefault("temperature", DefaultTemperature)
	viper.SetDefault("max-tokens", DefaultMaxTokens)
	viper.SetDefault("timeout", DefaultTimeout)
	viper.SetDefault("strict-errors", false)
	viper.SetDefault("markdown", false)
	viper.SetDefault("debug", false)
}

// Init locates and loads the config file. An explicit configFile must exist;
// otherwise .dillma.{yml,yaml,json} is searched in the working directory and
// then the home directory, and a missing file is not an error. It reports the
// path of the file that was loaded, or "" when none was found.
func Init(configFile string) (string, error) {
	SetDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		if err := LoadWithEnvSubstitution(configFile); err != nil {
			return "", err
		}
		return configFile, nil
	}

	path, err := findConfig()
	if err != nil || path == "" {
		return "", err
	}
	if err := LoadWithEnvSubstitution(path); err != nil {
		return "", fmt.Errorf("error reading config file '%s': %w", path, err)
	}
	return path, nil
}

// findConfig returns the first config file found, current directory first.
func findConfig() (string, error) {
	dirs := []string{"."}
	home, err := os.UserHomeDir()
	if err == nil {
		dirs = append(dirs, home)
	}

	for _, dir := range dirs {
		for _, ext := range []string{".yml", ".yaml", ".json"} {
			path := filepath.Join(dir, configName+ext)
			info, err := os.Stat(path)
			if err == nil && !info.IsDir() {
				return path, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("checking config file %s: %w", path, err)
			}
		}
	}
	return "", nil
}

// LoadWithEnvSubstitution reads a config file, expands ${env://VAR}
// references and merges the result into viper. Files ending in .json are
// parsed as JSON, everything else as YAML.
func LoadWithEnvSubstitution(configPath string) error {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	processed := string(raw)
	if HasEnvVars(processed) {
		substituter := &EnvSubstituter{}
		processed, err = substituter.SubstituteEnvVars(processed)
		if err != nil {
			return fmt.Errorf("config env substitution failed: %w", err)
		}
	}

	configType := "yaml"
	if strings.HasSuffix(configPath, ".json") {
		configType = "json"
	}

	viper.SetConfigType(configType)
	return viper.ReadConfig(strings.NewReader(processed))
}

// Load snapshots the current viper state into a Settings value.
func Load() Settings {
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Settings{
		Model:        viper.GetString("model"),
		ProviderURL:  viper.GetString("provider-url"),
		APIKey:       viper.GetString("api-key"),
		Temperature:  float32(viper.GetFloat64("temperature")),
		MaxTokens:    viper.GetInt("max-tokens"),
		Timeout:      timeout,
		StrictErrors: viper.GetBool("strict-errors"),
		Markdown:     viper.GetBool("markdown"),
		Debug:        viper.GetBool("debug"),
	}
}
