package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentx-labs/docmigrate/internal/branding"
	"github.com/agentx-labs/docmigrate/internal/platform"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys. Each key is also readable from the environment as
// DOCMIGRATE_<KEY> and, for the CLI, settable through --<key-with-dashes>.
const (
	KeyDocumentDir = "document_dir"
	KeyManifest    = "manifest"
	KeyAppID       = "app_id"
	KeyPlatform    = "platform"
	KeyOwnership   = "ownership"
	KeyOnConflict  = "on_conflict"
	KeyConcurrency = "concurrency"
	KeyLogLevel    = "log_level"
	KeyLogFile     = "log_file"
)

var keys = []string{
	KeyDocumentDir,
	KeyManifest,
	KeyAppID,
	KeyPlatform,
	KeyOwnership,
	KeyOnConflict,
	KeyConcurrency,
	KeyLogLevel,
	KeyLogFile,
}

// Keys returns every recognised setting key.
func Keys() []string {
	return slices.Clone(keys)
}

// IsKnownKey reports whether key is a recognised setting.
func IsKnownKey(key string) bool {
	return slices.Contains(keys, key)
}

// Dir returns the path to the config directory (~/.docmigrate/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.docmigrate/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := platform.EnsurePrivateDir(dir); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}

// Load initializes Viper to read from .env, the config file and the environment.
func Load() {
	// A missing .env is normal.
	_ = godotenv.Load()

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyOwnership, platform.OwnershipStandalone.String())
	viper.SetDefault(KeyOnConflict, "keep")
	viper.SetDefault(KeyConcurrency, 0)
	viper.SetDefault(KeyLogLevel, "info")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// BindFlags binds every flag in flags whose name matches a setting key
// (dashes for underscores), so flags override file and environment values.
func BindFlags(flags *pflag.FlagSet) error {
	for _, key := range keys {
		f := flags.Lookup(FlagName(key))
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", f.Name, err)
		}
	}
	return nil
}

// FlagName returns the command-line flag name for a setting key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file. Only the
// file's own contents are rewritten; defaults, flags and environment
// values are never persisted.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile := FilePath()

	file := viper.New()
	file.SetConfigFile(configFile)
	file.SetConfigType(fileType)
	if _, err := os.Stat(configFile); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	file.Set(key, value)
	if err := file.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Set(key, value)
	return nil
}
