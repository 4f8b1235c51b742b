package config

import (
	"fmt"

	"github.com/agentx-labs/docmigrate/internal/platform"
	"github.com/spf13/viper"
)

// Settings is the typed view of the loaded configuration.
type Settings struct {
	DocumentDir string
	Manifest    string
	AppID       string
	Platform    platform.ID
	Ownership   platform.Ownership
	OnConflict  string
	Concurrency int
	LogLevel    string
	LogFile     string
}

// Resolve reads the current Viper state into Settings. An empty platform
// resolves to the platform the binary runs on.
func Resolve() (Settings, error) {
	ownership, err := platform.ParseOwnership(viper.GetString(KeyOwnership))
	if err != nil {
		return Settings{}, fmt.Errorf("resolving %s: %w", KeyOwnership, err)
	}

	concurrency := viper.GetInt(KeyConcurrency)
	if concurrency < 0 {
		return Settings{}, fmt.Errorf("resolving %s: must not be negative, got %d", KeyConcurrency, concurrency)
	}

	return Settings{
		DocumentDir: viper.GetString(KeyDocumentDir),
		Manifest:    viper.GetString(KeyManifest),
		AppID:       viper.GetString(KeyAppID),
		Platform:    platform.ParseID(viper.GetString(KeyPlatform)),
		Ownership:   ownership,
		OnConflict:  viper.GetString(KeyOnConflict),
		Concurrency: concurrency,
		LogLevel:    viper.GetString(KeyLogLevel),
		LogFile:     viper.GetString(KeyLogFile),
	}, nil
}
