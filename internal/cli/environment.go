package cli

import (
	"fmt"

	"github.com/agentx-labs/docmigrate/internal/config"
	"github.com/agentx-labs/docmigrate/internal/manifest"
	"github.com/agentx-labs/docmigrate/internal/migration"
)

// buildEnvironment turns resolved settings into a migration environment.
// An explicit app id wins over the manifest.
func buildEnvironment(s config.Settings) (migration.Environment, error) {
	env := migration.Environment{
		Platform:    s.Platform,
		Ownership:   s.Ownership,
		AppID:       s.AppID,
		DocumentDir: s.DocumentDir,
	}
	if env.AppID != "" || s.Manifest == "" {
		return env, nil
	}

	m, err := manifest.Parse(s.Manifest)
	if err != nil {
		return env, fmt.Errorf("loading app manifest: %w", err)
	}
	env.AppID = m.AppID()
	if env.AppID == "" {
		return env, fmt.Errorf("manifest %s has neither id nor owner and slug", s.Manifest)
	}
	if m.SDKVersion != "" {
		v, err := m.SDK()
		if err != nil {
			logger.Warn().Err(err).Msg("Ignoring sdkVersion")
		} else {
			logger.Debug().Stringer("sdk_version", v).Str("app_id", env.AppID).Msg("Loaded app manifest")
		}
	}
	return env, nil
}
