package manifest

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// wrapperKey is the optional top-level key app.json files nest everything under.
const wrapperKey = "expo"

// AppManifest holds the manifest fields the migration cares about.
type AppManifest struct {
	ID         string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name       string   `yaml:"name,omitempty" json:"name,omitempty"`
	Slug       string   `yaml:"slug,omitempty" json:"slug,omitempty"`
	Owner      string   `yaml:"owner,omitempty" json:"owner,omitempty"`
	SDKVersion string   `yaml:"sdkVersion,omitempty" json:"sdkVersion,omitempty"`
	Platforms  []string `yaml:"platforms,omitempty" json:"platforms,omitempty"`
}

// AppID returns the stable application id. An explicit id wins; otherwise
// the id is derived as "@owner/slug". Empty when neither is available.
func (m *AppManifest) AppID() string {
	if m.ID != "" {
		return m.ID
	}
	if m.Owner != "" && m.Slug != "" {
		return "@" + m.Owner + "/" + m.Slug
	}
	return ""
}

// SDK parses SDKVersion.
func (m *AppManifest) SDK() (*semver.Version, error) {
	if m.SDKVersion == "" {
		return nil, fmt.Errorf("manifest has no sdkVersion")
	}
	v, err := semver.StrictNewVersion(m.SDKVersion)
	if err != nil {
		return nil, fmt.Errorf("parsing sdkVersion %q: %w", m.SDKVersion, err)
	}
	return v, nil
}
