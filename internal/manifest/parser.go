package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse reads an app manifest from a YAML or JSON file.
func Parse(path string) (*AppManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// ParseBytes decodes an app manifest. JSON input is accepted because JSON is
// valid YAML.
func ParseBytes(data []byte) (*AppManifest, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}

	body := data
	if inner, ok := raw[wrapperKey]; ok {
		// Re-encode the wrapped section and decode it into the typed struct.
		out, err := yaml.Marshal(inner)
		if err != nil {
			return nil, fmt.Errorf("re-encoding %q section: %w", wrapperKey, err)
		}
		body = out
	}

	var m AppManifest
	if err := yaml.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling manifest: %w", err)
	}
	return &m, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
