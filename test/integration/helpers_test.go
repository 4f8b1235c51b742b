//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/docmigrate/internal/migration"
	"github.com/agentx-labs/docmigrate/internal/platform"
)

const testAppID = "@acme/notes"

// testEnv holds paths to an isolated app sandbox on the real file system.
type testEnv struct {
	DocumentDir string // the app's document directory (the new data root)
	LegacyDir   string // on-disk legacy directory for testAppID
	HomeDir     string // HOME, so config writes stay sandboxed
}

// setupTestEnv creates an isolated document directory and points HOME at a
// temp dir. The legacy directory path is computed but not created.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		DocumentDir: t.TempDir(),
		HomeDir:     t.TempDir(),
	}
	// The app id is encoded twice and storage decodes once, so one level of
	// encoding is left on disk.
	env.LegacyDir = filepath.Join(env.DocumentDir, "ExperienceData", "%40acme%2Fnotes")

	t.Setenv("HOME", env.HomeDir)
	return env
}

// migrationEnv returns a standalone Android environment for env.
func (e *testEnv) migrationEnv() migration.Environment {
	return migration.Environment{
		Platform:    platform.Android,
		Ownership:   platform.OwnershipStandalone,
		AppID:       testAppID,
		DocumentDir: e.DocumentDir,
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContent fails if the file doesn't exist or its content differs.
func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if string(data) != want {
		t.Errorf("file %s = %q, want %q", path, string(data), want)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
