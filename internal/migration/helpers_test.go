package migration

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/agentx-labs/docmigrate/internal/platform"
	"github.com/agentx-labs/docmigrate/internal/storage"
)

const (
	testDocumentDir = "/data/files"
	testAppID       = "@owner/app"
	// testLegacyDisk is where the legacy sandbox of testAppID lives on disk.
	testLegacyDisk = "/data/files/ExperienceData/%40owner%2Fapp"
	// testLegacyStorage is the storage path that decodes to testLegacyDisk.
	testLegacyStorage = "/data/files/ExperienceData/%2540owner%252Fapp"
)

func newMemStorage(t *testing.T) (*storage.Storage, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	if err := mem.MkdirAll(testDocumentDir, 0755); err != nil {
		t.Fatal(err)
	}
	return storage.New(mem), mem
}

func standaloneAndroid() Environment {
	return Environment{
		Platform:    platform.Android,
		Ownership:   platform.OwnershipStandalone,
		AppID:       testAppID,
		DocumentDir: testDocumentDir,
	}
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertExists(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	if ok, _ := afero.Exists(fsys, path); !ok {
		t.Errorf("expected %s to exist", path)
	}
}

func assertMissing(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	if ok, _ := afero.Exists(fsys, path); ok {
		t.Errorf("expected %s to be absent", path)
	}
}

func listNames(t *testing.T, fsys afero.Fs, dir string) []string {
	t.Helper()
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		t.Fatalf("listing %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// snapshot maps every path below root to its content ("<dir>" for directories).
func snapshot(t *testing.T, fsys afero.Fs, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			out[path] = "<dir>"
			return nil
		}
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		out[path] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return out
}

type conflictCall struct {
	legacy  string
	current string
}

// recordingResolver records every call and then delegates to next.
type recordingResolver struct {
	mu    sync.Mutex
	calls []conflictCall
	next  ConflictResolver
}

func (r *recordingResolver) OnConflict(ctx context.Context, legacyFile, currentFile string) error {
	r.mu.Lock()
	r.calls = append(r.calls, conflictCall{legacy: legacyFile, current: currentFile})
	r.mu.Unlock()
	if r.next == nil {
		return nil
	}
	return r.next.OnConflict(ctx, legacyFile, currentFile)
}

func (r *recordingResolver) Calls() []conflictCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]conflictCall(nil), r.calls...)
	sort.Slice(out, func(i, j int) bool { return out[i].legacy < out[j].legacy })
	return out
}

// staleInfoFS answers GetInfo for one path from a snapshot taken before a
// delay, so callers act on an answer that may be out of date by then.
type staleInfoFS struct {
	*storage.Storage
	path  string
	delay time.Duration
}

func (f *staleInfoFS) GetInfo(p string) (storage.Info, error) {
	info, err := f.Storage.GetInfo(p)
	if p == f.path {
		time.Sleep(f.delay)
	}
	return info, err
}
