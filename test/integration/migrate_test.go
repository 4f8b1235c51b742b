//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentx-labs/docmigrate/internal/manifest"
	"github.com/agentx-labs/docmigrate/internal/migration"
	"github.com/agentx-labs/docmigrate/internal/storage"
)

// TestFullFlowManifestToLock covers the complete flow:
// read manifest -> status pending -> merge -> status locked -> rerun is a no-op.
func TestFullFlowManifestToLock(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	manifestPath := filepath.Join(t.TempDir(), "app.json")
	writeFile(t, manifestPath, `{"expo": {"owner": "acme", "slug": "notes", "sdkVersion": "4.0.0"}}`)
	m, err := manifest.Parse(manifestPath)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	writeFile(t, filepath.Join(env.LegacyDir, "photos", "2019", "a.jpg"), "jpeg a")
	writeFile(t, filepath.Join(env.LegacyDir, "photos", "2020", "b.jpg"), "jpeg b")
	writeFile(t, filepath.Join(env.LegacyDir, "settings.json"), `{"legacy":true}`)
	writeFile(t, filepath.Join(env.DocumentDir, "settings.json"), `{"legacy":false}`)
	writeFile(t, filepath.Join(env.DocumentDir, "photos", "2020", "c.jpg"), "jpeg c")

	menv := env.migrationEnv()
	menv.AppID = m.AppID()
	fsys := storage.NewOS()
	migrator := migration.NewMigrator(fsys, menv)

	st, err := migrator.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.State != migration.StatePending {
		t.Fatalf("State = %v, want pending", st.State)
	}

	var conflicts []string
	resolver := migration.ResolverFunc(func(_ context.Context, legacyFile, currentFile string) error {
		conflicts = append(conflicts, filepath.Base(currentFile))
		return nil
	})
	if err := migrator.Migrate(ctx, resolver); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	assertFileContent(t, filepath.Join(env.DocumentDir, "photos", "2019", "a.jpg"), "jpeg a")
	assertFileContent(t, filepath.Join(env.DocumentDir, "photos", "2020", "b.jpg"), "jpeg b")
	assertFileContent(t, filepath.Join(env.DocumentDir, "photos", "2020", "c.jpg"), "jpeg c")
	assertFileContent(t, filepath.Join(env.DocumentDir, "settings.json"), `{"legacy":false}`)
	assertFileNotExists(t, filepath.Join(env.LegacyDir, "photos", "2019"))
	assertFileExists(t, filepath.Join(env.LegacyDir, "settings.json"))
	assertFileContent(t, filepath.Join(env.LegacyDir, migration.LockFileName), migration.LockContent)

	if len(conflicts) != 1 || conflicts[0] != "settings.json" {
		t.Errorf("conflicts = %v, want [settings.json]", conflicts)
	}

	st, err = migrator.Status(ctx)
	if err != nil {
		t.Fatalf("Status after migrate: %v", err)
	}
	if st.State != migration.StateLocked {
		t.Errorf("State = %v, want locked", st.State)
	}

	conflicts = nil
	if err := migrator.Migrate(ctx, resolver); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("resolver called on locked directory: %v", conflicts)
	}
}

func TestBulkMigrationRemovesLegacy(t *testing.T) {
	env := setupTestEnv(t)

	writeFile(t, filepath.Join(env.LegacyDir, "db", "app.sqlite"), "rows")
	writeFile(t, filepath.Join(env.LegacyDir, "50%off.txt"), "percent")

	migrator := migration.NewMigrator(storage.NewOS(), env.migrationEnv())
	if err := migrator.Migrate(context.Background(), nil); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	assertFileContent(t, filepath.Join(env.DocumentDir, "db", "app.sqlite"), "rows")
	assertFileContent(t, filepath.Join(env.DocumentDir, "50%off.txt"), "percent")
	assertFileNotExists(t, env.LegacyDir)
	assertFileNotExists(t, filepath.Join(env.DocumentDir, migration.LockFileName))
}

func TestMergeEscapesPercentNames(t *testing.T) {
	env := setupTestEnv(t)

	writeFile(t, filepath.Join(env.LegacyDir, "100%", "report%20final.txt"), "report")

	migrator := migration.NewMigrator(storage.NewOS(), env.migrationEnv())
	if err := migrator.Migrate(context.Background(), migration.NoopResolver); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	assertFileContent(t, filepath.Join(env.DocumentDir, "100%", "report%20final.txt"), "report")
	assertFileExists(t, filepath.Join(env.LegacyDir, migration.LockFileName))
}

func TestStrategiesOnDisk(t *testing.T) {
	old := time.Now().Add(-time.Hour)

	tests := []struct {
		strategy       migration.Strategy
		legacyNewer    bool
		wantCurrent    string
		wantBackup     bool
		wantLegacyGone bool
	}{
		{migration.StrategyKeep, false, "current", false, false},
		{migration.StrategyLegacyWins, false, "legacy", false, true},
		{migration.StrategyCurrentWins, false, "current", false, true},
		{migration.StrategyNewerWins, true, "legacy", false, true},
		{migration.StrategyNewerWins, false, "current", false, true},
		{migration.StrategyBackup, false, "current", true, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/legacyNewer=%v", tt.strategy, tt.legacyNewer), func(t *testing.T) {
			env := setupTestEnv(t)
			legacyFile := filepath.Join(env.LegacyDir, "notes.txt")
			currentFile := filepath.Join(env.DocumentDir, "notes.txt")
			writeFile(t, legacyFile, "legacy")
			writeFile(t, currentFile, "current")

			fsys := storage.NewOS()
			older := currentFile
			if !tt.legacyNewer {
				older = legacyFile
			}
			if err := fsys.Fs().Chtimes(older, old, old); err != nil {
				t.Fatal(err)
			}

			resolver, err := migration.NewResolver(tt.strategy, fsys)
			if err != nil {
				t.Fatalf("NewResolver: %v", err)
			}
			if err := migration.NewMigrator(fsys, env.migrationEnv()).Migrate(context.Background(), resolver); err != nil {
				t.Fatalf("Migrate: %v", err)
			}

			assertFileContent(t, currentFile, tt.wantCurrent)
			if tt.wantBackup {
				assertFileContent(t, currentFile+".legacy", "legacy")
			}
			if tt.wantLegacyGone {
				assertFileNotExists(t, legacyFile)
			} else {
				assertFileExists(t, legacyFile)
			}
			assertFileExists(t, filepath.Join(env.LegacyDir, migration.LockFileName))
		})
	}
}

func TestLargeTreeWithConcurrencyLimit(t *testing.T) {
	env := setupTestEnv(t)

	const dirs, files = 8, 16
	for d := 0; d < dirs; d++ {
		for f := 0; f < files; f++ {
			writeFile(t, filepath.Join(env.LegacyDir, fmt.Sprintf("d%d", d), fmt.Sprintf("f%d.txt", f)), fmt.Sprintf("%d-%d", d, f))
			if f%4 == 0 {
				writeFile(t, filepath.Join(env.DocumentDir, fmt.Sprintf("d%d", d), fmt.Sprintf("f%d.txt", f)), "current")
			}
		}
	}

	fsys := storage.NewOS()
	resolver, err := migration.NewResolver(migration.StrategyBackup, fsys)
	if err != nil {
		t.Fatal(err)
	}
	migrator := migration.NewMigrator(fsys, env.migrationEnv(),
		migration.WithMergeOptions(migration.WithMaxConcurrency(2)))
	if err := migrator.Migrate(context.Background(), resolver); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	for d := 0; d < dirs; d++ {
		for f := 0; f < files; f++ {
			path := filepath.Join(env.DocumentDir, fmt.Sprintf("d%d", d), fmt.Sprintf("f%d.txt", f))
			if f%4 == 0 {
				assertFileContent(t, path, "current")
				assertFileContent(t, path+".legacy", fmt.Sprintf("%d-%d", d, f))
				continue
			}
			assertFileContent(t, path, fmt.Sprintf("%d-%d", d, f))
		}
	}
	assertFileContains(t, filepath.Join(env.LegacyDir, migration.LockFileName), "lock")
}
