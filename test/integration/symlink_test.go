//go:build integration && unix

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/agentx-labs/docmigrate/internal/migration"
	"github.com/agentx-labs/docmigrate/internal/storage"
)

func TestBulkMigrationKeepsSymlinks(t *testing.T) {
	env := setupTestEnv(t)

	writeFile(t, filepath.Join(env.LegacyDir, "real.txt"), "real")
	if err := os.Symlink("real.txt", filepath.Join(env.LegacyDir, "link.txt")); err != nil {
		t.Fatal(err)
	}

	migrator := migration.NewMigrator(storage.NewOS(), env.migrationEnv())
	if err := migrator.Migrate(context.Background(), nil); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	link := filepath.Join(env.DocumentDir, "link.txt")
	fi, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("lstat %s: %v", link, err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("%s is not a symlink", link)
	}
	assertFileContent(t, link, "real")
	assertFileNotExists(t, env.LegacyDir)
}

func TestBulkMigrationKeepsLegacyOnSpecialFile(t *testing.T) {
	env := setupTestEnv(t)

	writeFile(t, filepath.Join(env.LegacyDir, "real.txt"), "real")
	if err := syscall.Mkfifo(filepath.Join(env.LegacyDir, "pipe"), 0644); err != nil {
		t.Skipf("mkfifo not available: %v", err)
	}

	migrator := migration.NewMigrator(storage.NewOS(), env.migrationEnv())
	if err := migrator.Migrate(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a named pipe")
	}
	assertFileExists(t, filepath.Join(env.LegacyDir, "real.txt"))
	assertFileExists(t, filepath.Join(env.LegacyDir, "pipe"))
}
