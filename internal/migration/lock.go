package migration

import (
	"fmt"
	"path/filepath"

	"github.com/agentx-labs/docmigrate/internal/storage"
)

// LockFileName is the marker written into the legacy directory after a
// merge. Installs in the field carry this exact name; changing it makes every
// one of them eligible for a second merge.
const LockFileName = "migrationLock#6453743"

// LockContent is the body of the lock marker.
const LockContent = "lock"

// HasLock reports whether dir directly contains the lock marker.
func HasLock(fsys FileSystem, dir string) (bool, error) {
	children, err := fsys.ReadDirectory(dir)
	if err != nil {
		return false, fmt.Errorf("checking lock in %s: %w", dir, err)
	}
	for _, name := range children {
		if name == LockFileName {
			return true, nil
		}
	}
	return false, nil
}

// SetLock writes the lock marker into dir, which must exist.
func SetLock(fsys FileSystem, dir string) error {
	if err := fsys.WriteString(lockPath(dir), LockContent); err != nil {
		return fmt.Errorf("writing lock in %s: %w", dir, err)
	}
	return nil
}

func lockPath(dir string) string {
	return filepath.Join(dir, storage.Escape(LockFileName))
}
