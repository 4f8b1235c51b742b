package platform

import (
	"fmt"
	"os"
	"runtime"
)

// PrivateDirPerm is applied to directories the tool owns (config, logs).
const PrivateDirPerm os.FileMode = 0700

// EnsurePrivateDir creates dir if needed and restricts it to the current user.
// Permission bits are left alone on Windows, which has no Unix mode bits.
func EnsurePrivateDir(dir string) error {
	if err := os.MkdirAll(dir, PrivateDirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if runtime.GOOS == "windows" {
		return nil
	}
	// MkdirAll leaves an existing directory's mode untouched.
	if err := os.Chmod(dir, PrivateDirPerm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", dir, err)
	}
	return nil
}
