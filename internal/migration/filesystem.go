package migration

import "github.com/agentx-labs/docmigrate/internal/storage"

// FileSystem is the host file API the migration needs. Paths are storage
// paths; *storage.Storage is the production implementation.
type FileSystem interface {
	// GetInfo reports existence and type. A missing path is not an error.
	GetInfo(path string) (storage.Info, error)

	// ReadDirectory lists the names of the immediate children of path.
	ReadDirectory(path string) ([]string, error)

	// Copy copies a file or directory tree, creating missing parents.
	Copy(from, to string) error

	// CopyExclusive copies a regular file to a path that must not exist.
	// Losing a race for the name fails with an error wrapping fs.ErrExist.
	CopyExclusive(from, to string) error

	// Delete removes a file or directory tree.
	Delete(path string) error

	// WriteString writes content to a file inside an existing directory.
	WriteString(path, content string) error
}
