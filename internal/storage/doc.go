// Package storage is the host file API the migration runs against.
//
// Paths handed to Storage are storage paths: they are percent-decoded exactly
// once before they reach the file system, the same way the mobile runtime
// decodes file URIs. Raw file-system paths are turned into storage paths with
// Escape. The backing file system is an afero.Fs so tests can run against an
// in-memory tree.
package storage
