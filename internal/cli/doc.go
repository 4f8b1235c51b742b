// Package cli defines the Cobra command tree for the docmigrate CLI. Each file
// in this package registers one top-level command (migrate, status, validate,
// etc.) with the root command. Command implementations delegate to internal
// packages for the migration itself and only handle flags, settings resolution,
// and output formatting.
package cli
