// Package logging builds the zerolog logger shared by the CLI and the
// migration engine: human-readable console output on stderr, plus optional
// JSON lines in a size-rotated log file.
package logging
