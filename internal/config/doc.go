// Package config manages user-level settings stored at ~/.docmigrate/config.yaml.
// Values are layered: command-line flags, then DOCMIGRATE_* environment
// variables (a .env file in the working directory is loaded first), then the
// config file, then built-in defaults. Resolve returns the typed Settings the
// migrate and status commands run with.
package config
