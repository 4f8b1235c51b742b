// Package platform identifies the host the migration runs on: the platform
// identifier (android, ios, web) and the application ownership mode
// (standalone build versus a wrapper or preview client). It also carries the
// small permission helper used when creating the tool's own directories.
package platform
