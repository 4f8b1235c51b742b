// Package manifest reads the application manifest (app.json or app.yaml) the
// migration takes its application id from. Manifests may be wrapped in a
// top-level "expo" key. Validation runs the embedded JSON schema and checks
// that sdkVersion is a strict semantic version.
package manifest
