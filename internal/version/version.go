// Package version holds the build version string.
package version

// Version is the current release. Overridden at build time via
// -ldflags "-X chatgate/internal/version.Version=...".
var Version = "1.0.0"
