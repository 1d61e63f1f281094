// Package version provides version information for the dao client.
// The version is sent to the master in the User-Agent header and printed by
// `dao --version`. Versions follow semantic versioning (semver) conventions.

package version

// DaoVersion holds the current dao CLI version.
// Format: major.minor.patch[-prerelease][+build]
const DaoVersion = "0.1.0-dev"
