package version

// These variables are overridden at build time using -ldflags.
// Keep sensible defaults for local development.
var (
	Version = "1.0.0"
	Commit  = "none"
	Date    = "unknown"
)
