package version

// Version contains the application version information.
// This should be set via build-time ldflags in release builds:
// go build -ldflags "-X github.com/volker-raschek/gh-actions/internal/version.Version=v1.4.1".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
