// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/corriander/eve-telemetrics/internal/version.Version=0.3.0 \
//	                   -X github.com/corriander/eve-telemetrics/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/corriander/eve-telemetrics/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

// Build-time variables (set via ldflags)
var (
	// Version is the semantic version (e.g., "0.3.0")
	Version = "dev"

	// Commit is the git commit hash (short form)
	Commit = "unknown"

	// BuildTime is the UTC build timestamp (ISO 8601)
	BuildTime = "unknown"
)

// Application identity.
const (
	AppName      = "evetele"
	HumanAppName = "EVE Telemetrics"
	ProjectURL   = "https://github.com/corriander/eve-telemetrics"
)

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}

// UserAgent is sent with every ESI and SSO request.
func UserAgent() string {
	return HumanAppName + " " + Version + " (" + ProjectURL + ")"
}
