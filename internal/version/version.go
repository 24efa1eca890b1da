package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/cs01/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/cs01/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/cs01/internal/version.Date={{.Date}}
)

// String returns the one-line version summary.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
