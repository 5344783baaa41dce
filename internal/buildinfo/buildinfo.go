// Package buildinfo carries the version stamped into the coop binary.
package buildinfo

// Version, Commit and Date are set at build time via -ldflags, e.g.
//
//	-X coop/internal/buildinfo.Version=v0.3.0
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for logs and the version command.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}
