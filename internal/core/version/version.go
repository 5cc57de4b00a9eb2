// Package version reports the build identity of the collector binary
package version

import "runtime"

// BuildInfo is served on the ops health endpoint and logged at startup
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Set with -ldflags "-X github.com/mincheuk/road2air-icn-smart-services/internal/core/version.version=v1.2.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information
func Info() BuildInfo {
	return BuildInfo{
		Service: "road2air-collector",
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
}
