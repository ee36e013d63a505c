// Package buildinfo carries the version stamped into the journey binary.
//
//	go build -ldflags "-X github.com/matzehuels/journey/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/journey/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" ./cmd/journey
package buildinfo

import "fmt"

// Set via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp as served by the API health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build stamp.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// UserAgent identifies journey to generator endpoints.
func UserAgent() string {
	return "journey/" + Version
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}
