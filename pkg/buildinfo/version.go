// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/wallplan/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/wallplan/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/wallplan/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template is the cobra version template for wallplan --version.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, shortCommit(), Date)
}

// Generator identifies this build in plan output, e.g. "wallplan v1.2.3".
func Generator() string {
	return "wallplan " + Version
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
