// Package version exposes the build provenance stamped into the binary.
package version

import "fmt"

// Populated at build time:
//
//	go build -ldflags "-X <module>/internal/version.Commit=<sha> -X <module>/internal/version.BuildTime=<ts>"
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String renders the text shown by --version. Builds are identified by
// commit hash; there is no semver line.
func String() string {
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("kinship dev (commit %s, built %s)", commit, BuildTime)
}
