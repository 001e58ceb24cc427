// Package version holds build metadata injected via -ldflags.
package version

import "fmt"

var (
	GitVersion = "v0.0.0-master+$Format:%h$"
	GitCommit  = "$Format:%H$"
	BuildDate  = "1970-01-01T00:00:00Z"
)

// String returns a single-line version summary.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", GitVersion, GitCommit, BuildDate)
}
