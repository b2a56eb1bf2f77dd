// Package version provides build information for the nescore executable.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Set at build time via -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
)

// String returns a one-line version description.
func String() string {
	commit := GitCommit
	if commit == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
					break
				}
			}
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return fmt.Sprintf("nescore %s (%s, %s, %s/%s)",
		Version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
