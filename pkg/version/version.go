package version

import (
	"fmt"
	"runtime"
)

// Semantic version of the trading agent.
const (
	Major = 0
	Minor = 3
	Patch = 1
)

// Version returns the semantic version string.
func Version() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}

// Runtime returns the version together with the toolchain and platform,
// for the startup log line.
func Runtime() string {
	return fmt.Sprintf("v%s (%s, %s/%s)", Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
