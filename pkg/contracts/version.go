// Package contracts holds the cross-cutting constants shared by the
// Travelpac pipeline packages.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application.
	Version = "0.1.0"

	// DataFormatVersion is the version of the Travelpac sheet schema the
	// loader expects.
	DataFormatVersion = "v1"
)

// VersionString returns the full version line logged at startup.
func VersionString() string {
	return fmt.Sprintf("travelpac %s (%s, %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
