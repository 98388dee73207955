package version // import "github.com/tetherhq/tether-read/version"

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the semver of the current build.
var Version = "0.1.0"

// DevVersion is the versioned used for development builds.
var DevVersion = "0.0.0"

var Mode = "dev"

func GetCurrentVersion() string {
	if Mode == "dev" {
		return DevVersion
	}
	return Version
}

// GetMinorVersion returns the minor version of the given version string,
// e.g. "0.1.0" -> "0.1".
func GetMinorVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return version
	}
	return strings.Join(parts[:2], ".")
}

// IsVersionGreaterOrEqualThan reports whether version is greater than or
// equal to target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(fmt.Sprintf("v%s", version), fmt.Sprintf("v%s", target)) > -1
}
