package build

import (
	"fmt"
	"strings"
)

var (
	devBuildVersion = "0.0.0-dev"
	BuildVersion    = "0.0.0-dev"
	BuildDate       = "n/a"
	CommitHash      = "n/a"
)

// IsDev returns true if the build is a development build.
func IsDev() bool {
	return strings.HasSuffix(BuildVersion, "-dev")
}

// Version returns the version string in the format of "vX.Y.Z (<commit>), built <date>".
func Version() string {
	if BuildVersion == devBuildVersion {
		return BuildVersion
	}
	return fmt.Sprintf("%s (%s), built %s", BuildVersion, CommitHash, BuildDate)
}

// UserAgent returns the user agent string sent with every web UI request.
func UserAgent() string {
	if IsDev() {
		return fmt.Sprintf("dlctl/%s", BuildVersion)
	}
	return fmt.Sprintf("dlctl/v%s-%s (%s)", BuildVersion, CommitHash, BuildDate)
}
