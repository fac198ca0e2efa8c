package version

import "fmt"

// these values are set by the build process via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	BuildedBy = "local"

	FullVersion = fmt.Sprintf("%s (%s %s %s)", Version, Commit, Date, BuildedBy)
)
