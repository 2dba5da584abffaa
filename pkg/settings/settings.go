// Package settings provides build metadata, per-run CLI parameters and
// context helpers shared by the combox CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "combox"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds the commit hash, semantic version and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// UserAgent returns the User-Agent sent with suggestion requests.
func UserAgent() string {
	return CliBinaryName + "/" + VersionInformation.BuildVersion
}

// Run holds the settings for a single execution.
type Run struct {
	MinLogLevel int8
	LogFile     string
	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used by the CLI entry point.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
	}
}
