// Package settings provides build metadata, per-run options, and context
// helpers used across the keytips CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "keytips"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string `json:"commit" yaml:"commit"`
	BuildVersion string `json:"version" yaml:"version"`
	BuildTime    string `json:"buildTime" yaml:"buildTime"`
}

// Run holds the options of a single invocation.
type Run struct {
	MinLogLevel int8
	LogFile     string
	ConfigPath  string
	// Modifier is the activation modifier requested on the command line;
	// empty defers to the config file.
	Modifier    string
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults for a CLI run: info logging to stderr,
// colors on and exit on error.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		NoColor:     false,
		ExitOnError: true,
	}
}
