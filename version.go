package neba

//nolint:gochecknoglobals // set via ldflags at build time.
var (
	// Version is the program version, set via ldflags.
	Version = "dev"
	// FrameworkVersion is the version of this framework, set via ldflags.
	FrameworkVersion = "dev"
	// CompiledAt is the build timestamp, set via ldflags.
	CompiledAt = "unknown"
)
