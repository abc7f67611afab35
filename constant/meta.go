// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "quietstream"

	// Title is the human readable application name.
	Title = "Quiet Stream"

	// Version is the current application semantic version string.
	Version = "1.0.0"

	// UserAgent is sent with link validation probes. Some CDNs reject HEAD requests without one.
	UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, injected with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
