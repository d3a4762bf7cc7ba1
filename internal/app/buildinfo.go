package app

// Build information set with -ldflags at build time and reported by the
// health endpoint.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)
