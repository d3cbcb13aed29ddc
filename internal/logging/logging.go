// Package logging holds the shared library logger.
//
// The pipeline is silent by default: advisory diagnostics (an implicit
// default being applied, an indent counter clamped) are discarded until the
// embedding program installs a logger.
package logging

import "github.com/rs/zerolog"

// Logger is the logger used by all robusto packages.
var Logger = zerolog.Nop()

// Set installs a logger. The pipeline is single-threaded; callers are
// expected to install a logger before starting a generation pass.
func Set(logger zerolog.Logger) {
	Logger = logger
}
