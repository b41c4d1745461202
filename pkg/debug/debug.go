// Package debug provides conditional debug logging for prat.
//
// Debug logging is enabled by setting the PRAT_DEBUG environment variable:
//
//	PRAT_DEBUG=1 prat --content benefits.yaml
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), Log is a no-op.
package debug

import (
	"log"
	"os"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("PRAT_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[PRAT_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}
