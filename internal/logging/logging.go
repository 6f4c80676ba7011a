// ABOUTME: Debug-gated zap logger construction
// ABOUTME: Development logger when DEBUG_MODE is on, no-op otherwise
package logging

import (
	"go.uber.org/zap"
)

// New returns a logger suitable for the given debug setting. When debug
// is off the returned logger is a no-op, so call sites never need to
// check the flag themselves.
func New(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
