package lattice

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// loggerPtr stores the active logger. lattice itself is single-threaded, but
// SetLogger may be called from an application's setup goroutine.
var loggerPtr atomic.Pointer[zap.Logger]

func init() {
	loggerPtr.Store(zap.NewNop())
}

// SetLogger configures the logger used by lattice. By default lattice
// produces no log output. Pass nil to restore the silent default.
//
// Levels used:
//   - Debug: per-frame layout and animation stats (debug mode only)
//   - Warn: tree depth / child count thresholds, unsettled layout
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *zap.Logger {
	return loggerPtr.Load()
}
