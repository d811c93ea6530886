package lattice

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-tick timing and work counters.
// Only populated when Scene.debug is true.
type debugStats struct {
	tickTime   time.Duration
	layouts    int
	animations int
}

// debugLog writes tick stats to the package logger.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	Logger().Debug("tick",
		zap.Duration("elapsed", stats.tickTime),
		zap.Int("layouts", stats.layouts),
		zap.Int("animations", stats.animations))
}

// debugCheckDisposed panics with a descriptive message when a disposed widget
// is used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(w *Widget, op string) {
	if w.disposed {
		panic(fmt.Sprintf("lattice debug: %s on disposed widget %q", op, w.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(w *Widget) {
	depth := 0
	for p := w; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth), zap.String("widget", w.Name))
	}
}

// debugCheckChildCount warns if a widget has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(w *Widget) {
	if len(w.children) > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold",
			zap.String("widget", w.Name), zap.Int("children", len(w.children)), zap.Int("threshold", debugMaxChildCount))
	}
}
