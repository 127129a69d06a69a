// Package focus keeps the overlay from stealing input focus. Before any
// non-interactive show or reposition the guard snapshots the externally
// focused window, and restores focus to it once the overlay operation has
// been issued.
package focus

import (
	"log/slog"

	"github.com/punyakrit/SmartCue/internal/platform"
)

// Guard captures and restores the previously focused external window.
// A snapshot lives for exactly one show/reposition cycle.
type Guard struct {
	backend platform.Backend
	own     platform.WindowID
	logger  *slog.Logger

	snapshot platform.WindowID
	have     bool
}

// NewGuard creates a focus guard for the overlay window with the given ID.
func NewGuard(backend platform.Backend, own platform.WindowID, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{backend: backend, own: own, logger: logger}
}

// SetOwnWindow updates the overlay window identity after a window recreate.
func (g *Guard) SetOwnWindow(id platform.WindowID) {
	g.own = id
	g.Clear()
}

// Snapshot records the currently focused window unless it is the overlay
// itself. Capturing our own window would make a later restore hand focus
// right back to the overlay after repeated shows.
func (g *Guard) Snapshot() {
	active, err := g.backend.ActiveWindow()
	if err != nil {
		g.logger.Debug("focus snapshot unavailable", "error", err)
		return
	}
	if active == 0 || active == g.own {
		return
	}
	g.snapshot = active
	g.have = true
}

// Restore hands focus back to the snapshotted window, best-effort and at
// most once per snapshot. The restore request is issued on the same X
// connection as the preceding show, so the server processes them in order
// and no artificial delay is needed. Failure is logged, never retried.
func (g *Guard) Restore() {
	if !g.have {
		return
	}
	target := g.snapshot
	g.Clear()

	if !g.backend.WindowExists(target) {
		g.logger.Debug("focus snapshot window gone", "window_id", target)
		return
	}
	if err := g.backend.FocusWindow(target); err != nil {
		g.logger.Warn("failed to restore focus", "window_id", target, "error", err)
	}
}

// Clear drops the current snapshot.
func (g *Guard) Clear() {
	g.snapshot = 0
	g.have = false
}

// HasSnapshot reports whether a snapshot is pending restoration.
func (g *Guard) HasSnapshot() bool {
	return g.have
}
