package daemon

import "github.com/punyakrit/SmartCue/internal/platform"

// trackedWindow wraps a platform window and remembers the positions the
// daemon itself commanded. ConfigureNotify events echo every move back,
// including our own; the tracker lets the event handler tell daemon-initiated
// moves apart from the user dragging the window.
type trackedWindow struct {
	platform.Window

	pending []platform.Point
}

func newTrackedWindow(win platform.Window) *trackedWindow {
	return &trackedWindow{Window: win}
}

func (t *trackedWindow) SetPosition(x, y int) error {
	if err := t.Window.SetPosition(x, y); err != nil {
		return err
	}
	t.pending = append(t.pending, platform.Point{X: x, Y: y})
	// The window manager may coalesce events; keep the backlog short.
	if len(t.pending) > 8 {
		t.pending = t.pending[len(t.pending)-8:]
	}
	return nil
}

// wasCommanded reports whether a move to (x, y) was issued by the daemon and
// consumes every pending entry up to and including the match.
func (t *trackedWindow) wasCommanded(x, y int) bool {
	for i, p := range t.pending {
		if p.X == x && p.Y == y {
			t.pending = t.pending[i+1:]
			return true
		}
	}
	return false
}
