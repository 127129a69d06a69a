package daemon

import (
	"testing"

	"github.com/punyakrit/SmartCue/internal/platform"
)

type stubWindow struct {
	platform.Window
	positions []platform.Point
}

func (s *stubWindow) SetPosition(x, y int) error {
	s.positions = append(s.positions, platform.Point{X: x, Y: y})
	return nil
}

func TestTrackedWindowRecognizesOwnMoves(t *testing.T) {
	w := newTrackedWindow(&stubWindow{})

	if err := w.SetPosition(100, 50); err != nil {
		t.Fatalf("SetPosition() error: %v", err)
	}
	if !w.wasCommanded(100, 50) {
		t.Fatal("daemon move not recognized")
	}
	if w.wasCommanded(100, 50) {
		t.Fatal("pending entry should be consumed")
	}
}

func TestTrackedWindowFlagsExternalMoves(t *testing.T) {
	w := newTrackedWindow(&stubWindow{})

	if w.wasCommanded(200, 200) {
		t.Fatal("external move treated as commanded")
	}

	if err := w.SetPosition(100, 50); err != nil {
		t.Fatal(err)
	}
	if w.wasCommanded(300, 300) {
		t.Fatal("mismatched position treated as commanded")
	}
}

func TestTrackedWindowConsumesUpToMatch(t *testing.T) {
	w := newTrackedWindow(&stubWindow{})

	w.SetPosition(10, 10)
	w.SetPosition(20, 20)
	w.SetPosition(30, 30)

	// The window manager may only report the latest position.
	if !w.wasCommanded(30, 30) {
		t.Fatal("latest commanded move not recognized")
	}
	if w.wasCommanded(10, 10) {
		t.Fatal("stale entries should have been dropped")
	}
}

func TestTrackedWindowBoundsBacklog(t *testing.T) {
	w := newTrackedWindow(&stubWindow{})

	for i := 0; i < 20; i++ {
		w.SetPosition(i, i)
	}
	if len(w.pending) > 8 {
		t.Fatalf("backlog grew to %d entries", len(w.pending))
	}
}
