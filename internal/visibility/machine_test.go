package visibility

import (
	"testing"

	"github.com/punyakrit/SmartCue/internal/platform"
)

// fakeWindow records attribute state the way a platform window would hold it.
type fakeWindow struct {
	id          platform.WindowID
	x, y        int
	protected   bool
	opacity     float64
	skipTaskbar bool
	alwaysOnTop bool
	sticky      bool
	focusable   bool
	visible     bool
	destroyed   bool

	showCalls         int
	showInactiveCalls int
	hideCalls         int
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{id: 1, opacity: 1.0, focusable: true, visible: true}
}

func (w *fakeWindow) ID() platform.WindowID { return w.id }
func (w *fakeWindow) SetPosition(x, y int) error {
	w.x, w.y = x, y
	return nil
}
func (w *fakeWindow) Position() (platform.Point, error) {
	return platform.Point{X: w.x, Y: w.y}, nil
}
func (w *fakeWindow) Bounds() (platform.Rect, error) {
	return platform.Rect{X: w.x, Y: w.y, Width: 400, Height: 300}, nil
}
func (w *fakeWindow) SetAlwaysOnTop(on bool) error       { w.alwaysOnTop = on; return nil }
func (w *fakeWindow) SetSticky(on bool) error            { w.sticky = on; return nil }
func (w *fakeWindow) SetContentProtection(on bool) error { w.protected = on; return nil }
func (w *fakeWindow) SetOpacity(opacity float64) error   { w.opacity = opacity; return nil }
func (w *fakeWindow) SetSkipTaskbar(on bool) error       { w.skipTaskbar = on; return nil }
func (w *fakeWindow) SetFocusable(on bool) error         { w.focusable = on; return nil }
func (w *fakeWindow) Show() error                        { w.visible = true; w.showCalls++; return nil }
func (w *fakeWindow) ShowInactive() error                { w.visible = true; w.showInactiveCalls++; return nil }
func (w *fakeWindow) Hide() error                        { w.visible = false; w.hideCalls++; return nil }
func (w *fakeWindow) IsVisible() bool                    { return w.visible }
func (w *fakeWindow) IsFocused() bool                    { return false }
func (w *fakeWindow) IsDestroyed() bool                  { return w.destroyed }
func (w *fakeWindow) Destroy() error                     { w.destroyed = true; return nil }

type fakeGate struct {
	suspended int
	resumed   int
}

func (g *fakeGate) Suspend() { g.suspended++ }
func (g *fakeGate) Resume()  { g.resumed++ }

func TestInitialStateIsShownNormal(t *testing.T) {
	m := NewMachine(newFakeWindow(), nil, nil, 0.8, nil)
	if got := m.State().String(); got != "shown-normal" {
		t.Fatalf("expected shown-normal, got %s", got)
	}
}

func TestToggleIncognitoAppliesAttributes(t *testing.T) {
	win := newFakeWindow()
	m := NewMachine(win, nil, nil, 0.8, nil)

	m.ToggleIncognito()
	if !m.Incognito() {
		t.Fatal("expected incognito after toggle")
	}
	if !win.protected {
		t.Fatal("incognito requires content protection")
	}
	if win.opacity != 0.8 {
		t.Fatalf("expected dimmed opacity 0.8, got %v", win.opacity)
	}
	if win.alwaysOnTop {
		t.Fatal("incognito leaves the top layer")
	}
	if !win.skipTaskbar {
		t.Fatal("incognito skips the taskbar")
	}

	m.ToggleIncognito()
	if m.Incognito() {
		t.Fatal("expected normal after second toggle")
	}
	if win.protected {
		t.Fatal("normal mode must clear content protection")
	}
	if win.opacity != 1.0 {
		t.Fatalf("expected full opacity, got %v", win.opacity)
	}
	if !win.alwaysOnTop {
		t.Fatal("normal mode is always on top")
	}
}

func TestToggleIncognitoIgnoredWhileHidden(t *testing.T) {
	win := newFakeWindow()
	m := NewMachine(win, nil, nil, 0.8, nil)

	m.Hide()
	before := *win
	m.ToggleIncognito()

	if m.Shown() {
		t.Fatal("state must remain hidden")
	}
	if m.Incognito() {
		t.Fatal("incognito flag must not change while hidden")
	}
	if *win != before {
		t.Fatal("no attribute may change when the toggle is ignored")
	}
}

func TestHideAppliesHiddenAttributeSet(t *testing.T) {
	win := newFakeWindow()
	gate := &fakeGate{}
	m := NewMachine(win, nil, gate, 0.8, nil)

	m.Hide()

	if !win.protected || win.opacity != 0 || !win.skipTaskbar || win.alwaysOnTop {
		t.Fatalf("hidden attribute set violated: %+v", win)
	}
	if win.visible {
		t.Fatal("window must be hidden")
	}
	if gate.suspended != 1 {
		t.Fatalf("expected shortcuts suspended once, got %d", gate.suspended)
	}
}

func TestHideIsIdempotent(t *testing.T) {
	win := newFakeWindow()
	gate := &fakeGate{}
	m := NewMachine(win, nil, gate, 0.8, nil)

	m.Hide()
	after := *win
	m.Hide()

	if *win != after {
		t.Fatal("second hide must be a no-op transition")
	}
	if win.hideCalls != 1 {
		t.Fatalf("expected a single hide command, got %d", win.hideCalls)
	}
	if gate.suspended != 1 {
		t.Fatalf("shortcuts must not be suspended twice, got %d", gate.suspended)
	}
}

func TestShowRestoresPreviousIncognitoFlag(t *testing.T) {
	win := newFakeWindow()
	gate := &fakeGate{}
	m := NewMachine(win, nil, gate, 0.8, nil)

	m.ToggleIncognito()
	m.Hide()
	m.ShowWithoutFocus()

	if !m.Shown() || !m.Incognito() {
		t.Fatalf("expected shown-incognito, got %s", m.State().String())
	}
	if win.opacity != 0.8 || !win.protected {
		t.Fatalf("incognito attributes not re-applied: %+v", win)
	}
	if win.showInactiveCalls != 1 || win.showCalls != 0 {
		t.Fatal("ShowWithoutFocus must use the inactive show path")
	}
	if gate.resumed != 1 {
		t.Fatalf("expected shortcuts resumed once, got %d", gate.resumed)
	}
}

func TestHiddenInvariantHoldsAfterEveryTransition(t *testing.T) {
	win := newFakeWindow()
	m := NewMachine(win, nil, nil, 0.8, nil)

	check := func(op string) {
		if m.Shown() {
			return
		}
		if !win.protected || win.opacity != 0 {
			t.Fatalf("after %s: hidden invariant violated: protected=%v opacity=%v",
				op, win.protected, win.opacity)
		}
	}

	m.Hide()
	check("hide")
	m.ToggleIncognito()
	check("toggle-incognito")
	m.Hide()
	check("second hide")
	m.Reapply()
	check("reapply")
}

func TestTransitionsOnDestroyedWindowDoNotCrash(t *testing.T) {
	win := newFakeWindow()
	m := NewMachine(win, nil, nil, 0.8, nil)
	win.destroyed = true

	m.Hide()
	m.ShowWithoutFocus()
	m.ToggleIncognito()
	m.Reapply()
	m.EnsureLayering()

	if win.hideCalls != 0 || win.showInactiveCalls != 0 {
		t.Fatal("no command may be issued to a destroyed window")
	}
	// State still tracks the requested transitions.
	if !m.Shown() {
		t.Fatal("state bookkeeping must continue without a window")
	}
}
