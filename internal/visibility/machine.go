// Package visibility tracks the overlay's visibility state machine:
// {Shown, Hidden} crossed with the incognito flag. Transitions apply a fixed
// attribute set to the platform window; the machine itself holds no timers.
package visibility

import (
	"log/slog"

	"github.com/punyakrit/SmartCue/internal/focus"
	"github.com/punyakrit/SmartCue/internal/platform"
)

// DefaultIncognitoOpacity is the dimmed opacity used while incognito.
const DefaultIncognitoOpacity = 0.8

// ShortcutGate is the hook the shortcut dispatcher honors when the overlay
// hides: everything but the show/toggle-visibility binding is suspended.
type ShortcutGate interface {
	Suspend()
	Resume()
}

// State is a snapshot of the machine for status reporting.
type State struct {
	Shown     bool
	Incognito bool
}

// String renders the state the way logs and status output show it.
func (s State) String() string {
	switch {
	case !s.Shown:
		return "hidden"
	case s.Incognito:
		return "shown-incognito"
	default:
		return "shown-normal"
	}
}

// Machine is the visibility state machine. All methods must be called from
// the daemon loop goroutine.
type Machine struct {
	win              platform.Window
	guard            *focus.Guard
	shortcuts        ShortcutGate
	incognitoOpacity float64
	logger           *slog.Logger

	shown     bool
	incognito bool
}

// NewMachine creates the machine in its initial Shown-Normal state. The
// caller applies the initial attribute set via Show() on launch.
func NewMachine(win platform.Window, guard *focus.Guard, shortcuts ShortcutGate, incognitoOpacity float64, logger *slog.Logger) *Machine {
	if incognitoOpacity <= 0 || incognitoOpacity > 1 {
		incognitoOpacity = DefaultIncognitoOpacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		win:              win,
		guard:            guard,
		shortcuts:        shortcuts,
		incognitoOpacity: incognitoOpacity,
		logger:           logger,
		shown:            true,
		incognito:        false,
	}
}

// SetWindow swaps the window handle after a recreate. The machine resets to
// its initial Shown-Normal state for the new window.
func (m *Machine) SetWindow(win platform.Window) {
	m.win = win
	m.shown = true
	m.incognito = false
}

// SetIncognitoOpacity updates the dimmed opacity, for config reload. The new
// value takes effect on the next attribute application.
func (m *Machine) SetIncognitoOpacity(opacity float64) {
	if opacity > 0 && opacity <= 1 {
		m.incognitoOpacity = opacity
	}
}

// windowValid is the single place that decides whether the handle can be
// commanded. Everything else funnels through it instead of ad hoc nil checks.
func (m *Machine) windowValid() bool {
	return m.win != nil && !m.win.IsDestroyed()
}

// State returns the current state snapshot.
func (m *Machine) State() State {
	return State{Shown: m.shown, Incognito: m.incognito}
}

// Shown reports whether the overlay is in a Shown state.
func (m *Machine) Shown() bool { return m.shown }

// Incognito reports whether the incognito flag is set.
func (m *Machine) Incognito() bool { return m.incognito }

// ToggleIncognito flips Normal and Incognito. Only valid while Shown; when
// Hidden the call is ignored and logged.
func (m *Machine) ToggleIncognito() {
	if !m.shown {
		m.logger.Info("toggle incognito ignored while hidden")
		return
	}
	m.incognito = !m.incognito
	m.logger.Info("incognito toggled", "state", m.State().String())
	if !m.windowValid() {
		return
	}
	m.applyShownAttributes()
}

// Hide transitions any Shown state to Hidden. Calling Hide while already
// Hidden is a no-op transition that re-applies nothing.
func (m *Machine) Hide() {
	if !m.shown {
		return
	}
	m.shown = false
	m.logger.Info("overlay hidden")

	if m.shortcuts != nil {
		m.shortcuts.Suspend()
	}
	if !m.windowValid() {
		return
	}

	// Hidden windows are fully inert: protected, invisible, out of the
	// taskbar, and out of the top layer.
	m.apply("content-protection", m.win.SetContentProtection(true))
	m.apply("opacity", m.win.SetOpacity(0))
	m.apply("skip-taskbar", m.win.SetSkipTaskbar(true))
	m.apply("always-on-top", m.win.SetAlwaysOnTop(false))
	m.apply("hide", m.win.Hide())
}

// Show transitions Hidden to Shown, restoring the previous incognito flag.
// This path may take focus and is used only on the initial launch.
func (m *Machine) Show() {
	m.showTransition(false)
}

// ShowWithoutFocus is the focus-preserving show: the guard snapshots the
// focused window first, the overlay is shown inactive, and focus is restored
// afterwards.
func (m *Machine) ShowWithoutFocus() {
	m.showTransition(true)
}

func (m *Machine) showTransition(preserveFocus bool) {
	wasHidden := !m.shown
	m.shown = true
	if wasHidden {
		m.logger.Info("overlay shown", "state", m.State().String())
	}
	if m.shortcuts != nil && wasHidden {
		m.shortcuts.Resume()
	}
	if !m.windowValid() {
		return
	}

	if preserveFocus && m.guard != nil {
		m.guard.Snapshot()
	}

	m.applyShownAttributes()
	if preserveFocus {
		m.apply("show-inactive", m.win.ShowInactive())
		if m.guard != nil {
			m.guard.Restore()
		}
	} else {
		m.apply("show", m.win.Show())
	}
}

// Reapply re-applies the full attribute set for the current state without a
// transition. The follower uses it mid-move so incognito persists across a
// desktop change.
func (m *Machine) Reapply() {
	if !m.windowValid() {
		return
	}
	if !m.shown {
		m.apply("content-protection", m.win.SetContentProtection(true))
		m.apply("opacity", m.win.SetOpacity(0))
		m.apply("skip-taskbar", m.win.SetSkipTaskbar(true))
		m.apply("always-on-top", m.win.SetAlwaysOnTop(false))
		return
	}
	m.applyShownAttributes()
}

// EnsureLayering re-asserts the layering flag for the current state. Cheap
// and idempotent; the follower calls it on every tick while shown.
func (m *Machine) EnsureLayering() {
	if !m.shown || !m.windowValid() {
		return
	}
	m.apply("always-on-top", m.win.SetAlwaysOnTop(!m.incognito))
	m.apply("sticky", m.win.SetSticky(true))
}

func (m *Machine) applyShownAttributes() {
	if m.incognito {
		m.apply("content-protection", m.win.SetContentProtection(true))
		m.apply("opacity", m.win.SetOpacity(m.incognitoOpacity))
		m.apply("skip-taskbar", m.win.SetSkipTaskbar(true))
		m.apply("always-on-top", m.win.SetAlwaysOnTop(false))
		return
	}
	m.apply("content-protection", m.win.SetContentProtection(false))
	m.apply("opacity", m.win.SetOpacity(1.0))
	m.apply("skip-taskbar", m.win.SetSkipTaskbar(false))
	m.apply("always-on-top", m.win.SetAlwaysOnTop(true))
}

// apply logs a failed platform setter. Individual setter failures are
// best-effort and never escalate; the next tick re-applies state anyway.
func (m *Machine) apply(attr string, err error) {
	if err != nil {
		m.logger.Warn("window attribute failed", "attr", attr, "error", err)
	}
}
