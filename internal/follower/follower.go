// Package follower reconciles the overlay window with whichever desktop and
// display currently has the user's attention. A periodic tick plus platform
// display events feed one entry point; repositioning is suppressed while the
// user has just moved the window by hand and rate-limited by a cooldown.
package follower

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/punyakrit/SmartCue/internal/focus"
	"github.com/punyakrit/SmartCue/internal/geometry"
	"github.com/punyakrit/SmartCue/internal/platform"
	"github.com/punyakrit/SmartCue/internal/visibility"
)

// Defaults for the follow loop timings.
const (
	DefaultInterval       = 1000 * time.Millisecond
	DefaultManualOverride = 5000 * time.Millisecond
	DefaultCooldown       = 2000 * time.Millisecond
	DefaultMouseThreshold = 500
)

// Options configures a Follower. Zero values fall back to defaults.
type Options struct {
	ManualOverride time.Duration
	Cooldown       time.Duration
	MouseThreshold int
	Clock          Clock
	Logger         *slog.Logger
}

// Follower drives desktop following. All methods must be called from the
// daemon loop goroutine; the ordering contract (snapshot focus, mutate,
// restore focus) is preserved by running everything on that one loop.
type Follower struct {
	win     platform.Window
	backend platform.Backend
	vis     *visibility.Machine
	policy  geometry.Policy
	guard   *focus.Guard
	logger  *slog.Logger
	clock   Clock

	override holdTimer
	cooldown holdTimer

	overrideFor    time.Duration
	cooldownFor    time.Duration
	mouseThreshold int

	lastPointer   platform.Point
	havePointer   bool
	lastDesktopID string
}

// New creates a follower for the given window.
func New(win platform.Window, backend platform.Backend, vis *visibility.Machine, policy geometry.Policy, guard *focus.Guard, opts Options) *Follower {
	if opts.ManualOverride <= 0 {
		opts.ManualOverride = DefaultManualOverride
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.MouseThreshold <= 0 {
		opts.MouseThreshold = DefaultMouseThreshold
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Follower{
		win:            win,
		backend:        backend,
		vis:            vis,
		policy:         policy,
		guard:          guard,
		logger:         opts.Logger,
		clock:          opts.Clock,
		overrideFor:    opts.ManualOverride,
		cooldownFor:    opts.Cooldown,
		mouseThreshold: opts.MouseThreshold,
	}
}

// SetWindow swaps the window handle after a recreate and clears both timers;
// they must never act on a stale handle.
func (f *Follower) SetWindow(win platform.Window) {
	f.win = win
	f.override.Clear()
	f.cooldown.Clear()
	f.havePointer = false
	f.lastDesktopID = ""
}

// Retune applies new geometry and timing settings, for config reload.
// Armed timers keep their original expiry.
func (f *Follower) Retune(policy geometry.Policy, override, cooldown time.Duration, mouseThreshold int) {
	f.policy = policy
	if override > 0 {
		f.overrideFor = override
	}
	if cooldown > 0 {
		f.cooldownFor = cooldown
	}
	if mouseThreshold > 0 {
		f.mouseThreshold = mouseThreshold
	}
}

// MarkManual records a manual window move, (re)starting the suppression
// countdown. The last call wins.
func (f *Follower) MarkManual() {
	f.override.Arm(f.clock.Now(), f.overrideFor)
	f.logger.Debug("manual override armed", "for", f.overrideFor)
}

// Suppressed reports whether automatic following is currently suppressed by
// a recent manual move.
func (f *Follower) Suppressed() bool {
	return f.override.Active(f.clock.Now())
}

// windowValid centralizes the handle validity check.
func (f *Follower) windowValid() bool {
	return f.win != nil && !f.win.IsDestroyed()
}

// OnTick runs one follow-detection cycle. Both the periodic ticker and
// platform display-change events route here. Any platform query failure
// degrades to a logged no-op; the loop re-evaluates on the next tick.
func (f *Follower) OnTick() {
	if !f.windowValid() {
		return
	}
	if !f.vis.Shown() {
		return
	}
	if f.Suppressed() {
		return
	}

	changed := f.pointerJumped()

	display, err := f.backend.ActiveDisplay()
	if err != nil {
		f.logger.Debug("active display unavailable", "error", err)
		return
	}
	id := desktopSignature(display)
	if f.lastDesktopID != "" && id != f.lastDesktopID {
		changed = true
	}
	if f.lastDesktopID == "" {
		f.lastDesktopID = id
	}

	if changed {
		f.followToCurrentDesktop(display)
	}

	// Cheap idempotent reassertion; deliberately not gated by the cooldown.
	f.vis.EnsureLayering()
}

// pointerJumped reports whether the pointer moved further than the coarse
// threshold since the last tick. Tuned to catch desktop switches, not
// ordinary mouse use.
func (f *Follower) pointerJumped() bool {
	pos, err := f.backend.PointerPosition()
	if err != nil {
		return false
	}
	if !f.havePointer {
		f.lastPointer = pos
		f.havePointer = true
		return false
	}
	dx := abs(pos.X - f.lastPointer.X)
	dy := abs(pos.Y - f.lastPointer.Y)
	f.lastPointer = pos
	return dx >= f.mouseThreshold || dy >= f.mouseThreshold
}

// followToCurrentDesktop repositions the overlay onto the active display
// without stealing focus, then arms the reposition cooldown.
func (f *Follower) followToCurrentDesktop(display platform.Display) {
	now := f.clock.Now()
	if f.cooldown.Active(now) {
		return
	}
	if !f.windowValid() || !f.vis.Shown() {
		return
	}

	bounds, err := f.win.Bounds()
	if err != nil {
		f.logger.Debug("window bounds unavailable", "error", err)
		return
	}

	// Placement uses the work area so the overlay never lands under a
	// panel; desktop identity stays keyed to the raw bounds.
	target, err := f.policy.CenteredTop(display.Usable, bounds.Width)
	if err != nil {
		f.logger.Warn("skipping reposition", "error", err)
		return
	}

	// Incognito must persist across the move, so the full attribute set is
	// re-applied before the window is shown again.
	f.vis.Reapply()

	if f.guard != nil {
		f.guard.Snapshot()
	}
	if err := f.win.SetPosition(target.X, target.Y); err != nil {
		f.logger.Warn("reposition failed", "error", err)
	}
	f.vis.EnsureLayering()
	if err := f.win.ShowInactive(); err != nil {
		f.logger.Warn("show failed", "error", err)
	}
	if f.guard != nil {
		f.guard.Restore()
	}

	f.cooldown.Arm(now, f.cooldownFor)
	f.lastDesktopID = desktopSignature(display)

	f.logger.Info("followed to active desktop",
		"display", display.Name,
		"x", target.X,
		"y", target.Y)
}

// desktopSignature derives the desktop identity from the active display
// geometry.
func desktopSignature(d platform.Display) string {
	return fmt.Sprintf("%d:%d,%d %dx%d", d.ID, d.Bounds.X, d.Bounds.Y, d.Bounds.Width, d.Bounds.Height)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
