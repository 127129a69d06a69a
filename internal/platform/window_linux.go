//go:build linux

package platform

import (
	"github.com/punyakrit/SmartCue/internal/x11"
)

// X11Window adapts an x11.OverlayWindow to the platform Window capability.
type X11Window struct {
	overlay *x11.OverlayWindow
}

var _ Window = (*X11Window)(nil)

// NewX11Window wraps an overlay window behind the Window interface.
func NewX11Window(overlay *x11.OverlayWindow) *X11Window {
	return &X11Window{overlay: overlay}
}

// Overlay returns the underlying X11 overlay window.
func (w *X11Window) Overlay() *x11.OverlayWindow { return w.overlay }

// ID returns the platform window identifier.
func (w *X11Window) ID() WindowID { return WindowID(w.overlay.ID()) }

// SetPosition moves the window in root coordinates.
func (w *X11Window) SetPosition(x, y int) error { return w.overlay.Move(x, y) }

// Position returns the current window position.
func (w *X11Window) Position() (Point, error) {
	x, y, _, _, err := w.overlay.Geometry()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// Bounds returns the current window geometry.
func (w *X11Window) Bounds() (Rect, error) {
	x, y, width, height, err := w.overlay.Geometry()
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: width, Height: height}, nil
}

// SetAlwaysOnTop toggles the top-layer state.
func (w *X11Window) SetAlwaysOnTop(on bool) error { return w.overlay.SetAlwaysOnTop(on) }

// SetSticky pins the window to all virtual desktops.
func (w *X11Window) SetSticky(on bool) error { return w.overlay.SetSticky(on) }

// SetContentProtection toggles capture exclusion.
func (w *X11Window) SetContentProtection(on bool) error { return w.overlay.SetContentProtection(on) }

// SetOpacity sets the window opacity in [0,1].
func (w *X11Window) SetOpacity(opacity float64) error { return w.overlay.SetOpacity(opacity) }

// SetSkipTaskbar hides the window from taskbar and pager.
func (w *X11Window) SetSkipTaskbar(on bool) error { return w.overlay.SetSkipTaskbar(on) }

// SetFocusable toggles whether the window may receive keyboard focus.
func (w *X11Window) SetFocusable(on bool) error { return w.overlay.SetFocusable(on) }

// Show maps the window; the window manager may focus it.
func (w *X11Window) Show() error { return w.overlay.Map() }

// ShowInactive maps the window without accepting focus.
func (w *X11Window) ShowInactive() error { return w.overlay.MapInactive() }

// Hide unmaps the window.
func (w *X11Window) Hide() error { return w.overlay.Unmap() }

// IsVisible reports whether the window is mapped.
func (w *X11Window) IsVisible() bool { return w.overlay.IsMapped() }

// IsFocused reports whether the window holds input focus.
func (w *X11Window) IsFocused() bool { return w.overlay.IsFocused() }

// IsDestroyed reports whether the handle is stale.
func (w *X11Window) IsDestroyed() bool { return w.overlay.Destroyed() }

// Destroy destroys the window.
func (w *X11Window) Destroy() error { return w.overlay.Destroy() }
