package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	// Background for the overlay surface before any content is drawn.
	overlayBackPixel = 0x1f2933

	// opacityMax is the full-opacity value for _NET_WM_WINDOW_OPACITY.
	opacityMax = 0xffffffff

	// captureExcludeProp is published so capture tooling can filter the
	// overlay out of recordings. X11 has no server-side equivalent of a
	// content-protection flag; exclusion is compositor/recorder policy.
	captureExcludeProp = "_SMARTCUE_CAPTURE_EXCLUDE"
)

// OverlayWindow is the single floating overlay window. It wraps a top-level
// X11 window and exposes the attribute operations the visibility state
// machine and follower drive.
type OverlayWindow struct {
	conn *Connection
	id   xproto.Window

	mapped    bool
	destroyed bool
	protected bool
}

// CreateOverlayWindow creates (but does not map) the overlay window.
func CreateOverlayWindow(conn *Connection, width, height int, title string) (*OverlayWindow, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid overlay size %dx%d", width, height)
	}

	xu := conn.XUtil
	screen := xu.Screen()

	wid, err := xproto.NewWindowId(xu.Conn())
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = xproto.CreateWindowChecked(
		xu.Conn(),
		screen.RootDepth,
		wid,
		conn.Root,
		0, 0,
		uint16(width), uint16(height),
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		// Value list order follows the bit positions of the mask (low → high).
		[]uint32{overlayBackPixel, xproto.EventMaskStructureNotify},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay window: %w", err)
	}

	w := &OverlayWindow{conn: conn, id: wid}

	if err := ewmh.WmNameSet(xu, wid, title); err != nil {
		return nil, fmt.Errorf("failed to set window name: %w", err)
	}
	// UTILITY keeps most window managers from tiling or decorating the
	// overlay like a normal application window.
	if err := ewmh.WmWindowTypeSet(xu, wid, []string{"_NET_WM_WINDOW_TYPE_UTILITY"}); err != nil {
		return nil, fmt.Errorf("failed to set window type: %w", err)
	}

	return w, nil
}

// ID returns the X11 window ID.
func (w *OverlayWindow) ID() uint32 { return uint32(w.id) }

// Move repositions the window in root coordinates.
func (w *OverlayWindow) Move(x, y int) error {
	if w.destroyed {
		return fmt.Errorf("overlay window destroyed")
	}
	xwindow.New(w.conn.XUtil, w.id).Move(x, y)
	return nil
}

// Geometry returns the window position (root coordinates) and size.
func (w *OverlayWindow) Geometry() (x, y, width, height int, err error) {
	if w.destroyed {
		return 0, 0, 0, 0, fmt.Errorf("overlay window destroyed")
	}

	geom, err := xproto.GetGeometry(w.conn.XUtil.Conn(), xproto.Drawable(w.id)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry: %w", err)
	}
	translate, err := xproto.TranslateCoordinates(
		w.conn.XUtil.Conn(),
		w.id,
		w.conn.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// SetAlwaysOnTop adds or removes the _NET_WM_STATE_ABOVE layering state.
func (w *OverlayWindow) SetAlwaysOnTop(on bool) error {
	return w.setState(on, "_NET_WM_STATE_ABOVE")
}

// SetSticky pins the window to all virtual desktops.
func (w *OverlayWindow) SetSticky(on bool) error {
	if w.destroyed {
		return fmt.Errorf("overlay window destroyed")
	}
	if err := w.setState(on, "_NET_WM_STATE_STICKY"); err != nil {
		return err
	}
	return w.conn.SetWindowSticky(uint32(w.id), on)
}

// SetSkipTaskbar hides the window from the taskbar and pager.
func (w *OverlayWindow) SetSkipTaskbar(on bool) error {
	if err := w.setState(on, "_NET_WM_STATE_SKIP_TASKBAR"); err != nil {
		return err
	}
	return w.setState(on, "_NET_WM_STATE_SKIP_PAGER")
}

// SetOpacity sets the window opacity via _NET_WM_WINDOW_OPACITY. Honored by
// compositing window managers; a no-op elsewhere.
func (w *OverlayWindow) SetOpacity(opacity float64) error {
	if w.destroyed {
		return fmt.Errorf("overlay window destroyed")
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	amount := uint(opacity * float64(opacityMax))
	if err := xprop.ChangeProp32(w.conn.XUtil, w.id, "_NET_WM_WINDOW_OPACITY", "CARDINAL", amount); err != nil {
		return fmt.Errorf("failed to set opacity: %w", err)
	}
	return nil
}

// SetContentProtection records the capture-protection flag and publishes it
// as a window property. The X server cannot exclude pixels from capture
// itself, so this is a cooperative hint for compositors and recorders.
func (w *OverlayWindow) SetContentProtection(on bool) error {
	if w.destroyed {
		return fmt.Errorf("overlay window destroyed")
	}
	w.protected = on
	value := uint(0)
	if on {
		value = 1
	}
	if err := xprop.ChangeProp32(w.conn.XUtil, w.id, captureExcludeProp, "CARDINAL", value); err != nil {
		return fmt.Errorf("failed to set capture exclusion property: %w", err)
	}
	return nil
}

// ContentProtected reports the last requested protection flag.
func (w *OverlayWindow) ContentProtected() bool { return w.protected }

// SetFocusable sets the ICCCM input hint. A window with input=false is never
// offered keyboard focus by the window manager.
func (w *OverlayWindow) SetFocusable(on bool) error {
	if w.destroyed {
		return fmt.Errorf("overlay window destroyed")
	}
	input := 0
	if on {
		input = 1
	}
	hints := icccm.Hints{
		Flags: icccm.HintInput,
		Input: uint(input),
	}
	if err := icccm.WmHintsSet(w.conn.XUtil, w.id, &hints); err != nil {
		return fmt.Errorf("failed to set input hint: %w", err)
	}
	return nil
}

// Map shows the window. The window manager may give it focus; this path is
// only used on initial launch.
func (w *OverlayWindow) Map() error {
	if w.destroyed {
		return fmt.Errorf("overlay window destroyed")
	}
	if err := xproto.MapWindowChecked(w.conn.XUtil.Conn(), w.id).Check(); err != nil {
		return fmt.Errorf("failed to map window: %w", err)
	}
	w.mapped = true
	return nil
}

// MapInactive shows the window without accepting focus: the input hint is
// cleared before mapping so the window manager never activates the overlay.
func (w *OverlayWindow) MapInactive() error {
	if w.destroyed {
		return fmt.Errorf("overlay window destroyed")
	}
	if err := w.SetFocusable(false); err != nil {
		return err
	}
	if err := xproto.MapWindowChecked(w.conn.XUtil.Conn(), w.id).Check(); err != nil {
		return fmt.Errorf("failed to map window: %w", err)
	}
	w.mapped = true
	return nil
}

// Unmap hides the window without destroying it.
func (w *OverlayWindow) Unmap() error {
	if w.destroyed {
		return fmt.Errorf("overlay window destroyed")
	}
	if err := xproto.UnmapWindowChecked(w.conn.XUtil.Conn(), w.id).Check(); err != nil {
		return fmt.Errorf("failed to unmap window: %w", err)
	}
	w.mapped = false
	return nil
}

// IsMapped reports whether the window is currently shown.
func (w *OverlayWindow) IsMapped() bool { return w.mapped && !w.destroyed }

// IsFocused reports whether the overlay currently holds input focus.
func (w *OverlayWindow) IsFocused() bool {
	if w.destroyed {
		return false
	}
	active, err := ewmh.ActiveWindowGet(w.conn.XUtil)
	if err != nil {
		return false
	}
	return active == w.id
}

// Destroyed reports whether the window handle is stale.
func (w *OverlayWindow) Destroyed() bool { return w.destroyed }

// MarkDestroyed flags the handle as stale after a DestroyNotify event.
func (w *OverlayWindow) MarkDestroyed() { w.destroyed = true }

// Destroy destroys the X11 window and invalidates the handle.
func (w *OverlayWindow) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	w.mapped = false
	if err := xproto.DestroyWindowChecked(w.conn.XUtil.Conn(), w.id).Check(); err != nil {
		return fmt.Errorf("failed to destroy window: %w", err)
	}
	return nil
}

// setState adds (action=1) or removes (action=0) an EWMH window state. For
// unmapped windows the property is rewritten directly; mapped windows need a
// client message request routed through the window manager.
func (w *OverlayWindow) setState(on bool, state string) error {
	if w.destroyed {
		return fmt.Errorf("overlay window destroyed")
	}

	if !w.mapped {
		states, _ := ewmh.WmStateGet(w.conn.XUtil, w.id)
		next := make([]string, 0, len(states)+1)
		for _, s := range states {
			if s != state {
				next = append(next, s)
			}
		}
		if on {
			next = append(next, state)
		}
		if err := ewmh.WmStateSet(w.conn.XUtil, w.id, next); err != nil {
			return fmt.Errorf("failed to set %s: %w", state, err)
		}
		return nil
	}

	action := 0
	if on {
		action = 1
	}
	if err := ewmh.WmStateReq(w.conn.XUtil, w.id, action, state); err != nil {
		return fmt.Errorf("failed to request %s: %w", state, err)
	}
	return nil
}
