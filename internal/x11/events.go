package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// EventHandler receives overlay-relevant X11 events. Callbacks run on the
// X event loop goroutine; forward them to your own loop before touching
// window state.
type EventHandler struct {
	// DisplayChanged fires on RandR screen configuration changes.
	DisplayChanged func()
	// WindowMoved fires when the overlay window was moved, with the new
	// root-relative position.
	WindowMoved func(x, y int)
	// WindowClosed fires when the overlay window was destroyed.
	WindowClosed func()
}

// WatchOverlayEvents subscribes to display-change and overlay window events.
func (c *Connection) WatchOverlayEvents(w *OverlayWindow, h EventHandler) error {
	// RandR screen change notifications for display add/remove/reconfigure.
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return fmt.Errorf("randr init failed: %w", err)
	}
	if err := randr.SelectInputChecked(c.XUtil.Conn(), c.Root, randr.NotifyMaskScreenChange).Check(); err != nil {
		return fmt.Errorf("failed to select randr input: %w", err)
	}

	// RandR events are extension events; xgbutil's typed connect functions
	// only cover core events, so a hook inspects everything.
	xevent.HookFun(func(xu *xgbutil.XUtil, event interface{}) bool {
		if _, ok := event.(randr.ScreenChangeNotifyEvent); ok {
			if h.DisplayChanged != nil {
				h.DisplayChanged()
			}
		}
		return true
	}).Connect(c.XUtil)

	c.WatchWindowEvents(w, h)

	return nil
}

// WatchWindowEvents subscribes only to the per-window move and destroy
// events, for windows recreated after the initial subscription.
func (c *Connection) WatchWindowEvents(w *OverlayWindow, h EventHandler) {
	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if h.WindowMoved != nil {
			h.WindowMoved(int(ev.X), int(ev.Y))
		}
	}).Connect(c.XUtil, w.id)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		w.MarkDestroyed()
		if h.WindowClosed != nil {
			h.WindowClosed()
		}
	}).Connect(c.XUtil, w.id)
}

// UnwatchWindow drops the callbacks registered for a window by
// WatchWindowEvents. Call it for a destroyed window before watching its
// replacement, or the stale entries accumulate in the event registry.
func (c *Connection) UnwatchWindow(id uint32) {
	xevent.Detach(c.XUtil, xproto.Window(id))
}
