//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/punyakrit/SmartCue/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// StopEventLoop asks the running X11 event loop to quit.
func (b *LinuxBackend) StopEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.StopEventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// Connection returns the underlying X11 connection.
func (b *LinuxBackend) Connection() *x11.Connection {
	return b.conn
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	displays, err := b.conn.GetDisplays()
	if err != nil {
		return nil, err
	}
	out := make([]Display, 0, len(displays))
	for _, d := range displays {
		out = append(out, toDisplay(d))
	}
	return out, nil
}

// ActiveDisplay returns the display the user is currently working on.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	d, err := b.conn.GetActiveDisplay()
	if err != nil {
		return Display{}, err
	}
	return toDisplay(*d), nil
}

// PointerPosition returns the mouse cursor position in root coordinates.
func (b *LinuxBackend) PointerPosition() (Point, error) {
	x, y, err := b.conn.PointerPosition()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// ActiveWindow returns the currently focused window.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	id, err := b.conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(id), nil
}

// FocusWindow activates and raises a window.
func (b *LinuxBackend) FocusWindow(id WindowID) error {
	return b.conn.FocusWindow(uint32(id))
}

// WindowExists reports whether the window ID still refers to a live window.
func (b *LinuxBackend) WindowExists(id WindowID) bool {
	return b.conn.WindowExists(uint32(id))
}

func toDisplay(d x11.Display) Display {
	return Display{
		ID:   d.ID,
		Name: d.Name,
		Bounds: Rect{
			X:      d.X,
			Y:      d.Y,
			Width:  d.Width,
			Height: d.Height,
		},
		Usable: Rect{
			X:      d.Usable.X,
			Y:      d.Usable.Y,
			Width:  d.Usable.Width,
			Height: d.Usable.Height,
		},
	}
}
