package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Point is a position in screen coordinates.
type Point struct {
	X int
	Y int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area. Usable is
// what remains of Bounds after panels and docks reserve their edges; it
// equals Bounds when nothing is reserved.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window is the capability interface the overlay core drives. The core never
// owns the window; it only issues commands through this interface. Every
// setter is best-effort: a failure is logged by the caller and retried
// implicitly on the next follow tick.
type Window interface {
	ID() WindowID
	SetPosition(x, y int) error
	Position() (Point, error)
	Bounds() (Rect, error)
	SetAlwaysOnTop(on bool) error
	SetSticky(on bool) error
	SetContentProtection(on bool) error
	SetOpacity(opacity float64) error
	SetSkipTaskbar(on bool) error
	SetFocusable(on bool) error
	Show() error
	ShowInactive() error
	Hide() error
	IsVisible() bool
	IsFocused() bool
	IsDestroyed() bool
	Destroy() error
}

// Backend abstracts window-system queries across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
	PointerPosition() (Point, error)
	ActiveWindow() (WindowID, error)
	FocusWindow(id WindowID) error
	WindowExists(id WindowID) bool
}

// EventKind identifies a platform event the core subscribes to.
type EventKind int

const (
	// DisplayChanged fires when a display is added, removed, or reconfigured.
	DisplayChanged EventKind = iota
	// WindowMoved fires when the overlay window position changed outside the
	// core's own commands (a manual move by the user or the window manager).
	WindowMoved
	// WindowClosed fires when the overlay window was destroyed.
	WindowClosed
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case DisplayChanged:
		return "display-changed"
	case WindowMoved:
		return "window-moved"
	case WindowClosed:
		return "window-closed"
	default:
		return "unknown"
	}
}

// Event is a platform notification delivered to the core's event loop.
type Event struct {
	Kind     EventKind
	Position Point // set for WindowMoved
}
