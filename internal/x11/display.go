package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Display represents a physical display
type Display struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
	Usable Rect
}

// Rect is a region in root window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// GetDisplays retrieves all active displays using XRandR
func (c *Connection) GetDisplays() ([]Display, error) {
	// Initialize RandR if not already done
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	// Get screen resources
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var displays []Display

	// Query each CRTC for active outputs
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		// Get output name
		outputName := fmt.Sprintf("Display%d", i)
		if len(crtcInfo.Outputs) > 0 {
			outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
			if err == nil {
				outputName = string(outputInfo.Name)
			}
		}

		displays = append(displays, Display{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
			Usable: Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
		})
	}

	return displays, nil
}

// GetActiveDisplay returns the display the user is working on: the one
// containing the focused window when available, otherwise the one under the
// mouse cursor, otherwise the first display.
func (c *Connection) GetActiveDisplay() (*Display, error) {
	displays, err := c.GetDisplays()
	if err != nil {
		return nil, err
	}
	if len(displays) == 0 {
		return nil, fmt.Errorf("no displays found")
	}

	var active *Display

	// Prefer the display holding the focused window.
	if activeWin, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && activeWin != 0 {
		if d := findDisplayForWindow(c, displays, activeWin); d != nil {
			active = d
		}
	}

	// Fallback to the display under the mouse cursor.
	if active == nil {
		if d := findDisplayForPointer(c, displays); d != nil {
			active = d
		}
	}

	// Final fallback to first display.
	if active == nil {
		active = &displays[0]
	}

	// Exclude panel and dock pixels from the placement area.
	if !c.applyStruts(active) {
		c.intersectWorkarea(active)
	}

	return active, nil
}

type edgeReserve struct {
	left   int
	right  int
	top    int
	bottom int
}

// applyStruts subtracts the edges claimed by dock windows (_NET_WM_STRUT /
// _NET_WM_STRUT_PARTIAL) from the display's usable area. Reports whether
// any strut overlapped this display.
func (c *Connection) applyStruts(d *Display) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootW := int(rootGeom.Width)
	rootH := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var acc edgeReserve
	for _, wid := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, wid)
		if err != nil {
			continue
		}
		dock := false
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				dock = true
				break
			}
		}
		if !dock {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, wid); err == nil {
			accumulateStrut(d, rootW, rootH, sp, &acc)
			continue
		}

		// Docks that only set the legacy _NET_WM_STRUT span the full edge.
		if s, err := ewmh.WmStrutGet(c.XUtil, wid); err == nil {
			accumulateStrut(d, rootW, rootH, &ewmh.WmStrutPartial{
				Left:         s.Left,
				Right:        s.Right,
				Top:          s.Top,
				Bottom:       s.Bottom,
				LeftStartY:   0,
				LeftEndY:     uint(rootH - 1),
				RightStartY:  0,
				RightEndY:    uint(rootH - 1),
				TopStartX:    0,
				TopEndX:      uint(rootW - 1),
				BottomStartX: 0,
				BottomEndX:   uint(rootW - 1),
			}, &acc)
		}
	}

	if acc == (edgeReserve{}) {
		return false
	}

	d.Usable.X += acc.left
	d.Usable.Y += acc.top
	d.Usable.Width -= acc.left + acc.right
	d.Usable.Height -= acc.top + acc.bottom
	if d.Usable.Width < 1 {
		d.Usable.Width = 1
	}
	if d.Usable.Height < 1 {
		d.Usable.Height = 1
	}
	return true
}

// accumulateStrut folds one dock's strut into the per-edge reserve,
// counting only the part of each strut band that overlaps this display.
func accumulateStrut(d *Display, rootW, rootH int, sp *ewmh.WmStrutPartial, acc *edgeReserve) {
	dx1, dy1 := d.X, d.Y
	dx2, dy2 := d.X+d.Width, d.Y+d.Height

	if sp.Top > 0 {
		if _, h := overlapSpan(dx1, dy1, dx2, dy2,
			int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top)); h > 0 {
			acc.top = max(acc.top, h)
		}
	}
	if sp.Bottom > 0 {
		if _, h := overlapSpan(dx1, dy1, dx2, dy2,
			int(sp.BottomStartX), rootH-int(sp.Bottom), int(sp.BottomEndX)+1, rootH); h > 0 {
			acc.bottom = max(acc.bottom, h)
		}
	}
	if sp.Left > 0 {
		if w, _ := overlapSpan(dx1, dy1, dx2, dy2,
			0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1); w > 0 {
			acc.left = max(acc.left, w)
		}
	}
	if sp.Right > 0 {
		if w, _ := overlapSpan(dx1, dy1, dx2, dy2,
			rootW-int(sp.Right), int(sp.RightStartY), rootW, int(sp.RightEndY)+1); w > 0 {
			acc.right = max(acc.right, w)
		}
	}
}

// overlapSpan returns the width and height of the intersection of two
// regions, zero when they do not overlap.
func overlapSpan(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) (int, int) {
	x1, y1 := max(ax1, bx1), max(ay1, by1)
	x2, y2 := min(ax2, bx2), min(ay2, by2)
	if x2 <= x1 || y2 <= y1 {
		return 0, 0
	}
	return x2 - x1, y2 - y1
}

// intersectWorkarea falls back to the EWMH work area when no dock
// advertises struts.
func (c *Connection) intersectWorkarea(d *Display) {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return
	}

	idx := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(workArea) {
		idx = int(cur)
	}
	wa := workArea[idx]

	x1 := max(d.X, int(wa.X))
	y1 := max(d.Y, int(wa.Y))
	x2 := min(d.X+d.Width, int(wa.X)+int(wa.Width))
	y2 := min(d.Y+d.Height, int(wa.Y)+int(wa.Height))
	if x2 > x1 && y2 > y1 {
		d.Usable = Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
	}
}

// PointerPosition returns the mouse cursor position in root coordinates.
func (c *Connection) PointerPosition() (x, y int, err error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}

func findDisplayForWindow(c *Connection, displays []Display, windowID xproto.Window) *Display {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return nil
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return nil
	}

	winCenterX := int(translate.DstX) + int(geom.Width)/2
	winCenterY := int(translate.DstY) + int(geom.Height)/2

	for i := range displays {
		d := &displays[i]
		if winCenterX >= d.X && winCenterX < d.X+d.Width &&
			winCenterY >= d.Y && winCenterY < d.Y+d.Height {
			return d
		}
	}
	return nil
}

func findDisplayForPointer(c *Connection, displays []Display) *Display {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}

	x := int(pointer.RootX)
	y := int(pointer.RootY)

	for i := range displays {
		d := &displays[i]
		if x >= d.X && x < d.X+d.Width && y >= d.Y && y < d.Y+d.Height {
			return d
		}
	}
	return nil
}
