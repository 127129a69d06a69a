package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/punyakrit/SmartCue/internal/platform"
)

// ErrInvalidGeometry indicates non-positive or non-finite bounds from a
// platform query. It marks a transient failure, not a logic bug; callers skip
// the operation and retry on the next tick.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Direction is a nudge direction for manual window movement.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name as used by hotkey actions and IPC.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Default placement constants.
const (
	DefaultTopMargin = 50
	DefaultMoveStep  = 50
)

// Policy computes overlay window placement. Pure functions over display and
// window geometry; no platform calls.
type Policy struct {
	TopMargin int
	MoveStep  int
}

// NewPolicy returns a Policy with defaults filled in for zero values.
func NewPolicy(topMargin, moveStep int) Policy {
	if topMargin <= 0 {
		topMargin = DefaultTopMargin
	}
	if moveStep <= 0 {
		moveStep = DefaultMoveStep
	}
	return Policy{TopMargin: topMargin, MoveStep: moveStep}
}

// CenteredTop returns the centered-top-of-screen position for a window of the
// given width on the given display.
func (p Policy) CenteredTop(display platform.Rect, winWidth int) (platform.Point, error) {
	if display.Width <= 0 || display.Height <= 0 || winWidth <= 0 {
		return platform.Point{}, fmt.Errorf("%w: display=%dx%d winWidth=%d",
			ErrInvalidGeometry, display.Width, display.Height, winWidth)
	}

	x := display.X + int(math.Round(float64(display.Width-winWidth)/2))
	y := display.Y + p.TopMargin

	return clamp(platform.Point{X: x, Y: y}, platform.Rect{Width: winWidth, Height: 1}, display), nil
}

// Nudge moves pos by one step in the given direction, clamped so the window
// stays fully inside the display. Repeated nudges can never push the window
// out of bounds.
func (p Policy) Nudge(dir Direction, pos platform.Point, win platform.Rect, display platform.Rect) (platform.Point, error) {
	if display.Width <= 0 || display.Height <= 0 || win.Width <= 0 || win.Height <= 0 {
		return pos, fmt.Errorf("%w: display=%dx%d window=%dx%d",
			ErrInvalidGeometry, display.Width, display.Height, win.Width, win.Height)
	}

	target := pos
	switch dir {
	case DirLeft:
		target.X -= p.MoveStep
	case DirRight:
		target.X += p.MoveStep
	case DirUp:
		target.Y -= p.MoveStep
	case DirDown:
		target.Y += p.MoveStep
	default:
		return pos, fmt.Errorf("unknown direction %d", dir)
	}

	return clamp(target, win, display), nil
}

// clamp constrains pos so a window of the given size stays inside display.
// When the window is larger than the display the origin pins to the display
// origin.
func clamp(pos platform.Point, win platform.Rect, display platform.Rect) platform.Point {
	maxX := display.X + display.Width - win.Width
	maxY := display.Y + display.Height - win.Height

	if pos.X > maxX {
		pos.X = maxX
	}
	if pos.X < display.X {
		pos.X = display.X
	}
	if pos.Y > maxY {
		pos.Y = maxY
	}
	if pos.Y < display.Y {
		pos.Y = display.Y
	}
	return pos
}
