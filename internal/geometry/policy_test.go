package geometry

import (
	"errors"
	"testing"

	"github.com/punyakrit/SmartCue/internal/platform"
)

func TestCenteredTop(t *testing.T) {
	p := NewPolicy(50, 50)

	tests := []struct {
		name     string
		display  platform.Rect
		winWidth int
		wantX    int
		wantY    int
	}{
		{
			name:     "primary display",
			display:  platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			winWidth: 400,
			wantX:    760,
			wantY:    50,
		},
		{
			name:     "second monitor offset",
			display:  platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
			winWidth: 400,
			wantX:    2680,
			wantY:    50,
		},
		{
			name:     "odd remainder rounds",
			display:  platform.Rect{X: 0, Y: 0, Width: 1001, Height: 800},
			winWidth: 400,
			wantX:    301, // round(601/2) = 301
			wantY:    50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.CenteredTop(tt.display, tt.winWidth)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.X != tt.wantX || got.Y != tt.wantY {
				t.Fatalf("expected (%d,%d), got (%d,%d)", tt.wantX, tt.wantY, got.X, got.Y)
			}
			if got.X+tt.winWidth > tt.display.X+tt.display.Width {
				t.Fatalf("position %d exceeds display right edge", got.X)
			}
		})
	}
}

func TestCenteredTopRejectsInvalidGeometry(t *testing.T) {
	p := NewPolicy(50, 50)

	bad := []platform.Rect{
		{Width: 0, Height: 1080},
		{Width: 1920, Height: 0},
		{Width: -1920, Height: 1080},
	}
	for _, display := range bad {
		if _, err := p.CenteredTop(display, 400); !errors.Is(err, ErrInvalidGeometry) {
			t.Fatalf("display %+v: expected ErrInvalidGeometry, got %v", display, err)
		}
	}

	if _, err := p.CenteredTop(platform.Rect{Width: 1920, Height: 1080}, 0); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("zero window width: expected ErrInvalidGeometry, got %v", err)
	}
}

func TestNudgeClampsToDisplay(t *testing.T) {
	p := NewPolicy(50, 50)
	display := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	win := platform.Rect{Width: 400, Height: 300}

	// Window near the right edge: step would land at 1920, clamps to 1520.
	got, err := p.Nudge(DirRight, platform.Point{X: 1870, Y: 50}, win, display)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.X != 1520 {
		t.Fatalf("expected clamped x=1520, got %d", got.X)
	}
	if got.Y != 50 {
		t.Fatalf("nudge right must not change y, got %d", got.Y)
	}
}

func TestNudgeRepeatedStaysInBounds(t *testing.T) {
	p := NewPolicy(50, 50)
	display := platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	win := platform.Rect{Width: 400, Height: 300}

	pos := platform.Point{X: 2680, Y: 50}
	for _, dir := range []Direction{DirLeft, DirRight, DirUp, DirDown} {
		for i := 0; i < 100; i++ {
			next, err := p.Nudge(dir, pos, win, display)
			if err != nil {
				t.Fatalf("nudge %s: unexpected error: %v", dir, err)
			}
			pos = next
			if pos.X < display.X || pos.X+win.Width > display.X+display.Width {
				t.Fatalf("nudge %s step %d pushed x out of bounds: %d", dir, i, pos.X)
			}
			if pos.Y < display.Y || pos.Y+win.Height > display.Y+display.Height {
				t.Fatalf("nudge %s step %d pushed y out of bounds: %d", dir, i, pos.Y)
			}
		}
	}
}

func TestNudgeRejectsInvalidGeometry(t *testing.T) {
	p := NewPolicy(50, 50)
	start := platform.Point{X: 100, Y: 100}

	_, err := p.Nudge(DirLeft, start, platform.Rect{Width: 0, Height: 300},
		platform.Rect{Width: 1920, Height: 1080})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("zero window width: expected ErrInvalidGeometry, got %v", err)
	}

	got, err := p.Nudge(DirLeft, start, platform.Rect{Width: 400, Height: 300},
		platform.Rect{Width: -1, Height: 1080})
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("negative display width: expected ErrInvalidGeometry, got %v", err)
	}
	if got != start {
		t.Fatalf("failed nudge must return the unchanged position, got %+v", got)
	}
}

func TestParseDirection(t *testing.T) {
	for _, name := range []string{"left", "right", "up", "down"} {
		dir, err := ParseDirection(name)
		if err != nil {
			t.Fatalf("ParseDirection(%q): %v", name, err)
		}
		if dir.String() != name {
			t.Fatalf("round trip mismatch: %q -> %v", name, dir)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}
