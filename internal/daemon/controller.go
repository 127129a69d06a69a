package daemon

import (
	"time"

	"github.com/punyakrit/SmartCue/internal/geometry"
	"github.com/punyakrit/SmartCue/internal/ipc"
)

// controller adapts the daemon to the IPC command surface. Every method
// serializes onto the coordination loop, so IPC connections never race the
// ticker or hotkey callbacks.
type controller struct {
	d *Daemon
}

func (d *Daemon) controller() ipc.Controller {
	return &controller{d: d}
}

func (c *controller) Status() ipc.StatusData {
	var status ipc.StatusData
	c.d.doSync(func() {
		d := c.d
		state := d.vis.State()
		status = ipc.StatusData{
			DaemonRunning: true,
			State:         state.String(),
			Visible:       state.Shown,
			Incognito:     state.Incognito,
			ManualHold:    d.fol.Suppressed(),
			UptimeSeconds: int64(time.Since(d.startTime).Seconds()),
		}
		if pos, err := d.win.Position(); err == nil {
			status.X = pos.X
			status.Y = pos.Y
		}
		if display, err := d.backend.ActiveDisplay(); err == nil {
			status.Display = display.Name
		}
	})
	return status
}

func (c *controller) Show() error {
	c.d.doSync(func() {
		c.d.vis.ShowWithoutFocus()
		c.d.vis.EnsureLayering()
	})
	return nil
}

func (c *controller) Hide() error {
	c.d.doSync(func() { c.d.vis.Hide() })
	return nil
}

func (c *controller) ToggleVisibility() error {
	c.d.doSync(func() { c.d.toggleVisibility() })
	return nil
}

func (c *controller) ToggleIncognito() error {
	c.d.doSync(func() { c.d.vis.ToggleIncognito() })
	return nil
}

func (c *controller) Move(dir geometry.Direction) error {
	var err error
	c.d.doSync(func() { err = c.d.nudge(dir) })
	return err
}

func (c *controller) Reload() error {
	c.d.doSync(func() { c.d.reloadConfig() })
	return nil
}

func (c *controller) Displays() (ipc.DisplaysData, error) {
	var (
		data ipc.DisplaysData
		err  error
	)
	c.d.doSync(func() {
		d := c.d
		displays, derr := d.backend.Displays()
		if derr != nil {
			err = derr
			return
		}
		active, _ := d.backend.ActiveDisplay()

		data.Displays = make([]ipc.DisplayInfo, len(displays))
		for i, disp := range displays {
			data.Displays[i] = ipc.DisplayInfo{
				ID:     disp.ID,
				Name:   disp.Name,
				X:      disp.Bounds.X,
				Y:      disp.Bounds.Y,
				Width:  disp.Bounds.Width,
				Height: disp.Bounds.Height,
				Active: disp.ID == active.ID && disp.Name == active.Name,
			}
		}
	})
	return data, err
}
