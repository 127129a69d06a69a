package daemon

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/punyakrit/SmartCue/internal/config"
	"github.com/punyakrit/SmartCue/internal/focus"
	"github.com/punyakrit/SmartCue/internal/follower"
	"github.com/punyakrit/SmartCue/internal/geometry"
	"github.com/punyakrit/SmartCue/internal/hotkeys"
	"github.com/punyakrit/SmartCue/internal/ipc"
	"github.com/punyakrit/SmartCue/internal/notes"
	"github.com/punyakrit/SmartCue/internal/platform"
	"github.com/punyakrit/SmartCue/internal/visibility"
	"github.com/punyakrit/SmartCue/internal/x11"
)

const windowTitle = "SmartCue"

// Daemon owns the overlay window and runs the single coordination loop. All
// window-state mutation happens on that loop goroutine; IPC connections,
// hotkey callbacks, and X events post closures onto it via Do.
type Daemon struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	backend *platform.LinuxBackend
	win     *trackedWindow

	guard   *focus.Guard
	vis     *visibility.Machine
	fol     *follower.Follower
	hotkeys *hotkeys.Handler
	policy  geometry.Policy
	store   *notes.Store

	commands  chan func()
	quit      chan struct{}
	startTime time.Time
}

// New prepares a daemon from the given configuration. Run performs the
// actual platform setup.
func New(cfg *config.Config, cfgPath string, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	notesDir, err := cfg.NotesDir()
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:      cfg,
		cfgPath:  cfgPath,
		logger:   logger,
		store:    notes.NewStore(notesDir),
		commands: make(chan func(), 32),
		quit:     make(chan struct{}),
	}, nil
}

// Store exposes the note store backing the daemon's IPC surface.
func (d *Daemon) Store() *notes.Store {
	return d.store
}

// Run connects to the display server, creates the overlay, and blocks in the
// coordination loop until a shutdown signal arrives.
func (d *Daemon) Run() error {
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	d.backend = backend
	defer backend.Disconnect()

	overlay, err := x11.CreateOverlayWindow(backend.Connection(), d.cfg.Window.Width, d.cfg.Window.Height, windowTitle)
	if err != nil {
		return fmt.Errorf("failed to create overlay window: %w", err)
	}
	d.win = newTrackedWindow(platform.NewX11Window(overlay))

	d.guard = focus.NewGuard(backend, d.win.ID(), d.logger)
	d.hotkeys = hotkeys.NewHandler(backend, d.logger)
	d.vis = visibility.NewMachine(d.win, d.guard, d.hotkeys, d.cfg.Incognito.Opacity, d.logger)
	d.policy = geometry.NewPolicy(d.cfg.Window.TopMargin, d.cfg.Window.MoveStep)
	d.fol = follower.New(d.win, backend, d.vis, d.policy, d.guard, follower.Options{
		ManualOverride: d.cfg.ManualOverride(),
		Cooldown:       d.cfg.Cooldown(),
		MouseThreshold: d.cfg.Follow.MouseThresholdPX,
		Logger:         d.logger,
	})

	if err := d.hotkeys.RegisterAll(d.cfg.Hotkeys, d.hotkeyActions()); err != nil {
		return err
	}
	defer d.hotkeys.Detach()

	if err := backend.Connection().WatchOverlayEvents(overlay, x11.EventHandler{
		DisplayChanged: func() {
			d.Do(func() { d.fol.OnTick() })
		},
		WindowMoved: func(x, y int) {
			d.Do(func() {
				if d.win.wasCommanded(x, y) {
					return
				}
				d.fol.MarkManual()
			})
		},
		WindowClosed: func() {
			d.Do(func() {
				d.logger.Warn("overlay window destroyed externally")
				d.recreateWindow()
			})
		},
	}); err != nil {
		return fmt.Errorf("failed to subscribe to window events: %w", err)
	}

	ipcServer, err := ipc.NewServer(d.controller(), d.store, d.logger)
	if err != nil {
		return err
	}
	if err := ipcServer.Start(); err != nil {
		return err
	}
	defer ipcServer.Stop()

	watcher, err := watchConfig(d.cfgPath, d.logger, func() {
		d.Do(func() { d.reloadConfig() })
	})
	if err != nil {
		d.logger.Warn("config watcher unavailable", "error", err)
	} else {
		defer watcher.Close()
	}

	d.startTime = time.Now()
	d.positionOnActiveDisplay()
	d.vis.Show()
	d.vis.EnsureLayering()
	d.logger.Info("smartcue daemon started", "window", d.win.ID())

	go backend.EventLoop()
	defer backend.StopEventLoop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(d.cfg.FollowInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.fol.OnTick()
		case fn := <-d.commands:
			fn()
			// Interval may have changed under a reload command.
			ticker.Reset(d.cfg.FollowInterval())
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				d.logger.Info("received SIGHUP, reloading config")
				d.reloadConfig()
				ticker.Reset(d.cfg.FollowInterval())
			case os.Interrupt, syscall.SIGTERM:
				d.logger.Info("shutting down smartcue daemon")
				d.vis.Hide()
				return nil
			}
		case <-d.quit:
			return nil
		}
	}
}

// Do posts a closure onto the coordination loop.
func (d *Daemon) Do(fn func()) {
	select {
	case d.commands <- fn:
	case <-d.quit:
	}
}

// doSync posts a closure and waits for it to finish. Used by surfaces that
// need a return value, never from the loop goroutine itself.
func (d *Daemon) doSync(fn func()) {
	done := make(chan struct{})
	d.Do(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-d.quit:
	}
}

// Stop asks the run loop to exit.
func (d *Daemon) Stop() {
	close(d.quit)
}

func (d *Daemon) hotkeyActions() map[string]func() {
	return map[string]func(){
		hotkeys.ActionToggleVisibility: func() {
			d.Do(func() { d.toggleVisibility() })
		},
		hotkeys.ActionToggleIncognito: func() {
			d.Do(func() { d.vis.ToggleIncognito() })
		},
		hotkeys.ActionMoveLeft: func() {
			d.Do(func() { d.nudge(geometry.DirLeft) })
		},
		hotkeys.ActionMoveRight: func() {
			d.Do(func() { d.nudge(geometry.DirRight) })
		},
		hotkeys.ActionMoveUp: func() {
			d.Do(func() { d.nudge(geometry.DirUp) })
		},
		hotkeys.ActionMoveDown: func() {
			d.Do(func() { d.nudge(geometry.DirDown) })
		},
		hotkeys.ActionQuickNote: func() {
			d.quickNote()
		},
	}
}

// quickNote creates an empty timestamped note for the user to fill in later.
// It only touches the note store, so it runs off the daemon loop.
func (d *Daemon) quickNote() {
	note, err := d.store.SaveNote(&notes.Note{
		Title: "Quick note " + time.Now().Format("2006-01-02 15:04"),
	})
	if err != nil {
		d.logger.Warn("quick note failed", "error", err)
		return
	}
	d.logger.Info("quick note created", "id", note.ID)
}

func (d *Daemon) toggleVisibility() {
	if d.vis.Shown() {
		d.vis.Hide()
		return
	}
	d.vis.ShowWithoutFocus()
	d.vis.EnsureLayering()
}

// nudge moves the overlay one step and suppresses following, like any other
// manual move.
func (d *Daemon) nudge(dir geometry.Direction) error {
	if !d.vis.Shown() {
		return fmt.Errorf("overlay is hidden")
	}

	bounds, err := d.win.Bounds()
	if err != nil {
		return fmt.Errorf("failed to query window bounds: %w", err)
	}
	display, err := d.backend.ActiveDisplay()
	if err != nil {
		return fmt.Errorf("failed to query active display: %w", err)
	}

	pos, err := d.policy.Nudge(dir, platform.Point{X: bounds.X, Y: bounds.Y}, bounds, display.Usable)
	if err != nil {
		return err
	}

	if err := d.win.SetPosition(pos.X, pos.Y); err != nil {
		return fmt.Errorf("failed to move window: %w", err)
	}
	d.fol.MarkManual()
	d.logger.Debug("overlay nudged", "direction", dir.String(), "x", pos.X, "y", pos.Y)
	return nil
}

func (d *Daemon) positionOnActiveDisplay() {
	display, err := d.backend.ActiveDisplay()
	if err != nil {
		d.logger.Warn("no active display for initial placement", "error", err)
		return
	}
	pos, err := d.policy.CenteredTop(display.Usable, d.cfg.Window.Width)
	if err != nil {
		d.logger.Warn("initial placement failed", "error", err)
		return
	}
	if err := d.win.SetPosition(pos.X, pos.Y); err != nil {
		d.logger.Warn("initial placement failed", "error", err)
	}
}

// recreateWindow builds a fresh overlay after external destruction and
// resets every collaborator that held the old handle.
func (d *Daemon) recreateWindow() {
	// Drop the dead window's event callbacks before registering the new ones.
	d.backend.Connection().UnwatchWindow(uint32(d.win.ID()))

	overlay, err := x11.CreateOverlayWindow(d.backend.Connection(), d.cfg.Window.Width, d.cfg.Window.Height, windowTitle)
	if err != nil {
		d.logger.Error("failed to recreate overlay window", "error", err)
		return
	}
	d.win = newTrackedWindow(platform.NewX11Window(overlay))

	d.guard.SetOwnWindow(d.win.ID())
	d.vis.SetWindow(d.win)
	d.fol.SetWindow(d.win)

	d.backend.Connection().WatchWindowEvents(overlay, x11.EventHandler{
		WindowMoved: func(x, y int) {
			d.Do(func() {
				if d.win.wasCommanded(x, y) {
					return
				}
				d.fol.MarkManual()
			})
		},
		WindowClosed: func() {
			d.Do(func() {
				d.logger.Warn("overlay window destroyed externally")
				d.recreateWindow()
			})
		},
	})

	d.positionOnActiveDisplay()
	d.vis.Show()
	d.vis.EnsureLayering()
	d.logger.Info("overlay window recreated", "window", d.win.ID())
}

// reloadConfig re-reads the config file and retunes the live components.
// Runs on the loop goroutine.
func (d *Daemon) reloadConfig() {
	cfg, err := config.LoadFromPath(d.cfgPath)
	if err != nil {
		d.logger.Warn("config reload failed", "error", err)
		return
	}
	d.cfg = cfg

	d.policy = geometry.NewPolicy(cfg.Window.TopMargin, cfg.Window.MoveStep)
	d.fol.Retune(d.policy, cfg.ManualOverride(), cfg.Cooldown(), cfg.Follow.MouseThresholdPX)
	d.vis.SetIncognitoOpacity(cfg.Incognito.Opacity)

	d.hotkeys.Detach()
	if err := d.hotkeys.RegisterAll(cfg.Hotkeys, d.hotkeyActions()); err != nil {
		d.logger.Warn("hotkey re-registration failed", "error", err)
	}
	if !d.vis.Shown() {
		d.hotkeys.Suspend()
	}

	d.logger.Info("config reloaded")
}
