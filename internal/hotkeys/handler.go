package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/punyakrit/SmartCue/internal/config"
	"github.com/punyakrit/SmartCue/internal/platform"
)

// Action names the overlay operations a hotkey can trigger.
const (
	ActionToggleVisibility = "toggle-visibility"
	ActionToggleIncognito  = "toggle-incognito"
	ActionMoveLeft         = "move-left"
	ActionMoveRight        = "move-right"
	ActionMoveUp           = "move-up"
	ActionMoveDown         = "move-down"
	ActionQuickNote        = "quick-note"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

type binding struct {
	action   string
	sequence string
	callback func()
}

// Handler manages global keyboard shortcuts. While suspended, every binding
// except the visibility toggle is detached so a hidden overlay cannot be
// moved or flipped into incognito by stale key grabs.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	bindings  []binding
	suspended bool
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler bound to the backend's root window.
func NewHandler(backend platform.Backend, logger *slog.Logger) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		xu:     xu,
		root:   root,
		logger: logger,
	}
}

// RegisterAll binds the configured key sequences. Actions with an empty
// sequence stay unbound; a sequence keybind cannot parse fails registration.
func (h *Handler) RegisterAll(cfg config.HotkeysConfig, actions map[string]func()) error {
	pairs := []struct {
		action   string
		sequence string
	}{
		{ActionToggleVisibility, cfg.ToggleVisibility},
		{ActionToggleIncognito, cfg.ToggleIncognito},
		{ActionMoveLeft, cfg.MoveLeft},
		{ActionMoveRight, cfg.MoveRight},
		{ActionMoveUp, cfg.MoveUp},
		{ActionMoveDown, cfg.MoveDown},
		{ActionQuickNote, cfg.QuickNote},
	}

	for _, p := range pairs {
		if p.sequence == "" {
			continue
		}
		callback, ok := actions[p.action]
		if !ok {
			continue
		}
		if err := h.register(p.action, p.sequence, callback); err != nil {
			return fmt.Errorf("failed to register hotkey %q for %s: %w", p.sequence, p.action, err)
		}
	}
	return nil
}

func (h *Handler) register(action, sequence string, callback func()) error {
	if err := h.connect(sequence, callback); err != nil {
		return err
	}
	h.bindings = append(h.bindings, binding{action: action, sequence: sequence, callback: callback})
	return nil
}

func (h *Handler) connect(sequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, sequence, true)
}

// Suspend detaches all bindings except the visibility toggle.
func (h *Handler) Suspend() {
	if h.suspended || h.xu == nil {
		return
	}
	h.suspended = true

	keybind.Detach(h.xu, h.root)
	for _, b := range h.bindings {
		if b.action != ActionToggleVisibility {
			continue
		}
		if err := h.connect(b.sequence, b.callback); err != nil {
			h.logger.Warn("failed to keep hotkey during suspend",
				"action", b.action, "sequence", b.sequence, "error", err)
		}
	}
	h.logger.Debug("hotkeys suspended")
}

// Resume reattaches the full binding set.
func (h *Handler) Resume() {
	if !h.suspended || h.xu == nil {
		return
	}
	h.suspended = false

	keybind.Detach(h.xu, h.root)
	for _, b := range h.bindings {
		if err := h.connect(b.sequence, b.callback); err != nil {
			h.logger.Warn("failed to restore hotkey",
				"action", b.action, "sequence", b.sequence, "error", err)
		}
	}
	h.logger.Debug("hotkeys resumed")
}

// Detach removes every binding, for daemon shutdown.
func (h *Handler) Detach() {
	if h.xu == nil {
		return
	}
	keybind.Detach(h.xu, h.root)
	h.bindings = nil
	h.suspended = false
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
