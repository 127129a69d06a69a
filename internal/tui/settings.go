package tui

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/punyakrit/SmartCue/internal/config"
	"github.com/punyakrit/SmartCue/internal/ipc"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	resultOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
	resultErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// formValues holds the form-bound strings. Heap-allocated so the huh form's
// value pointers stay valid while bubbletea copies the model around.
type formValues struct {
	width      string
	height     string
	topMargin  string
	moveStep   string
	interval   string
	cooldown   string
	override   string
	threshold  string
	opacity    string
	toggleVis  string
	toggleIncg string
	logLevel   string
}

// model is the root bubbletea model for the settings editor: one huh form
// over the whole config, saved on completion.
type model struct {
	configPath string
	cfg        *config.Config
	client     *ipc.Client
	vals       *formValues

	form            *huh.Form
	daemonConnected bool
	done            bool
	resultMsg       string
	resultErr       bool
}

func newModel(configPath string, cfg *config.Config) model {
	m := model{
		configPath: configPath,
		cfg:        cfg,
		client:     ipc.NewClient(),
		vals: &formValues{
			width:      strconv.Itoa(cfg.Window.Width),
			height:     strconv.Itoa(cfg.Window.Height),
			topMargin:  strconv.Itoa(cfg.Window.TopMargin),
			moveStep:   strconv.Itoa(cfg.Window.MoveStep),
			interval:   strconv.Itoa(cfg.Follow.IntervalMS),
			cooldown:   strconv.Itoa(cfg.Follow.CooldownMS),
			override:   strconv.Itoa(cfg.Follow.ManualOverrideMS),
			threshold:  strconv.Itoa(cfg.Follow.MouseThresholdPX),
			opacity:    strconv.FormatFloat(cfg.Incognito.Opacity, 'f', -1, 64),
			toggleVis:  cfg.Hotkeys.ToggleVisibility,
			toggleIncg: cfg.Hotkeys.ToggleIncognito,
			logLevel:   cfg.Logging.Level,
		},
	}
	if err := m.client.Ping(); err == nil {
		m.daemonConnected = true
	}
	if m.vals.logLevel == "" {
		m.vals.logLevel = "info"
	}

	m.form = buildForm(m.vals)
	return m
}

func buildForm(v *formValues) *huh.Form {
	intField := func(title string, value *string) *huh.Input {
		return huh.NewInput().
			Title(title).
			Value(value).
			Validate(func(s string) error {
				if _, err := strconv.Atoi(s); err != nil {
					return fmt.Errorf("must be a whole number")
				}
				return nil
			})
	}

	return huh.NewForm(
		huh.NewGroup(
			intField("Window width (px)", &v.width),
			intField("Window height (px)", &v.height),
			intField("Top margin (px)", &v.topMargin),
			intField("Move step (px)", &v.moveStep),
		).Title("Window"),
		huh.NewGroup(
			intField("Follow interval (ms)", &v.interval),
			intField("Reposition cooldown (ms)", &v.cooldown),
			intField("Manual override hold (ms)", &v.override),
			intField("Pointer jump threshold (px)", &v.threshold),
		).Title("Desktop following"),
		huh.NewGroup(
			huh.NewInput().
				Title("Incognito opacity (0-1]").
				Value(&v.opacity).
				Validate(func(s string) error {
					f, err := strconv.ParseFloat(s, 64)
					if err != nil || f <= 0 || f > 1 {
						return fmt.Errorf("must be a number in (0,1]")
					}
					return nil
				}),
			huh.NewInput().
				Title("Toggle visibility hotkey").
				Value(&v.toggleVis),
			huh.NewInput().
				Title("Toggle incognito hotkey").
				Value(&v.toggleIncg),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&v.logLevel),
		).Title("Overlay"),
	)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	if m.done {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.applyAndSave()
		m.done = true
		return m, nil
	}

	return m, cmd
}

// applyAndSave converts the form values back into the config, persists it,
// and asks a running daemon to reload.
func (m *model) applyAndSave() {
	v := m.vals
	cfg := *m.cfg
	cfg.Window.Width, _ = strconv.Atoi(v.width)
	cfg.Window.Height, _ = strconv.Atoi(v.height)
	cfg.Window.TopMargin, _ = strconv.Atoi(v.topMargin)
	cfg.Window.MoveStep, _ = strconv.Atoi(v.moveStep)
	cfg.Follow.IntervalMS, _ = strconv.Atoi(v.interval)
	cfg.Follow.CooldownMS, _ = strconv.Atoi(v.cooldown)
	cfg.Follow.ManualOverrideMS, _ = strconv.Atoi(v.override)
	cfg.Follow.MouseThresholdPX, _ = strconv.Atoi(v.threshold)
	cfg.Incognito.Opacity, _ = strconv.ParseFloat(v.opacity, 64)
	cfg.Hotkeys.ToggleVisibility = v.toggleVis
	cfg.Hotkeys.ToggleIncognito = v.toggleIncg
	cfg.Logging.Level = v.logLevel

	if err := config.Save(&cfg, m.configPath); err != nil {
		m.resultMsg = fmt.Sprintf("Save failed: %v", err)
		m.resultErr = true
		return
	}
	*m.cfg = cfg

	if m.daemonConnected {
		if err := m.client.Reload(); err != nil {
			m.resultMsg = fmt.Sprintf("Saved, but daemon reload failed: %v", err)
			m.resultErr = true
			return
		}
		m.resultMsg = "Saved and daemon reloaded."
		return
	}
	m.resultMsg = "Saved. Start the daemon to apply."
}

// View implements tea.Model.
func (m model) View() string {
	header := titleStyle.Render("SmartCue Settings")

	status := "daemon: not running"
	if m.daemonConnected {
		status = "daemon: connected"
	}
	header = lipgloss.JoinVertical(lipgloss.Left, header, statusStyle.Render(status))

	if m.done {
		style := resultOKStyle
		if m.resultErr {
			style = resultErrStyle
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			style.Render(m.resultMsg),
			statusStyle.Render("Press any key to exit."),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.form.View())
}

// Run opens the interactive settings editor for the config at path.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("settings requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(configPath, cfg))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("settings UI failed: %w", err)
	}
	return nil
}
