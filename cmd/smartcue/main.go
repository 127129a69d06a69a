package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/punyakrit/SmartCue/internal/config"
	"github.com/punyakrit/SmartCue/internal/daemon"
	"github.com/punyakrit/SmartCue/internal/ipc"
	"github.com/punyakrit/SmartCue/internal/mcp"
	"github.com/punyakrit/SmartCue/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "show":
		os.Exit(runSimple("show", "Show the overlay without taking focus.", os.Args[2:], func(c *ipc.Client) error { return c.Show() }))
	case "hide":
		os.Exit(runSimple("hide", "Hide the overlay.", os.Args[2:], func(c *ipc.Client) error { return c.Hide() }))
	case "toggle":
		os.Exit(runSimple("toggle", "Toggle the overlay between shown and hidden.", os.Args[2:], func(c *ipc.Client) error { return c.ToggleVisibility() }))
	case "incognito":
		os.Exit(runSimple("incognito", "Toggle incognito (capture-protected) mode.", os.Args[2:], func(c *ipc.Client) error { return c.ToggleIncognito() }))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "note":
		os.Exit(runNote(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "settings":
		os.Exit(runSettings(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: smartcue <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the smartcue daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  show                Show the overlay")
	fmt.Fprintln(w, "  hide                Hide the overlay")
	fmt.Fprintln(w, "  toggle              Toggle overlay visibility")
	fmt.Fprintln(w, "  incognito           Toggle incognito mode")
	fmt.Fprintln(w, "  move                Nudge the overlay (left/right/up/down)")
	fmt.Fprintln(w, "  displays            List displays")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  note save           Save a note")
	fmt.Fprintln(w, "  note show           Show a note by ID")
	fmt.Fprintln(w, "  note list           List notes")
	fmt.Fprintln(w, "  note delete         Delete a note by ID")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "  settings            Open interactive settings editor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'smartcue <command> --help' for command-specific options.")
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/smartcue/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the overlay daemon in the foreground. SIGHUP reloads the config.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfgPath, err := resolveConfigPath(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg, err := config.LoadFromPath(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}))

	d, err := daemon.New(cfg, cfgPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := d.Run(); err != nil {
		logger.Error("daemon exited", "error", err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("state:          %s\n", status.State)
	fmt.Printf("position:       %d,%d\n", status.X, status.Y)
	fmt.Printf("display:        %s\n", status.Display)
	fmt.Printf("manual_hold:    %v\n", status.ManualHold)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runSimple(name, doc string, args []string, call func(*ipc.Client) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: smartcue %s\n\n%s\n", name, doc)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}

	if err := call(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMove(args []string) int {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue move <left|right|up|down>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Nudge the overlay one step. Pauses desktop following briefly,")
		fmt.Fprintln(os.Stderr, "like any manual move.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Move(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDisplays(args []string) int {
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue displays")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List displays known to the daemon.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().GetDisplays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, d := range data.Displays {
		marker := " "
		if d.Active {
			marker = "*"
		}
		fmt.Printf("%s %d: %-10s %dx%d+%d+%d\n", marker, d.ID, d.Name, d.Width, d.Height, d.X, d.Y)
	}
	return 0
}

func printNoteUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  smartcue note save [--id ID] [--title TITLE] <body>")
	fmt.Fprintln(w, "  smartcue note show <id>")
	fmt.Fprintln(w, "  smartcue note list")
	fmt.Fprintln(w, "  smartcue note delete <id>")
}

func runNote(args []string) int {
	if len(args) == 0 {
		printNoteUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "save":
		return runNoteSave(args[1:])
	case "show":
		return runNoteShow(args[1:])
	case "list":
		return runNoteList(args[1:])
	case "delete":
		return runNoteDelete(args[1:])
	case "help", "-h", "--help":
		printNoteUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown note command: %s\n\n", args[0])
		printNoteUsage(os.Stderr)
		return 2
	}
}

func runNoteSave(args []string) int {
	fs := flag.NewFlagSet("note save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Existing note ID to update")
	title := fs.String("title", "", "Note title")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue note save [--id ID] [--title TITLE] <body>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	note, err := ipc.NewClient().SaveNote(*id, *title, fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("saved note %s\n", note.ID)
	return 0
}

func runNoteShow(args []string) int {
	fs := flag.NewFlagSet("note show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue note show <id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	note, err := ipc.NewClient().GetNote(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if note.Title != "" {
		fmt.Printf("# %s\n\n", note.Title)
	}
	fmt.Println(note.Body)
	return 0
}

func runNoteList(args []string) int {
	fs := flag.NewFlagSet("note list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue note list")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	summaries, err := ipc.NewClient().ListNotes()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(summaries) == 0 {
		fmt.Println("no notes")
		return 0
	}
	for _, s := range summaries {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s  %s  %s\n", s.ID, s.UpdatedAt.Format("2006-01-02 15:04"), title)
	}
	return 0
}

func runNoteDelete(args []string) int {
	fs := flag.NewFlagSet("note delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue note delete <id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().DeleteNote(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  smartcue config validate [--config PATH]")
	fmt.Fprintln(w, "  smartcue config print [--config PATH]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:])
	case "print":
		return runConfigPrint(args[1:])
	case "help", "-h", "--help":
		printConfigUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}

func runConfigValidate(args []string) int {
	fs := flag.NewFlagSet("config validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/smartcue/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue config validate [--config PATH]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfgPath, err := resolveConfigPath(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if _, err := config.LoadFromPath(cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config OK")
	return 0
}

func runConfigPrint(args []string) int {
	fs := flag.NewFlagSet("config print", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/smartcue/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue config print [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the effective configuration (file values over defaults).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfgPath, err := resolveConfigPath(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg, err := config.LoadFromPath(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	os.Stdout.Write(data)
	return 0
}

func runSettings(args []string) int {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/smartcue/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smartcue settings [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive settings editor. Saves the config and reloads a")
		fmt.Fprintln(os.Stderr, "running daemon.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfgPath, err := resolveConfigPath(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := tui.Run(cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMCP(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: smartcue mcp serve")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Expose the overlay daemon to MCP clients over stdio.")
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	if args[0] != "serve" {
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n", args[0])
		return 2
	}

	server := mcp.NewServer()
	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
