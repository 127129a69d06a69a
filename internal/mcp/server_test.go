package mcp

import (
	"log/slog"
	"testing"

	"github.com/punyakrit/SmartCue/internal/geometry"
	"github.com/punyakrit/SmartCue/internal/ipc"
	"github.com/punyakrit/SmartCue/internal/notes"
)

type fakeDaemon struct {
	status ipc.StatusData
	moves  []geometry.Direction
}

func (f *fakeDaemon) Status() ipc.StatusData  { return f.status }
func (f *fakeDaemon) Show() error             { f.status.Visible = true; return nil }
func (f *fakeDaemon) Hide() error             { f.status.Visible = false; return nil }
func (f *fakeDaemon) ToggleVisibility() error { f.status.Visible = !f.status.Visible; return nil }
func (f *fakeDaemon) ToggleIncognito() error  { f.status.Incognito = !f.status.Incognito; return nil }
func (f *fakeDaemon) Reload() error           { return nil }
func (f *fakeDaemon) Move(dir geometry.Direction) error {
	f.moves = append(f.moves, dir)
	return nil
}
func (f *fakeDaemon) Displays() (ipc.DisplaysData, error) { return ipc.DisplaysData{}, nil }

func newTestServer(t *testing.T, daemon *fakeDaemon) *Server {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	srv, err := ipc.NewServer(daemon, notes.NewStore(t.TempDir()), slog.Default())
	if err != nil {
		t.Fatalf("ipc.NewServer() error: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("ipc server Start() error: %v", err)
	}
	t.Cleanup(srv.Stop)

	return NewServer()
}

func TestGetStatusTool(t *testing.T) {
	daemon := &fakeDaemon{status: ipc.StatusData{
		DaemonRunning: true,
		State:         "shown-incognito",
		Visible:       true,
		Incognito:     true,
		X:             1310,
		Y:             50,
	}}
	s := newTestServer(t, daemon)

	_, out, err := s.handleGetStatus(nil, nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status error: %v", err)
	}
	if !out.DaemonRunning || out.State != "shown-incognito" || !out.Incognito {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestMoveOverlayToolStepsClamped(t *testing.T) {
	daemon := &fakeDaemon{status: ipc.StatusData{Visible: true}}
	s := newTestServer(t, daemon)

	_, _, err := s.handleMoveOverlay(nil, nil, MoveOverlayInput{Direction: "right", Steps: 100})
	if err != nil {
		t.Fatalf("move_overlay error: %v", err)
	}
	if len(daemon.moves) != maxMoveSteps {
		t.Fatalf("expected %d moves, got %d", maxMoveSteps, len(daemon.moves))
	}

	daemon.moves = nil
	if _, _, err := s.handleMoveOverlay(nil, nil, MoveOverlayInput{Direction: "up"}); err != nil {
		t.Fatalf("move_overlay error: %v", err)
	}
	if len(daemon.moves) != 1 || daemon.moves[0] != geometry.DirUp {
		t.Fatalf("unexpected moves: %v", daemon.moves)
	}
}

func TestMoveOverlayToolRejectsBadDirection(t *testing.T) {
	s := newTestServer(t, &fakeDaemon{})

	if _, _, err := s.handleMoveOverlay(nil, nil, MoveOverlayInput{Direction: "diagonal"}); err == nil {
		t.Fatal("expected error for invalid direction")
	}
}

func TestNoteTools(t *testing.T) {
	s := newTestServer(t, &fakeDaemon{})

	_, saved, err := s.handleSaveNote(nil, nil, SaveNoteInput{Title: "prep", Body: "follow-up questions"})
	if err != nil {
		t.Fatalf("save_note error: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt == "" {
		t.Fatalf("unexpected save output: %+v", saved)
	}

	_, got, err := s.handleGetNote(nil, nil, GetNoteInput{ID: saved.ID})
	if err != nil {
		t.Fatalf("get_note error: %v", err)
	}
	if got.Body != "follow-up questions" {
		t.Fatalf("unexpected body: %q", got.Body)
	}

	_, listed, err := s.handleListNotes(nil, nil, ListNotesInput{})
	if err != nil {
		t.Fatalf("list_notes error: %v", err)
	}
	if len(listed.Notes) != 1 || listed.Notes[0].ID != saved.ID {
		t.Fatalf("unexpected listing: %+v", listed)
	}

	_, deleted, err := s.handleDeleteNote(nil, nil, DeleteNoteInput{ID: saved.ID})
	if err != nil {
		t.Fatalf("delete_note error: %v", err)
	}
	if !deleted.Deleted {
		t.Fatal("expected deleted flag")
	}

	if _, _, err := s.handleGetNote(nil, nil, GetNoteInput{ID: saved.ID}); err == nil {
		t.Fatal("expected error fetching deleted note")
	}
}

func TestSaveNoteRequiresContent(t *testing.T) {
	s := newTestServer(t, &fakeDaemon{})
	if _, _, err := s.handleSaveNote(nil, nil, SaveNoteInput{}); err == nil {
		t.Fatal("expected error for empty note")
	}
}
