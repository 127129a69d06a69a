package ipc

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/punyakrit/SmartCue/internal/geometry"
	"github.com/punyakrit/SmartCue/internal/notes"
)

type fakeController struct {
	status   StatusData
	moved    []geometry.Direction
	toggles  int
	reloads  int
	showErr  error
	displays DisplaysData
}

func (f *fakeController) Status() StatusData { return f.status }
func (f *fakeController) Show() error        { return f.showErr }
func (f *fakeController) Hide() error        { return nil }
func (f *fakeController) ToggleVisibility() error {
	f.toggles++
	return nil
}
func (f *fakeController) ToggleIncognito() error { return nil }
func (f *fakeController) Move(dir geometry.Direction) error {
	f.moved = append(f.moved, dir)
	return nil
}
func (f *fakeController) Reload() error {
	f.reloads++
	return nil
}
func (f *fakeController) Displays() (DisplaysData, error) { return f.displays, nil }

func startTestServer(t *testing.T, ctrl Controller) *Client {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	store := notes.NewStore(t.TempDir())
	srv, err := NewServer(ctrl, store, slog.Default())
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(srv.Stop)

	return NewClient()
}

func TestGetStatusRoundTrip(t *testing.T) {
	ctrl := &fakeController{
		status: StatusData{
			DaemonRunning: true,
			State:         "shown-normal",
			Visible:       true,
			X:             1310,
			Y:             50,
			Display:       "DP-1",
		},
	}
	client := startTestServer(t, ctrl)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error: %v", err)
	}
	if !status.DaemonRunning || status.State != "shown-normal" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.X != 1310 || status.Y != 50 {
		t.Fatalf("unexpected position: %d,%d", status.X, status.Y)
	}
}

func TestMoveCommandParsesDirection(t *testing.T) {
	ctrl := &fakeController{}
	client := startTestServer(t, ctrl)

	if err := client.Move("left"); err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if len(ctrl.moved) != 1 || ctrl.moved[0] != geometry.DirLeft {
		t.Fatalf("unexpected moves: %v", ctrl.moved)
	}

	if err := client.Move("sideways"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
	if len(ctrl.moved) != 1 {
		t.Fatalf("invalid direction reached controller: %v", ctrl.moved)
	}
}

func TestToggleAndReload(t *testing.T) {
	ctrl := &fakeController{}
	client := startTestServer(t, ctrl)

	if err := client.ToggleVisibility(); err != nil {
		t.Fatalf("ToggleVisibility() error: %v", err)
	}
	if err := client.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if ctrl.toggles != 1 || ctrl.reloads != 1 {
		t.Fatalf("toggles=%d reloads=%d", ctrl.toggles, ctrl.reloads)
	}
}

func TestControllerErrorSurfacesToClient(t *testing.T) {
	ctrl := &fakeController{showErr: fmt.Errorf("window destroyed")}
	client := startTestServer(t, ctrl)

	err := client.Show()
	if err == nil {
		t.Fatal("expected error from Show()")
	}
}

func TestNoteCommands(t *testing.T) {
	client := startTestServer(t, &fakeController{})

	saved, err := client.SaveNote("", "scratch", "remember the cooldown")
	if err != nil {
		t.Fatalf("SaveNote() error: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated note ID")
	}

	got, err := client.GetNote(saved.ID)
	if err != nil {
		t.Fatalf("GetNote() error: %v", err)
	}
	if got.Body != "remember the cooldown" {
		t.Fatalf("unexpected note body: %q", got.Body)
	}

	summaries, err := client.ListNotes()
	if err != nil {
		t.Fatalf("ListNotes() error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != saved.ID {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}

	if err := client.DeleteNote(saved.ID); err != nil {
		t.Fatalf("DeleteNote() error: %v", err)
	}
	if _, err := client.GetNote(saved.ID); err == nil {
		t.Fatal("expected error for deleted note")
	}

	remaining, err := client.ListNotes()
	if err != nil {
		t.Fatalf("ListNotes() after delete error: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty list, got %+v", remaining)
	}
}
