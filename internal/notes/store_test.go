package notes

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(t.TempDir())
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	return s
}

func TestSaveNoteAssignsID(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.SaveNote(&Note{Title: "interview prep", Body: "ask about on-call"})
	if err != nil {
		t.Fatalf("SaveNote() error: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated ID")
	}
	if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	got, err := s.GetNote(saved.ID)
	if err != nil {
		t.Fatalf("GetNote() error: %v", err)
	}
	if got.Title != "interview prep" || got.Body != "ask about on-call" {
		t.Fatalf("unexpected note: %+v", got)
	}
}

func TestSaveNoteUpdateKeepsCreatedAt(t *testing.T) {
	s := newTestStore(t)

	first, err := s.SaveNote(&Note{Title: "draft"})
	if err != nil {
		t.Fatalf("SaveNote() error: %v", err)
	}

	second, err := s.SaveNote(&Note{ID: first.ID, Title: "draft", Body: "filled in"})
	if err != nil {
		t.Fatalf("SaveNote() update error: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt changed on update: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("UpdatedAt did not advance: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestSaveNoteRejectsEmpty(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SaveNote(&Note{Title: "  ", Body: ""}); err == nil {
		t.Fatal("expected error for empty note")
	}
}

func TestNoteIDValidation(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"../escape", "a/b", "..", "."} {
		if _, err := s.GetNote(id); err == nil {
			t.Errorf("GetNote(%q) should reject id", id)
		}
		if err := s.DeleteNote(id); err == nil {
			t.Errorf("DeleteNote(%q) should reject id", id)
		}
	}
}

func TestListNotesOrderedByUpdate(t *testing.T) {
	s := newTestStore(t)

	older, err := s.SaveNote(&Note{Title: "older"})
	if err != nil {
		t.Fatal(err)
	}
	newer, err := s.SaveNote(&Note{Title: "newer"})
	if err != nil {
		t.Fatal(err)
	}

	summaries, err := s.ListNotes()
	if err != nil {
		t.Fatalf("ListNotes() error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != newer.ID || summaries[1].ID != older.ID {
		t.Fatalf("unexpected order: %v then %v", summaries[0].Title, summaries[1].Title)
	}
}

func TestListNotesEmptyStore(t *testing.T) {
	s := newTestStore(t)
	summaries, err := s.ListNotes()
	if err != nil {
		t.Fatalf("ListNotes() error: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}
}

func TestDeleteNote(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.SaveNote(&Note{Title: "gone soon"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteNote(saved.ID); err != nil {
		t.Fatalf("DeleteNote() error: %v", err)
	}
	if _, err := s.GetNote(saved.ID); err == nil {
		t.Fatal("expected error reading deleted note")
	}
	if err := s.DeleteNote(saved.ID); err == nil {
		t.Fatal("expected error deleting missing note")
	}
}

func TestConversationRoundTrip(t *testing.T) {
	s := newTestStore(t)

	conv, err := s.SaveConversation(&Conversation{
		Title: "standup",
		Messages: []Message{
			{Role: "user", Text: "what shipped yesterday?"},
		},
	})
	if err != nil {
		t.Fatalf("SaveConversation() error: %v", err)
	}
	if conv.ID == "" || conv.StartedAt.IsZero() {
		t.Fatalf("expected ID and StartedAt, got %+v", conv)
	}

	conv, err = s.AppendMessage(conv.ID, Message{Role: "assistant", Text: "the follower fix"})
	if err != nil {
		t.Fatalf("AppendMessage() error: %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[1].At.IsZero() {
		t.Fatal("expected appended message timestamp")
	}

	ids, err := s.ListConversations()
	if err != nil {
		t.Fatalf("ListConversations() error: %v", err)
	}
	if len(ids) != 1 || ids[0] != conv.ID {
		t.Fatalf("unexpected conversation list: %v", ids)
	}
}

func TestAppendMessageMissingConversation(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AppendMessage("missing-id", Message{Role: "user", Text: "hi"}); err == nil {
		t.Fatal("expected error for missing conversation")
	}
}

func TestConcurrentSavesSameID(t *testing.T) {
	s := NewStore(t.TempDir())

	saved, err := s.SaveNote(&Note{Title: "shared"})
	if err != nil {
		t.Fatalf("SaveNote() error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := s.SaveNote(&Note{ID: saved.ID, Body: fmt.Sprintf("update %d", n)}); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.GetNote(saved.ID)
	if err != nil {
		t.Fatalf("GetNote() error: %v", err)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Fatalf("CreatedAt changed under concurrent updates: %v != %v", got.CreatedAt, saved.CreatedAt)
	}
	if got.Body == "" {
		t.Fatal("expected one of the concurrent updates to win")
	}
}
