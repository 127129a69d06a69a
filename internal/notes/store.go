package notes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists notes and conversations as JSON files under a base
// directory, one file per record. Safe for concurrent use: hotkey and IPC
// callers run on different goroutines.
type Store struct {
	mu      sync.Mutex
	baseDir string
	now     func() time.Time
}

// NewStore returns a store rooted at baseDir. The directory is created
// lazily on first write.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) notesDir() string {
	return filepath.Join(s.baseDir, "notes")
}

func (s *Store) conversationsDir() string {
	return filepath.Join(s.baseDir, "conversations")
}

func validateID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("note id is required")
	}
	if strings.Contains(id, string(os.PathSeparator)) || id != filepath.Base(id) {
		return fmt.Errorf("invalid note id %q", id)
	}
	if id == "." || id == ".." || strings.Contains(id, "..") {
		return fmt.Errorf("invalid note id %q", id)
	}
	return nil
}

func (s *Store) notePath(id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.notesDir(), id+".json"), nil
}

// SaveNote persists a note. An empty ID is assigned a fresh one; an existing
// ID overwrites the stored note and bumps its UpdatedAt, keeping the original
// CreatedAt when the note was stored before.
func (s *Store) SaveNote(note *Note) (*Note, error) {
	if note == nil {
		return nil, fmt.Errorf("note is nil")
	}
	if strings.TrimSpace(note.Title) == "" && strings.TrimSpace(note.Body) == "" {
		return nil, fmt.Errorf("note is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := *note
	now := s.now()
	if saved.ID == "" {
		saved.ID = uuid.NewString()
		saved.CreatedAt = now
	} else {
		if err := validateID(saved.ID); err != nil {
			return nil, err
		}
		if prev, err := s.readNote(saved.ID); err == nil {
			saved.CreatedAt = prev.CreatedAt
		} else if saved.CreatedAt.IsZero() {
			saved.CreatedAt = now
		}
	}
	saved.UpdatedAt = now

	if err := os.MkdirAll(s.notesDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create notes directory: %w", err)
	}
	path, err := s.notePath(saved.ID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(&saved, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode note: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("failed to write note %q: %w", saved.ID, err)
	}
	return &saved, nil
}

// GetNote reads a note by ID.
func (s *Store) GetNote(id string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readNote(id)
}

func (s *Store) readNote(id string) (*Note, error) {
	path, err := s.notePath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read note %q: %w", id, err)
	}
	var note Note
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, fmt.Errorf("failed to parse note %q: %w", id, err)
	}
	if note.ID == "" {
		note.ID = id
	}
	return &note, nil
}

// DeleteNote removes a note by ID.
func (s *Store) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.notePath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete note %q: %w", id, err)
	}
	return nil
}

// ListNotes returns summaries of all stored notes, most recently updated
// first.
func (s *Store) ListNotes() ([]NoteSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.notesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	var summaries []NoteSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		note, err := s.readNote(id)
		if err != nil {
			continue
		}
		summaries = append(summaries, NoteSummary{
			ID:        note.ID,
			Title:     note.Title,
			UpdatedAt: note.UpdatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (s *Store) conversationPath(id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.conversationsDir(), id+".json"), nil
}

// SaveConversation persists a conversation transcript. An empty ID is
// assigned a fresh one.
func (s *Store) SaveConversation(conv *Conversation) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeConversation(conv)
}

func (s *Store) writeConversation(conv *Conversation) (*Conversation, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}

	saved := *conv
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	} else if err := validateID(saved.ID); err != nil {
		return nil, err
	}
	if saved.StartedAt.IsZero() {
		saved.StartedAt = s.now()
	}

	if err := os.MkdirAll(s.conversationsDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create conversations directory: %w", err)
	}
	path, err := s.conversationPath(saved.ID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(&saved, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode conversation: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("failed to write conversation %q: %w", saved.ID, err)
	}
	return &saved, nil
}

// GetConversation reads a conversation by ID.
func (s *Store) GetConversation(id string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readConversation(id)
}

func (s *Store) readConversation(id string) (*Conversation, error) {
	path, err := s.conversationPath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation %q: %w", id, err)
	}
	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation %q: %w", id, err)
	}
	if conv.ID == "" {
		conv.ID = id
	}
	return &conv, nil
}

// AppendMessage adds a message to an existing conversation and persists it.
// The read-modify-write runs under the store lock.
func (s *Store) AppendMessage(id string, msg Message) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.readConversation(id)
	if err != nil {
		return nil, err
	}
	if msg.At.IsZero() {
		msg.At = s.now()
	}
	conv.Messages = append(conv.Messages, msg)
	return s.writeConversation(conv)
}

// ListConversations returns the IDs of all stored conversations.
func (s *Store) ListConversations() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.conversationsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
