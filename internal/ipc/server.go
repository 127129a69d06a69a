package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/punyakrit/SmartCue/internal/geometry"
	"github.com/punyakrit/SmartCue/internal/notes"
	"github.com/punyakrit/SmartCue/internal/runtimepath"
)

// Controller is the daemon surface the IPC server drives. Implementations
// must be safe to call from connection goroutines; the daemon serializes
// the work onto its own loop.
type Controller interface {
	Status() StatusData
	Show() error
	Hide() error
	ToggleVisibility() error
	ToggleIncognito() error
	Move(dir geometry.Direction) error
	Reload() error
	Displays() (DisplaysData, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	store        *notes.Store
	logger       *slog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(ctrl Controller, store *notes.Store, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		store:      store,
		logger:     logger,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		resp, _ := NewOKResponse(s.ctrl.Status())
		return resp
	case CommandShow:
		return s.fromError(s.ctrl.Show())
	case CommandHide:
		return s.fromError(s.ctrl.Hide())
	case CommandToggleVisibility:
		return s.fromError(s.ctrl.ToggleVisibility())
	case CommandToggleIncognito:
		return s.fromError(s.ctrl.ToggleIncognito())
	case CommandMove:
		return s.handleMove(req.Payload)
	case CommandReload:
		return s.handleReload()
	case CommandGetDisplays:
		return s.handleGetDisplays()
	case CommandListNotes:
		return s.handleListNotes()
	case CommandGetNote:
		return s.handleGetNote(req.Payload)
	case CommandSaveNote:
		return s.handleSaveNote(req.Payload)
	case CommandDeleteNote:
		return s.handleDeleteNote(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleMove(payload json.RawMessage) *Response {
	var move MovePayload
	if err := json.Unmarshal(payload, &move); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}

	dir, err := geometry.ParseDirection(move.Direction)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	return s.fromError(s.ctrl.Move(dir))
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD command")
	return s.fromError(s.ctrl.Reload())
}

func (s *Server) handleGetDisplays() *Response {
	data, err := s.ctrl.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get displays: %v", err))
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleListNotes() *Response {
	summaries, err := s.store.ListNotes()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list notes: %v", err))
	}

	resp, _ := NewOKResponse(summaries)
	return resp
}

func (s *Server) handleGetNote(payload json.RawMessage) *Response {
	var ref NoteIDPayload
	if err := json.Unmarshal(payload, &ref); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid note payload: %v", err))
	}

	note, err := s.store.GetNote(ref.ID)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(note)
	return resp
}

func (s *Server) handleSaveNote(payload json.RawMessage) *Response {
	var save SaveNotePayload
	if err := json.Unmarshal(payload, &save); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid note payload: %v", err))
	}

	note, err := s.store.SaveNote(&notes.Note{
		ID:    save.ID,
		Title: save.Title,
		Body:  save.Body,
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(note)
	return resp
}

func (s *Server) handleDeleteNote(payload json.RawMessage) *Response {
	var ref NoteIDPayload
	if err := json.Unmarshal(payload, &ref); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid note payload: %v", err))
	}

	return s.fromError(s.store.DeleteNote(ref.ID))
}

func (s *Server) fromError(err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
