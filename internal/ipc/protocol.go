package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus        CommandType = "GET_STATUS"
	CommandShow             CommandType = "SHOW"
	CommandHide             CommandType = "HIDE"
	CommandToggleVisibility CommandType = "TOGGLE_VISIBILITY"
	CommandToggleIncognito  CommandType = "TOGGLE_INCOGNITO"
	CommandMove             CommandType = "MOVE"
	CommandReload           CommandType = "RELOAD"
	CommandGetDisplays      CommandType = "GET_DISPLAYS"
	CommandListNotes        CommandType = "LIST_NOTES"
	CommandGetNote          CommandType = "GET_NOTE"
	CommandSaveNote         CommandType = "SAVE_NOTE"
	CommandDeleteNote       CommandType = "DELETE_NOTE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool   `json:"daemon_running"`
	State         string `json:"state"` // hidden, shown-normal, shown-incognito
	Visible       bool   `json:"visible"`
	Incognito     bool   `json:"incognito"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Display       string `json:"display"`
	ManualHold    bool   `json:"manual_hold"` // follow suppressed by a recent manual move
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// DisplayInfo represents information about a single display
type DisplayInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Active bool   `json:"active"` // display currently hosting the overlay
}

// DisplaysData represents the data returned by GET_DISPLAYS
type DisplaysData struct {
	Displays []DisplayInfo `json:"displays"`
}

// MovePayload represents the payload for the MOVE command
type MovePayload struct {
	Direction string `json:"direction"` // left, right, up, down
}

// SaveNotePayload represents the payload for SAVE_NOTE
type SaveNotePayload struct {
	ID    string `json:"id,omitempty"` // empty creates a new note
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NoteIDPayload addresses a stored note by ID for GET_NOTE and DELETE_NOTE
type NoteIDPayload struct {
	ID string `json:"id"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
