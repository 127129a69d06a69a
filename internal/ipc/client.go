package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/punyakrit/SmartCue/internal/notes"
	"github.com/punyakrit/SmartCue/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// Show makes the overlay visible.
func (c *Client) Show() error {
	_, err := c.sendRequest(&Request{Command: CommandShow})
	return err
}

// Hide conceals the overlay.
func (c *Client) Hide() error {
	_, err := c.sendRequest(&Request{Command: CommandHide})
	return err
}

// ToggleVisibility flips the overlay between shown and hidden.
func (c *Client) ToggleVisibility() error {
	_, err := c.sendRequest(&Request{Command: CommandToggleVisibility})
	return err
}

// ToggleIncognito flips the capture-invisible mode.
func (c *Client) ToggleIncognito() error {
	_, err := c.sendRequest(&Request{Command: CommandToggleIncognito})
	return err
}

// Move nudges the overlay one step in the given direction.
func (c *Client) Move(direction string) error {
	payload, err := json.Marshal(MovePayload{Direction: direction})
	if err != nil {
		return fmt.Errorf("failed to marshal move payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandMove, Payload: payload})
	return err
}

// Reload asks the daemon to reload its configuration
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// GetDisplays retrieves display information
func (c *Client) GetDisplays() (*DisplaysData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetDisplays})
	if err != nil {
		return nil, err
	}

	var data DisplaysData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse displays data: %w", err)
	}

	return &data, nil
}

// ListNotes retrieves summaries of stored notes.
func (c *Client) ListNotes() ([]notes.NoteSummary, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListNotes})
	if err != nil {
		return nil, err
	}

	var summaries []notes.NoteSummary
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &summaries); err != nil {
			return nil, fmt.Errorf("failed to parse notes data: %w", err)
		}
	}
	return summaries, nil
}

// GetNote retrieves a single note by ID.
func (c *Client) GetNote(id string) (*notes.Note, error) {
	payload, err := json.Marshal(NoteIDPayload{ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal note payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandGetNote, Payload: payload})
	if err != nil {
		return nil, err
	}

	var note notes.Note
	if err := json.Unmarshal(resp.Data, &note); err != nil {
		return nil, fmt.Errorf("failed to parse note data: %w", err)
	}
	return &note, nil
}

// SaveNote creates or updates a note and returns the stored record.
func (c *Client) SaveNote(id, title, body string) (*notes.Note, error) {
	payload, err := json.Marshal(SaveNotePayload{ID: id, Title: title, Body: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal note payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandSaveNote, Payload: payload})
	if err != nil {
		return nil, err
	}

	var note notes.Note
	if err := json.Unmarshal(resp.Data, &note); err != nil {
		return nil, fmt.Errorf("failed to parse note data: %w", err)
	}
	return &note, nil
}

// DeleteNote removes a note by ID.
func (c *Client) DeleteNote(id string) error {
	payload, err := json.Marshal(NoteIDPayload{ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal note payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandDeleteNote, Payload: payload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
