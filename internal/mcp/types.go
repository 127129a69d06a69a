package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	DaemonRunning bool   `json:"daemon_running"`
	State         string `json:"state"`
	Visible       bool   `json:"visible"`
	Incognito     bool   `json:"incognito"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Display       string `json:"display"`
	ManualHold    bool   `json:"manual_hold"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ShowOverlayInput is the input for the show_overlay tool.
type ShowOverlayInput struct{}

// HideOverlayInput is the input for the hide_overlay tool.
type HideOverlayInput struct{}

// ToggleIncognitoInput is the input for the toggle_incognito tool.
type ToggleIncognitoInput struct{}

// OverlayStateOutput reports the overlay state after a mutation.
type OverlayStateOutput struct {
	State     string `json:"state"`
	Visible   bool   `json:"visible"`
	Incognito bool   `json:"incognito"`
}

// MoveOverlayInput is the input for the move_overlay tool.
type MoveOverlayInput struct {
	Direction string `json:"direction" jsonschema:"required,Direction to move the overlay: left, right, up, or down"`
	Steps     int    `json:"steps,omitempty" jsonschema:"Number of steps to move (default: 1, max: 20)"`
}

// MoveOverlayOutput is the output for the move_overlay tool.
type MoveOverlayOutput struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SaveNoteInput is the input for the save_note tool.
type SaveNoteInput struct {
	ID    string `json:"id,omitempty" jsonschema:"Existing note ID to update; omit to create a new note"`
	Title string `json:"title,omitempty" jsonschema:"Note title"`
	Body  string `json:"body" jsonschema:"required,Note body text"`
}

// SaveNoteOutput is the output for the save_note tool.
type SaveNoteOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// GetNoteInput is the input for the get_note tool.
type GetNoteInput struct {
	ID string `json:"id" jsonschema:"required,ID of the note to fetch"`
}

// GetNoteOutput is the output for the get_note tool.
type GetNoteOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListNotesInput is the input for the list_notes tool.
type ListNotesInput struct{}

// NoteSummaryInfo describes one stored note in a listing.
type NoteSummaryInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
}

// ListNotesOutput is the output for the list_notes tool.
type ListNotesOutput struct {
	Notes []NoteSummaryInfo `json:"notes"`
}

// DeleteNoteInput is the input for the delete_note tool.
type DeleteNoteInput struct {
	ID string `json:"id" jsonschema:"required,ID of the note to delete"`
}

// DeleteNoteOutput is the output for the delete_note tool.
type DeleteNoteOutput struct {
	Deleted bool `json:"deleted"`
}
