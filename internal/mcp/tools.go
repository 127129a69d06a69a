package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const maxMoveSteps = 20

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}

	return nil, GetStatusOutput{
		DaemonRunning: status.DaemonRunning,
		State:         status.State,
		Visible:       status.Visible,
		Incognito:     status.Incognito,
		X:             status.X,
		Y:             status.Y,
		Display:       status.Display,
		ManualHold:    status.ManualHold,
		UptimeSeconds: status.UptimeSeconds,
	}, nil
}

func (s *Server) stateOutput() (OverlayStateOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return OverlayStateOutput{}, err
	}
	return OverlayStateOutput{
		State:     status.State,
		Visible:   status.Visible,
		Incognito: status.Incognito,
	}, nil
}

func (s *Server) handleShowOverlay(_ context.Context, _ *mcpsdk.CallToolRequest, _ ShowOverlayInput) (*mcpsdk.CallToolResult, OverlayStateOutput, error) {
	if err := s.client.Show(); err != nil {
		return nil, OverlayStateOutput{}, err
	}
	out, err := s.stateOutput()
	return nil, out, err
}

func (s *Server) handleHideOverlay(_ context.Context, _ *mcpsdk.CallToolRequest, _ HideOverlayInput) (*mcpsdk.CallToolResult, OverlayStateOutput, error) {
	if err := s.client.Hide(); err != nil {
		return nil, OverlayStateOutput{}, err
	}
	out, err := s.stateOutput()
	return nil, out, err
}

func (s *Server) handleToggleIncognito(_ context.Context, _ *mcpsdk.CallToolRequest, _ ToggleIncognitoInput) (*mcpsdk.CallToolResult, OverlayStateOutput, error) {
	if err := s.client.ToggleIncognito(); err != nil {
		return nil, OverlayStateOutput{}, err
	}
	out, err := s.stateOutput()
	return nil, out, err
}

func (s *Server) handleMoveOverlay(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveOverlayInput) (*mcpsdk.CallToolResult, MoveOverlayOutput, error) {
	steps := args.Steps
	if steps <= 0 {
		steps = 1
	}
	if steps > maxMoveSteps {
		steps = maxMoveSteps
	}

	for i := 0; i < steps; i++ {
		if err := s.client.Move(args.Direction); err != nil {
			return nil, MoveOverlayOutput{}, err
		}
	}

	status, err := s.client.GetStatus()
	if err != nil {
		return nil, MoveOverlayOutput{}, err
	}
	return nil, MoveOverlayOutput{X: status.X, Y: status.Y}, nil
}

func (s *Server) handleSaveNote(_ context.Context, _ *mcpsdk.CallToolRequest, args SaveNoteInput) (*mcpsdk.CallToolResult, SaveNoteOutput, error) {
	if args.Body == "" && args.Title == "" {
		return nil, SaveNoteOutput{}, fmt.Errorf("note title or body is required")
	}

	note, err := s.client.SaveNote(args.ID, args.Title, args.Body)
	if err != nil {
		return nil, SaveNoteOutput{}, err
	}

	return nil, SaveNoteOutput{
		ID:        note.ID,
		Title:     note.Title,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *Server) handleGetNote(_ context.Context, _ *mcpsdk.CallToolRequest, args GetNoteInput) (*mcpsdk.CallToolResult, GetNoteOutput, error) {
	if args.ID == "" {
		return nil, GetNoteOutput{}, fmt.Errorf("note id is required")
	}

	note, err := s.client.GetNote(args.ID)
	if err != nil {
		return nil, GetNoteOutput{}, err
	}

	return nil, GetNoteOutput{
		ID:        note.ID,
		Title:     note.Title,
		Body:      note.Body,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *Server) handleListNotes(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListNotesInput) (*mcpsdk.CallToolResult, ListNotesOutput, error) {
	summaries, err := s.client.ListNotes()
	if err != nil {
		return nil, ListNotesOutput{}, err
	}

	out := ListNotesOutput{Notes: make([]NoteSummaryInfo, len(summaries))}
	for i, sum := range summaries {
		out.Notes[i] = NoteSummaryInfo{
			ID:        sum.ID,
			Title:     sum.Title,
			UpdatedAt: sum.UpdatedAt.Format(time.RFC3339),
		}
	}
	return nil, out, nil
}

func (s *Server) handleDeleteNote(_ context.Context, _ *mcpsdk.CallToolRequest, args DeleteNoteInput) (*mcpsdk.CallToolResult, DeleteNoteOutput, error) {
	if args.ID == "" {
		return nil, DeleteNoteOutput{}, fmt.Errorf("note id is required")
	}

	if err := s.client.DeleteNote(args.ID); err != nil {
		return nil, DeleteNoteOutput{}, err
	}
	return nil, DeleteNoteOutput{Deleted: true}, nil
}
