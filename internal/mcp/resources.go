// ABOUTME: MCP resource implementations for the coach store.
// ABOUTME: Provides coach://summary and coach://notes resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/coach/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	summaryURI = "coach://summary"
	notesURI   = "coach://notes"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Coach Summary",
		Description: "Trainer profile, row counts and the most recent notes and workouts",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         notesURI,
		Name:        "Trainer Notes",
		Description: "Every note written by the trainer, grouped by category",
		MIMEType:    "application/json",
	}, s.handleNotesResource)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	trainer, err := s.store.Users.Get(s.trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trainer: %w", err)
	}

	counts, err := s.store.Stats()
	if err != nil {
		return nil, err
	}

	notes, err := s.store.Notes.List(s.trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	if len(notes) > 5 {
		notes = notes[:5]
	}

	workouts, err := s.store.Workouts.List(s.trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	if len(workouts) > 5 {
		workouts = workouts[:5]
	}

	result := map[string]interface{}{
		"trainer":        trainer,
		"counts":         counts,
		"recentNotes":    notes,
		"recentWorkouts": workouts,
	}
	return jsonResource(summaryURI, result)
}

func (s *Server) handleNotesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	notes, err := s.store.Notes.List(s.trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	grouped := make(map[models.NoteCategory][]*models.TrainerNote)
	for _, c := range models.AllNoteCategories() {
		grouped[c] = []*models.TrainerNote{}
	}
	for _, n := range notes {
		grouped[n.Category] = append(grouped[n.Category], n)
	}
	return jsonResource(notesURI, grouped)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
