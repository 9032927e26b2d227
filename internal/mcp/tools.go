// ABOUTME: MCP tool implementations for the coach store.
// ABOUTME: Exposes trainer, note, client, workout and session operations.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/coach/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_trainer",
		Description: "Get the trainer profile this server acts for",
	}, s.handleGetTrainer)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_note",
		Description: "Save a coaching note (exercise, nutrition, philosophy, technique, other)",
	}, s.handleAddNote)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_notes",
		Description: "List the trainer's notes, most recently updated first, optionally filtered by category",
	}, s.handleListNotes)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_note",
		Description: "Change fields of an existing note; omitted fields are left as they are",
	}, s.handleUpdateNote)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_note",
		Description: "Delete a note by ID",
	}, s.handleDeleteNote)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_client",
		Description: "Add a client to the trainer's roster",
	}, s.handleAddClient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_clients",
		Description: "List the trainer's clients by name",
	}, s.handleListClients)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_workout",
		Description: "Create a workout plan or template, optionally assigned to a client",
	}, s.handleAddWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workouts for the trainer, a client, or templates only",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "schedule_session",
		Description: "Schedule a workout session for a client on a date",
	}, s.handleScheduleSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List a client's sessions by scheduled date",
	}, s.handleListSessions)
}

// Tool input/output types

type emptyInput struct{}

type simpleOutput struct {
	Message string `json:"message"`
}

type trainerOutput struct {
	Trainer *models.User `json:"trainer"`
}

type addNoteInput struct {
	Title    string   `json:"title" jsonschema:"Short title of the note"`
	Content  string   `json:"content" jsonschema:"Body of the note"`
	Category string   `json:"category,omitempty" jsonschema:"One of exercise, nutrition, philosophy, technique, other (default other)"`
	Tags     []string `json:"tags,omitempty" jsonschema:"Free-form tags"`
	IsPublic bool     `json:"is_public,omitempty" jsonschema:"Whether the note may be shared"`
}

type noteOutput struct {
	Note    *models.TrainerNote `json:"note"`
	Message string              `json:"message"`
}

type listNotesInput struct {
	Category string `json:"category,omitempty" jsonschema:"Only return notes in this category"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type notesOutput struct {
	Notes []*models.TrainerNote `json:"notes"`
	Count int                   `json:"count"`
}

type updateNoteInput struct {
	ID       string   `json:"id" jsonschema:"Note ID"`
	Title    *string  `json:"title,omitempty" jsonschema:"New title"`
	Content  *string  `json:"content,omitempty" jsonschema:"New content"`
	Category *string  `json:"category,omitempty" jsonschema:"New category"`
	Tags     []string `json:"tags,omitempty" jsonschema:"Replacement tags"`
	IsPublic *bool    `json:"is_public,omitempty" jsonschema:"New sharing flag"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Record ID"`
}

type addClientInput struct {
	Name         string   `json:"name" jsonschema:"Client's full name"`
	Email        string   `json:"email,omitempty" jsonschema:"Contact email"`
	Phone        string   `json:"phone,omitempty" jsonschema:"Contact phone"`
	Restrictions []string `json:"restrictions,omitempty" jsonschema:"Injuries or limitations to respect"`
}

type clientOutput struct {
	Client  *models.Client `json:"client"`
	Message string         `json:"message"`
}

type clientsOutput struct {
	Clients []*models.Client `json:"clients"`
	Count   int              `json:"count"`
}

type addWorkoutInput struct {
	Name       string              `json:"name" jsonschema:"Workout name"`
	Type       string              `json:"type" jsonschema:"One of strength, cardio, mixed, flexibility, recovery"`
	Difficulty string              `json:"difficulty,omitempty" jsonschema:"One of beginner, intermediate, advanced (default beginner)"`
	ClientID   string              `json:"client_id,omitempty" jsonschema:"Assign to this client"`
	Duration   int                 `json:"duration_minutes,omitempty" jsonschema:"Estimated duration in minutes"`
	Exercises  []models.WorkoutSet `json:"exercises,omitempty" jsonschema:"Main block of exercises"`
	Tags       []string            `json:"tags,omitempty" jsonschema:"Free-form tags"`
	Template   bool                `json:"is_template,omitempty" jsonschema:"Save as a reusable template"`
}

type workoutOutput struct {
	Workout *models.Workout `json:"workout"`
	Message string          `json:"message"`
}

type listWorkoutsInput struct {
	ClientID  string `json:"client_id,omitempty" jsonschema:"Only workouts assigned to this client"`
	Templates bool   `json:"templates,omitempty" jsonschema:"Only templates"`
}

type workoutsOutput struct {
	Workouts []*models.Workout `json:"workouts"`
	Count    int               `json:"count"`
}

type scheduleSessionInput struct {
	WorkoutID     string `json:"workout_id" jsonschema:"Workout to run"`
	ClientID      string `json:"client_id" jsonschema:"Client doing the workout"`
	ScheduledDate string `json:"scheduled_date" jsonschema:"Date as YYYY-MM-DD"`
	Notes         string `json:"notes,omitempty" jsonschema:"Session notes"`
}

type sessionOutput struct {
	Session *models.WorkoutSession `json:"session"`
	Message string                 `json:"message"`
}

type listSessionsInput struct {
	ClientID string `json:"client_id" jsonschema:"Client whose sessions to list"`
}

type sessionsOutput struct {
	Sessions []*models.WorkoutSession `json:"sessions"`
	Count    int                      `json:"count"`
}

// Tool handlers

func (s *Server) handleGetTrainer(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, trainerOutput, error) {
	u, err := s.store.Users.Get(s.trainerID)
	if err != nil {
		return nil, trainerOutput{}, fmt.Errorf("failed to get trainer: %w", err)
	}
	if u == nil {
		return nil, trainerOutput{}, fmt.Errorf("trainer not found: %s", s.trainerID)
	}
	return nil, trainerOutput{Trainer: u}, nil
}

func (s *Server) handleAddNote(ctx context.Context, req *mcp.CallToolRequest, input addNoteInput) (*mcp.CallToolResult, noteOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, noteOutput{}, fmt.Errorf("title is required")
	}
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, noteOutput{}, err
	}

	n := models.NewNote(s.trainerID, input.Title, input.Content, category).
		WithTags(input.Tags...).
		WithPublic(input.IsPublic)

	id, err := s.store.Notes.Create(n)
	if err != nil {
		return nil, noteOutput{}, fmt.Errorf("failed to create note: %w", err)
	}
	saved, err := s.store.Notes.Get(id)
	if err != nil {
		return nil, noteOutput{}, fmt.Errorf("failed to read note: %w", err)
	}

	return nil, noteOutput{
		Note:    saved,
		Message: fmt.Sprintf("Added %s note %q (ID: %s)", category, input.Title, id),
	}, nil
}

func (s *Server) handleListNotes(ctx context.Context, req *mcp.CallToolRequest, input listNotesInput) (*mcp.CallToolResult, notesOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	notes, err := s.store.Notes.List(s.trainerID)
	if err != nil {
		return nil, notesOutput{}, fmt.Errorf("failed to list notes: %w", err)
	}

	out := make([]*models.TrainerNote, 0, len(notes))
	for _, n := range notes {
		if input.Category != "" && string(n.Category) != input.Category {
			continue
		}
		out = append(out, n)
		if len(out) == input.Limit {
			break
		}
	}

	return nil, notesOutput{Notes: out, Count: len(out)}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, req *mcp.CallToolRequest, input updateNoteInput) (*mcp.CallToolResult, noteOutput, error) {
	existing, err := s.store.Notes.Get(input.ID)
	if err != nil {
		return nil, noteOutput{}, fmt.Errorf("failed to get note: %w", err)
	}
	if existing == nil || existing.TrainerID != s.trainerID {
		return nil, noteOutput{}, fmt.Errorf("note not found: %s", input.ID)
	}

	var p models.NotePatch
	if input.Title != nil {
		p.Title = models.Some(*input.Title)
	}
	if input.Content != nil {
		p.Content = models.Some(*input.Content)
	}
	if input.Category != nil {
		category, err := parseCategory(*input.Category)
		if err != nil {
			return nil, noteOutput{}, err
		}
		p.Category = models.Some(category)
	}
	if input.Tags != nil {
		p.Tags = models.Some(models.Strings(input.Tags...))
	}
	if input.IsPublic != nil {
		p.IsPublic = models.Some(*input.IsPublic)
	}

	if err := s.store.Notes.Update(input.ID, p); err != nil {
		return nil, noteOutput{}, fmt.Errorf("failed to update note: %w", err)
	}
	saved, err := s.store.Notes.Get(input.ID)
	if err != nil {
		return nil, noteOutput{}, fmt.Errorf("failed to read note: %w", err)
	}

	return nil, noteOutput{Note: saved, Message: fmt.Sprintf("Updated note: %s", input.ID)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	existing, err := s.store.Notes.Get(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to get note: %w", err)
	}
	if existing == nil || existing.TrainerID != s.trainerID {
		return nil, simpleOutput{}, fmt.Errorf("note not found: %s", input.ID)
	}

	if err := s.store.Notes.Delete(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete note: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted note: %s", input.ID)}, nil
}

func (s *Server) handleAddClient(ctx context.Context, req *mcp.CallToolRequest, input addClientInput) (*mcp.CallToolResult, clientOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, clientOutput{}, fmt.Errorf("name is required")
	}

	c := models.NewClient(s.trainerID, input.Name).WithRestrictions(input.Restrictions...)
	if input.Email != "" {
		c.WithEmail(input.Email)
	}
	if input.Phone != "" {
		c.WithPhone(input.Phone)
	}

	id, err := s.store.Clients.Create(c)
	if err != nil {
		return nil, clientOutput{}, fmt.Errorf("failed to create client: %w", err)
	}
	saved, err := s.store.Clients.Get(id)
	if err != nil {
		return nil, clientOutput{}, fmt.Errorf("failed to read client: %w", err)
	}

	return nil, clientOutput{Client: saved, Message: fmt.Sprintf("Added client %s (ID: %s)", input.Name, id)}, nil
}

func (s *Server) handleListClients(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, clientsOutput, error) {
	clients, err := s.store.Clients.List(s.trainerID)
	if err != nil {
		return nil, clientsOutput{}, fmt.Errorf("failed to list clients: %w", err)
	}
	return nil, clientsOutput{Clients: clients, Count: len(clients)}, nil
}

func (s *Server) handleAddWorkout(ctx context.Context, req *mcp.CallToolRequest, input addWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, workoutOutput{}, fmt.Errorf("name is required")
	}
	wt := models.WorkoutType(input.Type)
	if !wt.IsValid() {
		return nil, workoutOutput{}, fmt.Errorf("unknown workout type: %s", input.Type)
	}
	difficulty := models.DifficultyBeginner
	if input.Difficulty != "" {
		difficulty = models.Difficulty(input.Difficulty)
		if !difficulty.IsValid() {
			return nil, workoutOutput{}, fmt.Errorf("unknown difficulty: %s", input.Difficulty)
		}
	}

	w := models.NewWorkout(s.trainerID, input.Name, wt, difficulty).
		WithExercises(input.Exercises...).
		WithTags(input.Tags...)
	if input.ClientID != "" {
		w.ForClient(input.ClientID)
	}
	if input.Duration > 0 {
		w.WithDuration(input.Duration)
	}
	if input.Template {
		w.AsTemplate()
	}

	id, err := s.store.Workouts.Create(w)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to create workout: %w", err)
	}
	saved, err := s.store.Workouts.Get(id)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to read workout: %w", err)
	}

	return nil, workoutOutput{Workout: saved, Message: fmt.Sprintf("Added %s workout %q (ID: %s)", wt, input.Name, id)}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, workoutsOutput, error) {
	var (
		workouts []*models.Workout
		err      error
	)
	switch {
	case input.Templates:
		workouts, err = s.store.Workouts.ListTemplates(s.trainerID)
	case input.ClientID != "":
		workouts, err = s.store.Workouts.ListByClient(input.ClientID)
	default:
		workouts, err = s.store.Workouts.List(s.trainerID)
	}
	if err != nil {
		return nil, workoutsOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}
	return nil, workoutsOutput{Workouts: workouts, Count: len(workouts)}, nil
}

func (s *Server) handleScheduleSession(ctx context.Context, req *mcp.CallToolRequest, input scheduleSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	if _, err := time.Parse("2006-01-02", input.ScheduledDate); err != nil {
		return nil, sessionOutput{}, fmt.Errorf("scheduled_date must be YYYY-MM-DD: %s", input.ScheduledDate)
	}

	ws := models.NewSession(input.WorkoutID, input.ClientID, input.ScheduledDate)
	if input.Notes != "" {
		ws.WithNotes(input.Notes)
	}

	id, err := s.store.Sessions.Create(ws)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to schedule session: %w", err)
	}
	saved, err := s.store.Sessions.Get(id)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to read session: %w", err)
	}

	return nil, sessionOutput{Session: saved, Message: fmt.Sprintf("Scheduled session on %s (ID: %s)", input.ScheduledDate, id)}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, sessionsOutput, error) {
	sessions, err := s.store.Sessions.List(input.ClientID)
	if err != nil {
		return nil, sessionsOutput{}, fmt.Errorf("failed to list sessions: %w", err)
	}
	return nil, sessionsOutput{Sessions: sessions, Count: len(sessions)}, nil
}

func parseCategory(name string) (models.NoteCategory, error) {
	if name == "" {
		return models.CategoryOther, nil
	}
	c := models.NoteCategory(name)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category: %s", name)
	}
	return c, nil
}
