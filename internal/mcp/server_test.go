// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls tool and resource handlers directly against a temp store.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// setupTestServer creates a seeded store in a temp directory and a server on it.
func setupTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()

	store := storage.New(filepath.Join(t.TempDir(), "coach.db"))
	if err := store.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	trainerID, err := storage.EnsureDefaultTrainer(store)
	if err != nil {
		t.Fatalf("EnsureDefaultTrainer failed: %v", err)
	}

	server, err := NewServer(store, trainerID, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, store
}

func mustAddClient(t *testing.T, s *Server, name string) string {
	t.Helper()

	_, out, err := s.handleAddClient(context.Background(), &mcp.CallToolRequest{}, addClientInput{Name: name})
	if err != nil {
		t.Fatalf("add client: %v", err)
	}
	return out.Client.ID
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.trainerID != storage.DefaultTrainerID {
		t.Errorf("trainerID = %q", server.trainerID)
	}
}

func TestNewServerRequiresReadyStore(t *testing.T) {
	store := storage.New(filepath.Join(t.TempDir(), "coach.db"))
	if _, err := NewServer(store, storage.DefaultTrainerID, zerolog.Nop()); err != storage.ErrNotInitialized {
		t.Errorf("NewServer on closed store: err = %v", err)
	}

	_, ready := setupTestServer(t)
	if _, err := NewServer(ready, "", zerolog.Nop()); err == nil {
		t.Error("Expected error for empty trainer id")
	}
}

func TestHandleGetTrainer(t *testing.T) {
	server, _ := setupTestServer(t)

	_, out, err := server.handleGetTrainer(context.Background(), &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Trainer.Name != "Demo Trainer" {
		t.Errorf("Name = %q", out.Trainer.Name)
	}
	if len(out.Trainer.Specialties) != 2 {
		t.Errorf("Specialties = %v", out.Trainer.Specialties)
	}
}

func TestHandleAddNote(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addNoteInput
		wantCat   models.NoteCategory
		wantErr   bool
		errSubstr string
	}{
		{
			name:    "technique note",
			input:   addNoteInput{Title: "Brace", Content: "Breathe into the belt.", Category: "technique", Tags: []string{"squat"}},
			wantCat: models.CategoryTechnique,
		},
		{
			name:    "default category",
			input:   addNoteInput{Title: "Misc", Content: "Anything."},
			wantCat: models.CategoryOther,
		},
		{
			name:      "unknown category",
			input:     addNoteInput{Title: "Bad", Content: "x", Category: "gossip"},
			wantErr:   true,
			errSubstr: "unknown category",
		},
		{
			name:      "missing title",
			input:     addNoteInput{Content: "x"},
			wantErr:   true,
			errSubstr: "title is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleAddNote(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Note.ID == "" {
				t.Error("Expected non-empty ID")
			}
			if out.Note.Category != tt.wantCat {
				t.Errorf("Category = %s, want %s", out.Note.Category, tt.wantCat)
			}
			if out.Note.Tags == nil {
				t.Error("Expected non-nil tags")
			}
			if out.Message == "" {
				t.Error("Expected non-empty Message")
			}
		})
	}
}

func TestHandleListNotes(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	for _, in := range []addNoteInput{
		{Title: "One", Content: "a", Category: "exercise"},
		{Title: "Two", Content: "b", Category: "nutrition"},
		{Title: "Three", Content: "c", Category: "exercise"},
	} {
		if _, _, err := server.handleAddNote(ctx, &mcp.CallToolRequest{}, in); err != nil {
			t.Fatalf("add note: %v", err)
		}
	}

	tests := []struct {
		name  string
		input listNotesInput
		want  int
	}{
		{"all", listNotesInput{}, 3},
		{"limit", listNotesInput{Limit: 2}, 2},
		{"by category", listNotesInput{Category: "exercise"}, 2},
		{"empty category", listNotesInput{Category: "philosophy"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleListNotes(ctx, &mcp.CallToolRequest{}, tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Count != tt.want || len(out.Notes) != tt.want {
				t.Errorf("Count = %d, want %d", out.Count, tt.want)
			}
			if out.Notes == nil {
				t.Error("Expected non-nil notes slice")
			}
		})
	}
}

func TestHandleUpdateNote(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, added, err := server.handleAddNote(ctx, &mcp.CallToolRequest{}, addNoteInput{Title: "Old", Content: "keep me", Tags: []string{"a"}})
	if err != nil {
		t.Fatalf("add note: %v", err)
	}

	title := "New"
	public := true
	_, out, err := server.handleUpdateNote(ctx, &mcp.CallToolRequest{}, updateNoteInput{
		ID:       added.Note.ID,
		Title:    &title,
		IsPublic: &public,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Note.Title != "New" || !out.Note.IsPublic {
		t.Errorf("update not applied: %+v", out.Note)
	}
	if out.Note.Content != "keep me" || len(out.Note.Tags) != 1 {
		t.Errorf("untouched fields changed: %+v", out.Note)
	}

	bad := "gossip"
	if _, _, err := server.handleUpdateNote(ctx, &mcp.CallToolRequest{}, updateNoteInput{ID: added.Note.ID, Category: &bad}); err == nil {
		t.Error("Expected error for unknown category")
	}
	if _, _, err := server.handleUpdateNote(ctx, &mcp.CallToolRequest{}, updateNoteInput{ID: "missing", Title: &title}); err == nil {
		t.Error("Expected error for missing note")
	}
}

func TestHandleDeleteNote(t *testing.T) {
	server, store := setupTestServer(t)
	ctx := context.Background()

	_, added, err := server.handleAddNote(ctx, &mcp.CallToolRequest{}, addNoteInput{Title: "Gone", Content: "soon"})
	if err != nil {
		t.Fatalf("add note: %v", err)
	}

	if _, out, err := server.handleDeleteNote(ctx, &mcp.CallToolRequest{}, idInput{ID: added.Note.ID}); err != nil || out.Message == "" {
		t.Fatalf("delete: out=%+v err=%v", out, err)
	}

	n, err := store.Notes.Get(added.Note.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if n != nil {
		t.Error("Expected note to be deleted")
	}

	if _, _, err := server.handleDeleteNote(ctx, &mcp.CallToolRequest{}, idInput{ID: added.Note.ID}); err == nil {
		t.Error("Expected error deleting a missing note")
	}
}

func TestHandleClients(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, added, err := server.handleAddClient(ctx, &mcp.CallToolRequest{}, addClientInput{
		Name:         "Zoe",
		Email:        "zoe@example.com",
		Restrictions: []string{"knee"},
	})
	if err != nil {
		t.Fatalf("add client: %v", err)
	}
	if added.Client.Email == nil || *added.Client.Email != "zoe@example.com" {
		t.Errorf("Email = %v", added.Client.Email)
	}
	if added.Client.Phone != nil {
		t.Errorf("Phone = %v, want nil", *added.Client.Phone)
	}
	mustAddClient(t, server, "Adam")

	if _, _, err := server.handleAddClient(ctx, &mcp.CallToolRequest{}, addClientInput{Name: "  "}); err == nil {
		t.Error("Expected error for blank name")
	}

	_, out, err := server.handleListClients(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
	if out.Clients[0].Name != "Adam" || out.Clients[1].Name != "Zoe" {
		t.Errorf("clients not ordered by name: %s, %s", out.Clients[0].Name, out.Clients[1].Name)
	}
}

func TestHandleWorkouts(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	clientID := mustAddClient(t, server, "Ana")

	reps := 5
	inputs := []addWorkoutInput{
		{Name: "Lower A", Type: "strength", ClientID: clientID, Duration: 45, Exercises: []models.WorkoutSet{{ExerciseID: "squat", Sets: 5, Reps: &reps}}},
		{Name: "Easy Run", Type: "cardio", Difficulty: "intermediate", Template: true},
	}
	for _, in := range inputs {
		_, out, err := server.handleAddWorkout(ctx, &mcp.CallToolRequest{}, in)
		if err != nil {
			t.Fatalf("add workout %s: %v", in.Name, err)
		}
		if out.Workout.Warmup == nil || out.Workout.Cooldown == nil {
			t.Error("Expected empty warmup and cooldown lists")
		}
	}

	tests := []struct {
		name  string
		input listWorkoutsInput
		want  []string
	}{
		{"all", listWorkoutsInput{}, []string{"Easy Run", "Lower A"}},
		{"templates", listWorkoutsInput{Templates: true}, []string{"Easy Run"}},
		{"by client", listWorkoutsInput{ClientID: clientID}, []string{"Lower A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleListWorkouts(ctx, &mcp.CallToolRequest{}, tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Count != len(tt.want) {
				t.Fatalf("Count = %d, want %d", out.Count, len(tt.want))
			}
			for i, name := range tt.want {
				if out.Workouts[i].Name != name {
					t.Errorf("workouts[%d] = %s, want %s", i, out.Workouts[i].Name, name)
				}
			}
		})
	}
}

func TestHandleAddWorkoutValidation(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addWorkoutInput
		errSubstr string
	}{
		{"missing name", addWorkoutInput{Type: "strength"}, "name is required"},
		{"bad type", addWorkoutInput{Name: "x", Type: "yoga-nidra"}, "unknown workout type"},
		{"bad difficulty", addWorkoutInput{Name: "x", Type: "cardio", Difficulty: "elite"}, "unknown difficulty"},
		{"missing client", addWorkoutInput{Name: "x", Type: "cardio", ClientID: "nobody"}, "failed to create workout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := server.handleAddWorkout(ctx, &mcp.CallToolRequest{}, tt.input)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestHandleSessions(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()
	clientID := mustAddClient(t, server, "Ana")

	_, w, err := server.handleAddWorkout(ctx, &mcp.CallToolRequest{}, addWorkoutInput{Name: "Lower A", Type: "strength", ClientID: clientID})
	if err != nil {
		t.Fatalf("add workout: %v", err)
	}

	for _, date := range []string{"2024-06-08", "2024-06-01"} {
		_, out, err := server.handleScheduleSession(ctx, &mcp.CallToolRequest{}, scheduleSessionInput{
			WorkoutID:     w.Workout.ID,
			ClientID:      clientID,
			ScheduledDate: date,
		})
		if err != nil {
			t.Fatalf("schedule %s: %v", date, err)
		}
		if out.Session.Status != models.SessionScheduled {
			t.Errorf("Status = %s", out.Session.Status)
		}
	}

	if _, _, err := server.handleScheduleSession(ctx, &mcp.CallToolRequest{}, scheduleSessionInput{
		WorkoutID: w.Workout.ID, ClientID: clientID, ScheduledDate: "next tuesday",
	}); err == nil {
		t.Error("Expected error for bad date")
	}
	if _, _, err := server.handleScheduleSession(ctx, &mcp.CallToolRequest{}, scheduleSessionInput{
		WorkoutID: "missing", ClientID: clientID, ScheduledDate: "2024-06-15",
	}); err == nil {
		t.Error("Expected error for missing workout")
	}

	_, out, err := server.handleListSessions(ctx, &mcp.CallToolRequest{}, listSessionsInput{ClientID: clientID})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
	if out.Sessions[0].ScheduledDate != "2024-06-01" {
		t.Errorf("first session = %s, want 2024-06-01", out.Sessions[0].ScheduledDate)
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleAddNote(ctx, &mcp.CallToolRequest{}, addNoteInput{Title: "Hinge", Content: "x"}); err != nil {
		t.Fatalf("add note: %v", err)
	}
	mustAddClient(t, server, "Ana")

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != summaryURI {
		t.Fatalf("unexpected contents: %+v", result.Contents)
	}

	var summary struct {
		Trainer     models.User           `json:"trainer"`
		Counts      storage.Counts        `json:"counts"`
		RecentNotes []*models.TrainerNote `json:"recentNotes"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &summary); err != nil {
		t.Fatalf("summary is not JSON: %v", err)
	}
	if summary.Trainer.ID != storage.DefaultTrainerID {
		t.Errorf("trainer = %q", summary.Trainer.ID)
	}
	want := storage.Counts{Users: 1, Notes: 1, Clients: 1}
	if summary.Counts != want {
		t.Errorf("counts = %+v, want %+v", summary.Counts, want)
	}
	if len(summary.RecentNotes) != 1 {
		t.Errorf("recent notes = %d", len(summary.RecentNotes))
	}
}

func TestHandleNotesResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleAddNote(ctx, &mcp.CallToolRequest{}, addNoteInput{Title: "Protein", Content: "x", Category: "nutrition"}); err != nil {
		t.Fatalf("add note: %v", err)
	}

	result, err := server.handleNotesResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var grouped map[string][]*models.TrainerNote
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &grouped); err != nil {
		t.Fatalf("notes resource is not JSON: %v", err)
	}
	if len(grouped) != len(models.AllNoteCategories()) {
		t.Errorf("categories = %d", len(grouped))
	}
	if len(grouped["nutrition"]) != 1 || len(grouped["exercise"]) != 0 {
		t.Errorf("grouping wrong: %+v", grouped)
	}
}
