// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands through rootCmd against a temp database.
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/coach/internal/charm"
	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string no truncation", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world this is a long string", 10, "hello w..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	if rootCmd.Use != "coach" {
		t.Errorf("rootCmd.Use = %q, want coach", rootCmd.Use)
	}
	if rootCmd.PersistentFlags().Lookup("db") == nil {
		t.Error("Expected --db persistent flag")
	}

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"init", "trainer", "note", "client", "workout", "goal", "reset", "export", "import", "migrate", "sync", "mcp"} {
		if !names[want] {
			t.Errorf("Expected %q command to be registered", want)
		}
	}
}

func TestNoteCmdSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range noteCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"add", "list", "update", "delete"} {
		if !names[want] {
			t.Errorf("Expected note %s subcommand", want)
		}
	}
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// setupTestCLI points config and data at a temp dir and returns the db path.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	return filepath.Join(tmpDir, "coach.db")
}

func runCLI(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--db", path}, args...))

	err := rootCmd.Execute()
	if closeErr := shutdown(); closeErr != nil {
		t.Fatalf("shutdown: %v", closeErr)
	}
	return buf.String(), err
}

// openTestStore opens the CLI's database directly for assertions.
func openTestStore(t *testing.T, path string) *storage.Store {
	t.Helper()

	s := storage.New(path)
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestInitCmd(t *testing.T) {
	path := setupTestCLI(t)

	out, err := runCLI(t, path, "init")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out, path) || !strings.Contains(out, storage.DefaultTrainerID) {
		t.Errorf("unexpected output: %s", out)
	}

	if _, err := runCLI(t, path, "init"); err != nil {
		t.Fatalf("second init failed: %v", err)
	}

	users, err := openTestStore(t, path).Users.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected 1 user after two inits, got %d", len(users))
	}
}

func TestTrainerShowCmd(t *testing.T) {
	path := setupTestCLI(t)

	out, err := runCLI(t, path, "trainer", "show")
	if err != nil {
		t.Fatalf("trainer show failed: %v", err)
	}
	for _, want := range []string{"Demo Trainer", "Strength Training, Weight Loss", "5 years"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNoteLifecycle(t *testing.T) {
	path := setupTestCLI(t)

	if _, err := runCLI(t, path, "note", "add", "Hinge first", "-c", "Teach the hinge", "--category", "technique", "--tags", "deadlift,hinge"); err != nil {
		t.Fatalf("note add failed: %v", err)
	}
	if _, err := runCLI(t, path, "note", "add", "Protein", "-c", "1.6 g/kg", "--category", "nutrition"); err != nil {
		t.Fatalf("note add failed: %v", err)
	}

	out, err := runCLI(t, path, "note", "list", "--category", "technique")
	if err != nil {
		t.Fatalf("note list failed: %v", err)
	}
	if !strings.Contains(out, "Hinge first") || strings.Contains(out, "Protein") {
		t.Errorf("category filter wrong:\n%s", out)
	}

	s := openTestStore(t, path)
	notes, err := s.Notes.List(storage.DefaultTrainerID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var hinge *models.TrainerNote
	for _, n := range notes {
		if n.Title == "Hinge first" {
			hinge = n
		}
	}
	if hinge == nil {
		t.Fatal("note not stored")
	}
	if len(hinge.Tags) != 2 {
		t.Errorf("Tags = %v", hinge.Tags)
	}
	_ = s.Close()

	if _, err := runCLI(t, path, "note", "update", hinge.ID, "--title", "Hinge before pulling"); err != nil {
		t.Fatalf("note update failed: %v", err)
	}
	s = openTestStore(t, path)
	updated, err := s.Notes.Get(hinge.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if updated.Title != "Hinge before pulling" || updated.Content != "Teach the hinge" || len(updated.Tags) != 2 {
		t.Errorf("update changed the wrong fields: %+v", updated)
	}
	_ = s.Close()

	if _, err := runCLI(t, path, "note", "delete", hinge.ID); err != nil {
		t.Fatalf("note delete failed: %v", err)
	}
	if _, err := runCLI(t, path, "note", "delete", hinge.ID); err == nil {
		t.Error("Expected error deleting a missing note")
	}
}

func TestNoteAddInvalidCategory(t *testing.T) {
	path := setupTestCLI(t)

	_, err := runCLI(t, path, "note", "add", "x", "--category", "gossip")
	if err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("Expected unknown category error, got %v", err)
	}
}

func TestNoteListEmpty(t *testing.T) {
	path := setupTestCLI(t)

	out, err := runCLI(t, path, "note", "list")
	if err != nil {
		t.Fatalf("note list failed: %v", err)
	}
	if !strings.Contains(out, "No notes found.") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestClientAndWorkoutCmds(t *testing.T) {
	path := setupTestCLI(t)

	if _, err := runCLI(t, path, "client", "add", "Ana Silva", "--email", "ana@example.com", "--restrictions", "left knee"); err != nil {
		t.Fatalf("client add failed: %v", err)
	}

	s := openTestStore(t, path)
	clients, err := s.Clients.List(storage.DefaultTrainerID)
	if err != nil || len(clients) != 1 {
		t.Fatalf("clients = %v, err = %v", clients, err)
	}
	clientID := clients[0].ID
	_ = s.Close()

	if _, err := runCLI(t, path, "workout", "add", "Lower A", "--type", "strength", "--client", clientID, "--duration", "45"); err != nil {
		t.Fatalf("workout add failed: %v", err)
	}
	if _, err := runCLI(t, path, "workout", "add", "Easy Run", "--type", "cardio", "--template"); err != nil {
		t.Fatalf("workout add template failed: %v", err)
	}

	out, err := runCLI(t, path, "workout", "list", "--templates")
	if err != nil {
		t.Fatalf("workout list failed: %v", err)
	}
	if !strings.Contains(out, "Easy Run") || strings.Contains(out, "Lower A") {
		t.Errorf("templates filter wrong:\n%s", out)
	}

	out, err = runCLI(t, path, "workout", "list")
	if err != nil {
		t.Fatalf("workout list failed: %v", err)
	}
	if !strings.Contains(out, "Easy Run") || !strings.Contains(out, "45 min") {
		t.Errorf("workout list missing rows:\n%s", out)
	}

	s = openTestStore(t, path)
	assigned, err := s.Workouts.ListByClient(clientID)
	if err != nil || len(assigned) != 1 {
		t.Fatalf("assigned = %v, err = %v", assigned, err)
	}
	workoutID := assigned[0].ID
	_ = s.Close()

	if _, err := runCLI(t, path, "workout", "schedule", workoutID, clientID, "2024-06-01", "--notes", "Go light"); err != nil {
		t.Fatalf("workout schedule failed: %v", err)
	}
	if _, err := runCLI(t, path, "workout", "schedule", workoutID, clientID, "June 1st"); err == nil {
		t.Error("Expected error for bad date")
	}

	out, err = runCLI(t, path, "workout", "sessions", clientID)
	if err != nil {
		t.Fatalf("workout sessions failed: %v", err)
	}
	if !strings.Contains(out, "2024-06-01") || !strings.Contains(out, "scheduled") {
		t.Errorf("sessions output:\n%s", out)
	}

	if _, err := runCLI(t, path, "client", "delete", clientID); err != nil {
		t.Fatalf("client delete failed: %v", err)
	}

	s = openTestStore(t, path)
	w, err := s.Workouts.Get(workoutID)
	if err != nil || w == nil {
		t.Fatalf("workout should survive client delete: %v", err)
	}
	if w.ClientID != nil {
		t.Errorf("ClientID = %v, want nil", *w.ClientID)
	}
	sessions, err := s.Sessions.List(clientID)
	if err != nil || len(sessions) != 0 {
		t.Errorf("sessions should cascade: %v, %v", sessions, err)
	}
}

func TestWorkoutAddInvalidType(t *testing.T) {
	path := setupTestCLI(t)

	_, err := runCLI(t, path, "workout", "add", "x", "--type", "zumba")
	if err == nil || !strings.Contains(err.Error(), "unknown workout type") {
		t.Errorf("Expected unknown workout type error, got %v", err)
	}
}

func TestWorkoutDeleteNotFound(t *testing.T) {
	path := setupTestCLI(t)

	if _, err := runCLI(t, path, "workout", "delete", "missing"); err == nil {
		t.Error("Expected error for missing workout")
	}
}

func TestGoalCmds(t *testing.T) {
	path := setupTestCLI(t)

	if _, err := runCLI(t, path, "client", "add", "Ana"); err != nil {
		t.Fatalf("client add failed: %v", err)
	}
	s := openTestStore(t, path)
	clients, _ := s.Clients.List(storage.DefaultTrainerID)
	clientID := clients[0].ID
	_ = s.Close()

	if _, err := runCLI(t, path, "goal", "add", clientID, "Deadlift bodyweight", "--type", "strength", "--target", "80", "--unit", "kg"); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}

	s = openTestStore(t, path)
	goals, err := s.Goals.List(clientID)
	if err != nil || len(goals) != 1 {
		t.Fatalf("goals = %v, err = %v", goals, err)
	}
	goalID := goals[0].ID
	_ = s.Close()

	if _, err := runCLI(t, path, "goal", "progress", goalID, "80"); err != nil {
		t.Fatalf("goal progress failed: %v", err)
	}

	out, err := runCLI(t, path, "goal", "list", clientID)
	if err != nil {
		t.Fatalf("goal list failed: %v", err)
	}
	if !strings.Contains(out, "completed") || !strings.Contains(out, "80/80 kg") {
		t.Errorf("goal list output:\n%s", out)
	}

	if _, err := runCLI(t, path, "goal", "add", clientID, "x", "--priority", "urgent"); err == nil {
		t.Error("Expected check constraint error for bad priority")
	}
}

func TestResetCmd(t *testing.T) {
	path := setupTestCLI(t)

	if _, err := runCLI(t, path, "client", "add", "Ana"); err != nil {
		t.Fatalf("client add failed: %v", err)
	}

	if _, err := runCLI(t, path, "reset"); err == nil {
		t.Error("Expected reset without --yes to fail")
	}
	if _, err := runCLI(t, path, "reset", "--yes"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	counts, err := openTestStore(t, path).Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if counts != (storage.Counts{Users: 1}) {
		t.Errorf("counts after reset = %+v, want only the default trainer", counts)
	}
}

func TestExportImportCmds(t *testing.T) {
	path := setupTestCLI(t)

	if _, err := runCLI(t, path, "note", "add", "Keep", "-c", "me"); err != nil {
		t.Fatalf("note add failed: %v", err)
	}

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			backup := filepath.Join(t.TempDir(), "backup."+format)
			if _, err := runCLI(t, path, "export", format, "-o", backup); err != nil {
				t.Fatalf("export failed: %v", err)
			}
			if info, err := os.Stat(backup); err != nil || info.Mode().Perm() != 0600 {
				t.Fatalf("backup not written privately: %v", err)
			}

			if _, err := runCLI(t, path, "reset", "--yes"); err != nil {
				t.Fatalf("reset failed: %v", err)
			}
			if _, err := runCLI(t, path, "import", backup); err != nil {
				t.Fatalf("import failed: %v", err)
			}

			s := openTestStore(t, path)
			notes, err := s.Notes.List(storage.DefaultTrainerID)
			if err != nil || len(notes) != 1 || notes[0].Title != "Keep" {
				t.Errorf("notes after import = %v, err = %v", notes, err)
			}
			_ = s.Close()
		})
	}
}

func TestExportMarkdownCmd(t *testing.T) {
	path := setupTestCLI(t)

	if _, err := runCLI(t, path, "note", "add", "Brace", "-c", "Breathe into the belt", "--category", "technique"); err != nil {
		t.Fatalf("note add failed: %v", err)
	}

	out, err := runCLI(t, path, "export", "markdown")
	if err != nil {
		t.Fatalf("export markdown failed: %v", err)
	}
	if !strings.Contains(out, "Demo Trainer") || !strings.Contains(out, "### Brace") {
		t.Errorf("markdown output:\n%s", out)
	}
}

func TestExportInvalidFormat(t *testing.T) {
	path := setupTestCLI(t)

	if _, err := runCLI(t, path, "export", "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestImportUnsupportedExtension(t *testing.T) {
	path := setupTestCLI(t)

	file := filepath.Join(t.TempDir(), "backup.csv")
	if err := os.WriteFile(file, []byte("a,b"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := runCLI(t, path, "import", file); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestMigrateCmd(t *testing.T) {
	srcPath := setupTestCLI(t)
	if _, err := runCLI(t, srcPath, "client", "add", "Ana"); err != nil {
		t.Fatalf("client add failed: %v", err)
	}

	dstPath := filepath.Join(t.TempDir(), "new.db")
	out, err := runCLI(t, dstPath, "migrate", "--from", srcPath)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out, "Migrated 2 rows") {
		t.Errorf("unexpected output: %s", out)
	}

	clients, err := openTestStore(t, dstPath).Clients.List(storage.DefaultTrainerID)
	if err != nil || len(clients) != 1 || clients[0].Name != "Ana" {
		t.Errorf("clients after migrate = %v, err = %v", clients, err)
	}

	if _, err := runCLI(t, dstPath, "migrate", "--from", dstPath); err == nil {
		t.Error("Expected error migrating a database into itself")
	}
	if _, err := runCLI(t, dstPath, "migrate"); err == nil {
		t.Error("Expected error without --from")
	}
}

type memKV struct {
	data     map[string][]byte
	readOnly bool
}

func (m *memKV) Set(key, value []byte) error { m.data[string(key)] = value; return nil }
func (m *memKV) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, badger.ErrKeyNotFound
	}
	return v, nil
}
func (m *memKV) Delete(key []byte) error { delete(m.data, string(key)); return nil }
func (m *memKV) Keys() ([][]byte, error) {
	keys := make([][]byte, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}
func (m *memKV) Sync() error      { return nil }
func (m *memKV) Reset() error     { return nil }
func (m *memKV) IsReadOnly() bool { return m.readOnly }
func (m *memKV) Close() error     { return nil }

// useMemMirror swaps the Charm mirror for an in-memory KV for one test.
func useMemMirror(t *testing.T) *memKV {
	t.Helper()

	kv := &memKV{data: make(map[string][]byte)}
	origOpen, origID := openMirror, accountID
	openMirror = func(log zerolog.Logger) (*charm.Client, error) {
		return charm.NewClient(kv, log), nil
	}
	accountID = func(*charm.Client) (string, error) {
		return "", errors.New("not linked")
	}
	t.Cleanup(func() { openMirror, accountID = origOpen, origID })
	return kv
}

func TestSyncPushPull(t *testing.T) {
	path := setupTestCLI(t)
	kv := useMemMirror(t)

	if _, err := runCLI(t, path, "note", "add", "Mirror me", "-c", "x"); err != nil {
		t.Fatalf("note add failed: %v", err)
	}

	out, err := runCLI(t, path, "sync", "push")
	if err != nil {
		t.Fatalf("sync push failed: %v", err)
	}
	if !strings.Contains(out, "Pushed 2 rows") {
		t.Errorf("unexpected push output: %s", out)
	}
	if _, ok := kv.data[charm.UserPrefix+storage.DefaultTrainerID]; !ok {
		t.Error("trainer not mirrored")
	}

	if _, err := runCLI(t, path, "reset", "--yes"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, err := runCLI(t, path, "sync", "pull"); err != nil {
		t.Fatalf("sync pull failed: %v", err)
	}

	notes, err := openTestStore(t, path).Notes.List(storage.DefaultTrainerID)
	if err != nil || len(notes) != 1 || notes[0].Title != "Mirror me" {
		t.Errorf("notes after pull = %v, err = %v", notes, err)
	}
}

func TestSyncPullEmptyMirror(t *testing.T) {
	path := setupTestCLI(t)
	useMemMirror(t)

	out, err := runCLI(t, path, "sync", "pull")
	if err != nil {
		t.Fatalf("sync pull failed: %v", err)
	}
	if !strings.Contains(out, "nothing to pull") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSyncStatusAndReadOnly(t *testing.T) {
	path := setupTestCLI(t)
	kv := useMemMirror(t)

	out, err := runCLI(t, path, "sync", "status")
	if err != nil {
		t.Fatalf("sync status failed: %v", err)
	}
	if !strings.Contains(out, "Not linked to Charm") || !strings.Contains(out, "never") {
		t.Errorf("unexpected status output: %s", out)
	}

	kv.readOnly = true
	_, err = runCLI(t, path, "sync", "push")
	if !errors.Is(err, charm.ErrReadOnly) {
		t.Errorf("push on read-only mirror: err = %v", err)
	}

	if _, err := runCLI(t, path, "sync", "reset"); err == nil {
		t.Error("Expected sync reset without --yes to fail")
	}
}

func TestConfigFileSetsDataDir(t *testing.T) {
	setupTestCLI(t)

	dataDir := filepath.Join(t.TempDir(), "coach-data")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("data_dir = \""+dataDir+"\"\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--config", cfgPath, "init"})
	err := rootCmd.Execute()
	if closeErr := shutdown(); closeErr != nil {
		t.Fatalf("shutdown: %v", closeErr)
	}
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dataDir, "coach.db")); err != nil {
		t.Errorf("database not created under data_dir: %v", err)
	}
}
