// ABOUTME: Unit tests for the Charm snapshot mirror.
// ABOUTME: Uses an in-memory KV fake to check key layout, pruning and pull ordering.
package charm

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	data     map[string][]byte
	readOnly bool
	syncs    int
	resets   int
	closed   bool
	failSet  error
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Set(key, value []byte) error {
	if m.failSet != nil {
		return m.failSet
	}
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, badger.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memKV) Keys() ([][]byte, error) {
	keys := make([][]byte, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

func (m *memKV) Sync() error      { m.syncs++; return nil }
func (m *memKV) Reset() error     { m.resets++; m.data = make(map[string][]byte); return nil }
func (m *memKV) IsReadOnly() bool { return m.readOnly }
func (m *memKV) Close() error     { m.closed = true; return nil }

func (m *memKV) keys() []string {
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func seededSnapshot(t *testing.T) *storage.Snapshot {
	t.Helper()

	s := storage.New(filepath.Join(t.TempDir(), "coach.db"))
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { _ = s.Close() })
	_, err := storage.EnsureDefaultTrainer(s)
	require.NoError(t, err)

	_, err = s.Notes.Create(models.NewNote(storage.DefaultTrainerID, "Hinge first", "Teach the hip hinge before deadlifts.", models.CategoryTechnique))
	require.NoError(t, err)
	clientID, err := s.Clients.Create(models.NewClient(storage.DefaultTrainerID, "Ana"))
	require.NoError(t, err)
	workoutID, err := s.Workouts.Create(models.NewWorkout(storage.DefaultTrainerID, "Lower A", models.WorkoutStrength, models.DifficultyBeginner).ForClient(clientID))
	require.NoError(t, err)
	_, err = s.Sessions.Create(models.NewSession(workoutID, clientID, "2024-06-01"))
	require.NoError(t, err)
	_, err = s.Goals.Create(models.NewGoal(clientID, models.GoalStrength, "Deadlift bodyweight"))
	require.NoError(t, err)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	return snap
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, []string{"user:", "note:", "client:", "workout:", "session:", "goal:"}, entityPrefixes)
	assert.Equal(t, "abc", extractID(NotePrefix+"abc", NotePrefix))
}

func TestPushWritesPrefixedKeys(t *testing.T) {
	kv := newMemKV()
	c := NewClient(kv, zerolog.Nop())
	snap := seededSnapshot(t)

	counts, err := c.Push(snap)
	require.NoError(t, err)
	assert.Equal(t, snap.Counts(), counts)
	assert.Equal(t, 1, kv.syncs)

	require.Contains(t, kv.data, UserPrefix+storage.DefaultTrainerID)
	require.Contains(t, kv.data, NotePrefix+snap.Notes[0].ID)
	require.Contains(t, kv.data, ClientPrefix+snap.Clients[0].ID)
	require.Contains(t, kv.data, WorkoutPrefix+snap.Workouts[0].ID)
	require.Contains(t, kv.data, SessionPrefix+snap.Sessions[0].ID)
	require.Contains(t, kv.data, GoalPrefix+snap.Goals[0].ID)
	require.Contains(t, kv.data, metaKey)
	assert.Len(t, kv.data, counts.Total()+1)
}

func TestPushPrunesStaleKeys(t *testing.T) {
	kv := newMemKV()
	kv.data[NotePrefix+"gone"] = []byte(`{"id":"gone"}`)
	kv.data["other:keep"] = []byte(`x`)
	c := NewClient(kv, zerolog.Nop())

	_, err := c.Push(seededSnapshot(t))
	require.NoError(t, err)

	assert.NotContains(t, kv.data, NotePrefix+"gone")
	assert.Contains(t, kv.data, "other:keep")
}

func TestPushReadOnly(t *testing.T) {
	kv := newMemKV()
	kv.readOnly = true
	c := NewClient(kv, zerolog.Nop())

	_, err := c.Push(seededSnapshot(t))
	require.ErrorIs(t, err, ErrReadOnly)
	assert.Empty(t, kv.data)
	assert.Zero(t, kv.syncs)
}

func TestPushSetFailure(t *testing.T) {
	kv := newMemKV()
	kv.failSet = errors.New("disk full")
	c := NewClient(kv, zerolog.Nop())

	_, err := c.Push(seededSnapshot(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, kv.syncs)
}

func TestPullRoundTrip(t *testing.T) {
	kv := newMemKV()
	c := NewClient(kv, zerolog.Nop())
	snap := seededSnapshot(t)
	_, err := c.Push(snap)
	require.NoError(t, err)

	pulled, err := c.Pull()
	require.NoError(t, err)
	assert.Equal(t, snap.Counts(), pulled.Counts())
	assert.Equal(t, snap.ExportedAt, pulled.ExportedAt)
	assert.Equal(t, storage.SnapshotVersion, pulled.Version)

	assert.Equal(t, snap.Notes[0].Title, pulled.Notes[0].Title)
	assert.Equal(t, snap.Workouts[0].ClientID, pulled.Workouts[0].ClientID)
	assert.Equal(t, snap.Goals[0].Description, pulled.Goals[0].Description)

	dst := storage.New(":memory:")
	require.NoError(t, dst.Initialize())
	defer dst.Close()
	require.NoError(t, dst.Restore(pulled))

	got, err := dst.Stats()
	require.NoError(t, err)
	assert.Equal(t, snap.Counts(), got)
}

func TestPullOrdersByCreation(t *testing.T) {
	kv := newMemKV()
	kv.data[NotePrefix+"b"] = []byte(`{"id":"b","title":"second","createdAt":"2024-01-02T00:00:00.000000Z"}`)
	kv.data[NotePrefix+"a"] = []byte(`{"id":"a","title":"third","createdAt":"2024-01-03T00:00:00.000000Z"}`)
	kv.data[NotePrefix+"c"] = []byte(`{"id":"c","title":"first","createdAt":"2024-01-01T00:00:00.000000Z"}`)
	c := NewClient(kv, zerolog.Nop())

	snap, err := c.Pull()
	require.NoError(t, err)
	require.Len(t, snap.Notes, 3)
	assert.Equal(t, "first", snap.Notes[0].Title)
	assert.Equal(t, "second", snap.Notes[1].Title)
	assert.Equal(t, "third", snap.Notes[2].Title)
	assert.Empty(t, snap.ExportedAt)
}

func TestPullRejectsCorruptValue(t *testing.T) {
	kv := newMemKV()
	kv.data[ClientPrefix+"bad"] = []byte(`{not json`)
	c := NewClient(kv, zerolog.Nop())

	_, err := c.Pull()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ClientPrefix+"bad")
}

func TestStatus(t *testing.T) {
	kv := newMemKV()
	c := NewClient(kv, zerolog.Nop())

	st, err := c.Status()
	require.NoError(t, err)
	assert.Zero(t, st.Counts.Total())
	assert.Empty(t, st.LastPushed)

	snap := seededSnapshot(t)
	_, err = c.Push(snap)
	require.NoError(t, err)

	st, err = c.Status()
	require.NoError(t, err)
	assert.Equal(t, snap.Counts(), st.Counts)
	assert.Equal(t, snap.ExportedAt, st.LastPushed)
	assert.False(t, st.ReadOnly)
}

func TestResetAndClose(t *testing.T) {
	kv := newMemKV()
	kv.data[UserPrefix+"x"] = []byte(`{}`)
	c := NewClient(kv, zerolog.Nop())

	require.NoError(t, c.Reset())
	assert.Equal(t, 1, kv.resets)
	assert.Empty(t, kv.keys())

	kv.readOnly = true
	require.ErrorIs(t, c.Reset(), ErrReadOnly)
	require.NoError(t, c.Sync())
	assert.Zero(t, kv.syncs)

	require.NoError(t, c.Close())
	assert.True(t, kv.closed)
}
