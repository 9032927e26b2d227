// ABOUTME: Snapshot push and pull between the SQLite store and Charm KV.
// ABOUTME: Each row is one JSON value keyed by entity prefix and id.
package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
)

const (
	UserPrefix    = "user:"
	NotePrefix    = "note:"
	ClientPrefix  = "client:"
	WorkoutPrefix = "workout:"
	SessionPrefix = "session:"
	GoalPrefix    = "goal:"

	metaKey = "meta:snapshot"
)

var entityPrefixes = []string{UserPrefix, NotePrefix, ClientPrefix, WorkoutPrefix, SessionPrefix, GoalPrefix}

// meta describes the last pushed snapshot.
type meta struct {
	Version    string         `json:"version"`
	ExportedAt string         `json:"exportedAt"`
	Counts     storage.Counts `json:"counts"`
}

// Status summarizes what the KV mirror holds.
type Status struct {
	ReadOnly   bool
	LastPushed string
	Counts     storage.Counts
}

// Push writes every row of snap to the KV store, removes keys for rows
// that no longer exist, and syncs.
func (c *Client) Push(snap *storage.Snapshot) (storage.Counts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return storage.Counts{}, ErrReadOnly
	}

	live := make(map[string]bool)
	put := func(prefix, id string, v any) error {
		key := prefix + id
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		if err := c.kv.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		live[key] = true
		return nil
	}

	for _, u := range snap.Users {
		if err := put(UserPrefix, u.ID, u); err != nil {
			return storage.Counts{}, err
		}
	}
	for _, n := range snap.Notes {
		if err := put(NotePrefix, n.ID, n); err != nil {
			return storage.Counts{}, err
		}
	}
	for _, cl := range snap.Clients {
		if err := put(ClientPrefix, cl.ID, cl); err != nil {
			return storage.Counts{}, err
		}
	}
	for _, w := range snap.Workouts {
		if err := put(WorkoutPrefix, w.ID, w); err != nil {
			return storage.Counts{}, err
		}
	}
	for _, ws := range snap.Sessions {
		if err := put(SessionPrefix, ws.ID, ws); err != nil {
			return storage.Counts{}, err
		}
	}
	for _, g := range snap.Goals {
		if err := put(GoalPrefix, g.ID, g); err != nil {
			return storage.Counts{}, err
		}
	}

	removed := 0
	for _, prefix := range entityPrefixes {
		keys, err := c.keysWithPrefix(prefix)
		if err != nil {
			return storage.Counts{}, err
		}
		for _, key := range keys {
			if live[key] {
				continue
			}
			if err := c.kv.Delete([]byte(key)); err != nil {
				return storage.Counts{}, fmt.Errorf("delete %s: %w", key, err)
			}
			removed++
		}
	}

	counts := snap.Counts()
	data, err := json.Marshal(meta{Version: snap.Version, ExportedAt: snap.ExportedAt, Counts: counts})
	if err != nil {
		return storage.Counts{}, fmt.Errorf("marshal meta: %w", err)
	}
	if err := c.kv.Set([]byte(metaKey), data); err != nil {
		return storage.Counts{}, fmt.Errorf("set meta: %w", err)
	}

	if err := c.kv.Sync(); err != nil {
		return storage.Counts{}, fmt.Errorf("sync: %w", err)
	}

	c.log.Info().Int("rows", counts.Total()).Int("removed", removed).Msg("snapshot pushed")
	return counts, nil
}

// Pull syncs from the cloud and reads every mirrored row into a snapshot.
func (c *Client) Pull() (*storage.Snapshot, error) {
	if err := c.Sync(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := &storage.Snapshot{Version: storage.SnapshotVersion, Tool: "coach"}
	if m, err := c.readMeta(); err != nil {
		return nil, err
	} else if m != nil {
		snap.ExportedAt = m.ExportedAt
	}

	var err error
	if snap.Users, err = pullAll[models.User](c, UserPrefix); err != nil {
		return nil, err
	}
	if snap.Notes, err = pullAll[models.TrainerNote](c, NotePrefix); err != nil {
		return nil, err
	}
	if snap.Clients, err = pullAll[models.Client](c, ClientPrefix); err != nil {
		return nil, err
	}
	if snap.Workouts, err = pullAll[models.Workout](c, WorkoutPrefix); err != nil {
		return nil, err
	}
	if snap.Sessions, err = pullAll[models.WorkoutSession](c, SessionPrefix); err != nil {
		return nil, err
	}
	if snap.Goals, err = pullAll[models.Goal](c, GoalPrefix); err != nil {
		return nil, err
	}

	c.log.Info().Int("rows", snap.Counts().Total()).Msg("snapshot pulled")
	return snap, nil
}

// Status counts mirrored rows without syncing.
func (c *Client) Status() (*Status, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := &Status{ReadOnly: c.kv.IsReadOnly()}
	m, err := c.readMeta()
	if err != nil {
		return nil, err
	}
	if m != nil {
		st.LastPushed = m.ExportedAt
	}

	counts := make([]int, len(entityPrefixes))
	for i, prefix := range entityPrefixes {
		keys, err := c.keysWithPrefix(prefix)
		if err != nil {
			return nil, err
		}
		counts[i] = len(keys)
	}
	st.Counts = storage.Counts{
		Users:    counts[0],
		Notes:    counts[1],
		Clients:  counts[2],
		Workouts: counts[3],
		Sessions: counts[4],
		Goals:    counts[5],
	}
	return st, nil
}

func (c *Client) readMeta() (*meta, error) {
	data, err := c.kv.Get([]byte(metaKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get meta: %w", err)
	}
	m, err := unmarshalJSON[meta](data)
	if err != nil {
		return nil, fmt.Errorf("decode meta: %w", err)
	}
	return m, nil
}

// timestamped is satisfied by every model pulled from the mirror.
type timestamped interface {
	models.User | models.TrainerNote | models.Client | models.Workout | models.WorkoutSession | models.Goal
}

// pullAll decodes every value under prefix, ordered by creation time then id.
// Keys deleted between listing and reading are skipped.
func pullAll[T timestamped](c *Client, prefix string) ([]*T, error) {
	keys, err := c.keysWithPrefix(prefix)
	if err != nil {
		return nil, err
	}

	type entry struct {
		id      string
		created string
		value   *T
	}
	entries := make([]entry, 0, len(keys))
	for _, key := range keys {
		data, err := c.kv.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		v, err := unmarshalJSON[T](data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		entries = append(entries, entry{id: extractID(key, prefix), created: createdAt(v), value: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].created != entries[j].created {
			return entries[i].created < entries[j].created
		}
		return entries[i].id < entries[j].id
	})

	out := make([]*T, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.value)
	}
	return out, nil
}

func createdAt(v any) string {
	switch m := v.(type) {
	case *models.User:
		return m.CreatedAt
	case *models.TrainerNote:
		return m.CreatedAt
	case *models.Client:
		return m.CreatedAt
	case *models.Workout:
		return m.CreatedAt
	case *models.WorkoutSession:
		return m.CreatedAt
	case *models.Goal:
		return m.CreatedAt
	}
	return ""
}
