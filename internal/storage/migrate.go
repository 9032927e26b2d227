// ABOUTME: Data migration between two coach databases.
// ABOUTME: Copies every row from a source store into a destination store.

package storage

import (
	"fmt"
)

// MigrateData replaces the contents of dst with every row of src and
// returns how many rows of each entity were copied. Both stores must be
// initialized.
func MigrateData(src, dst *Store) (Counts, error) {
	snap, err := src.Snapshot()
	if err != nil {
		return Counts{}, fmt.Errorf("read source: %w", err)
	}
	if err := dst.Restore(snap); err != nil {
		return Counts{}, fmt.Errorf("write destination: %w", err)
	}
	return snap.Counts(), nil
}
