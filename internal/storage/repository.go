// ABOUTME: Shared query helpers used by every entity repository.
// ABOUTME: Builds inserts and partial updates with squirrel and scans rows with sqlx.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/harperreed/coach/internal/models"
	"github.com/jmoiron/sqlx"
)

// getOne scans a single row into a T. A missing row is (nil, nil).
func getOne[T any](q sqlx.Queryer, op, query string, args ...any) (*T, error) {
	var v T
	if err := sqlx.Get(q, &v, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &v, nil
}

// listAll scans every row into a non-nil slice.
func listAll[T any](q sqlx.Queryer, op, query string, args ...any) ([]*T, error) {
	out := []*T{}
	if err := sqlx.Select(q, &out, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func insertRow(e sqlx.Execer, op, table string, row map[string]any) error {
	query, args, err := sq.Insert(table).SetMap(row).ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}
	if _, err := e.Exec(query, args...); err != nil {
		return classify(op, table, err)
	}
	return nil
}

// update writes only the columns in set plus updated_at. A missing id
// matches no rows and is not an error.
func (s *Store) update(op, table, id string, set map[string]any) error {
	set["updated_at"] = s.now()
	query, args, err := sq.Update(table).SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: build query: %w", op, err)
	}
	return s.run(func(db *sqlx.DB) error {
		if _, err := db.Exec(query, args...); err != nil {
			return classify(op, table, err)
		}
		return nil
	})
}

// remove deletes by id. A missing id is not an error.
func (s *Store) remove(op, table, id string) error {
	return s.run(func(db *sqlx.DB) error {
		if _, err := db.Exec("DELETE FROM "+table+" WHERE id = ?", id); err != nil {
			return classify(op, table, err)
		}
		return nil
	})
}

func setField[T any](set map[string]any, column string, f models.Field[T]) {
	if f.Set {
		set[column] = f.Value
	}
}

func setNullable(set map[string]any, column string, f models.Field[*string]) {
	if f.Set {
		set[column] = nullIfEmpty(f.Value)
	}
}

func setBool(set map[string]any, column string, f models.Field[bool]) {
	if f.Set {
		set[column] = boolInt(f.Value)
	}
}

// nullIfEmpty stores an empty string as NULL so unique columns allow many blanks.
func nullIfEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
