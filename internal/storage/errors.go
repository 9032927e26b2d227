// ABOUTME: Storage error values and SQLite constraint classification.
// ABOUTME: Maps modernc sqlite result codes to typed ConstraintError values.
package storage

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotInitialized is returned by every operation before Initialize succeeds.
	ErrNotInitialized = errors.New("store not initialized")

	// ErrConstraint matches any *ConstraintError via errors.Is.
	ErrConstraint = errors.New("constraint violation")
)

// primaryKeyColumn matches the "<table>.id" column named in a UNIQUE failure.
var primaryKeyColumn = regexp.MustCompile(`\.id(\s|,|\)|$)`)

// ConstraintKind names the kind of integrity rule that rejected a write.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintPrimaryKey ConstraintKind = "primary_key"
	ConstraintCheck      ConstraintKind = "check"
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintNotNull    ConstraintKind = "not_null"
	ConstraintOther      ConstraintKind = "other"
)

// ConstraintError reports a write rejected by the schema.
type ConstraintError struct {
	Op    string
	Table string
	Kind  ConstraintKind
	Err   error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s constraint on %s: %v", e.Op, e.Kind, e.Table, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrConstraint) match.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

// IsConstraint reports whether err is a constraint violation of kind k.
func IsConstraint(err error, k ConstraintKind) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Kind == k
}

// classify wraps err as a *ConstraintError when the driver reports a
// constraint failure, and as a plain "op: err" otherwise.
func classify(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if kind, ok := constraintKind(err); ok {
		return &ConstraintError{Op: op, Table: table, Kind: kind, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func constraintKind(err error) (ConstraintKind, bool) {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return ConstraintUnique, true
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ConstraintPrimaryKey, true
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return ConstraintCheck, true
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ConstraintForeignKey, true
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return ConstraintNotNull, true
		}
	}

	// Non-extended codes only say "constraint failed"; the message names the rule.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		if primaryKeyColumn.MatchString(msg) {
			return ConstraintPrimaryKey, true
		}
		return ConstraintUnique, true
	case strings.Contains(msg, "CHECK constraint failed"):
		return ConstraintCheck, true
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ConstraintForeignKey, true
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return ConstraintNotNull, true
	}

	if se != nil && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return ConstraintOther, true
	}
	return "", false
}
