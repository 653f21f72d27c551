package store

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrDuplicate is returned when an insert collides with a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference is returned when a foreign key points nowhere.
	ErrMissingReference = errors.New("referenced record does not exist")
)

type scanner interface{ Scan(...any) error }

// isUniqueConstraintError reports whether err is a SQLite UNIQUE violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func rowsChanged(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
