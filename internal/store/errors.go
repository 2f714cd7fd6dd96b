package store

import (
	"errors"
	"strings"
)

// ErrDuplicate reports an insert that violated a uniqueness constraint:
// a (emoji, role) pair already bound, or a join role id already registered.
// Callers turn this into an "already exists" reply; it is never fatal.
var ErrDuplicate = errors.New("record already exists")

// isUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
// SQLite reports both PRIMARY KEY and UNIQUE index violations with this message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
