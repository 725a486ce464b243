// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let higher layers such as handlers
// map a failure to a status code without knowing which query raised it:
// ErrInvalidInput for validation failures, ErrNotFound for missing or
// foreign rows and ErrConflict for unique-constraint violations.  Anything
// else is an infrastructure failure.
package repository

import (
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// ErrInvalidInput is returned when required input is missing or malformed.
// Handlers translate it into an HTTP 400 response.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound is returned when a row does not exist or is not visible to
// the caller.  Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert violates a uniqueness constraint.
// Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// Domain-specific conflicts.  Each wraps ErrConflict so errors.Is(err,
// ErrConflict) holds for all of them.
var (
	ErrUsernameExists = errors.WithMessage(ErrConflict, "username already exists")
	ErrFolderExists   = errors.WithMessage(ErrConflict, "folder already exists for this user")
	ErrSetExists      = errors.WithMessage(ErrConflict, "set already exists in this folder")
)

// ErrPasswordTooLong wraps ErrInvalidInput.  bcrypt only hashes the first
// 72 bytes of a password and rejects anything longer.
var ErrPasswordTooLong = errors.WithMessage(ErrInvalidInput, "password longer than 72 bytes")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique or primary key violation
// from either supported driver.
func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
