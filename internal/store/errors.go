package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound signals that the referenced row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock rejects a decrement that would push a variant's
	// stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicateKey signals a unique-constraint conflict.
	ErrDuplicateKey = errors.New("duplicate key")
)

// pg SQLSTATE codes
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// isForeignKeyViolation reports whether err is the specific class of error a
// database raises when a row is still referenced elsewhere. Only this class
// may be absorbed by compensating logic; every other error propagates.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
