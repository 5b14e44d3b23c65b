// Package repository defines sentinel errors shared across repositories so
// that the service layer can distinguish failure scenarios without parsing
// driver errors. ErrNotFound maps from pgx.ErrNoRows, ErrConflict from a
// unique-constraint violation, and ErrNoSeats from the conditional seat
// decrement finding an exhausted inventory.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup by id or unique key matches nothing.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on a uniqueness violation, such as registering a
// login that is already taken or granting a role facet twice.
var ErrConflict = errors.New("conflict")

// ErrNoSeats is returned by the reserving insert when the showing has no
// remaining seats. The conditional update makes this check atomic with the
// ticket insert.
var ErrNoSeats = errors.New("no seats available")

// uniqueViolation SQLSTATE per the PostgreSQL documentation.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
