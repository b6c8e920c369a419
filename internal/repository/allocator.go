package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Entities whose primary keys are visible to callers (admins, managers,
// team_members, projects, help) get ids assigned as max+1. Reading the max
// and inserting happen inside one transaction, and a concurrent winner shows
// up as a unique violation on commit, which is retried with a fresh id.

const allocateRetries = 3

// NextID returns max(column)+1 for the table, or 1 when it is empty.
func NextID(tx *sql.Tx, table, column string) (int, error) {
	var next int
	query := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) + 1 FROM %s", column, table)
	if err := tx.QueryRow(query).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

// CreateWithAllocatedID allocates the next id for table and runs insert with
// it in the same transaction. On a duplicate-key race the whole unit is
// retried. Returns the id that was committed.
func CreateWithAllocatedID(db *sql.DB, table, column string, insert func(tx *sql.Tx, id int) error) (int, error) {
	for attempt := 0; attempt < allocateRetries; attempt++ {
		tx, err := db.Begin()
		if err != nil {
			return 0, err
		}
		id, err := NextID(tx, table, column)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		if err := insert(tx, id); err != nil {
			tx.Rollback()
			if IsUniqueViolation(err) {
				continue
			}
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			if IsUniqueViolation(err) {
				continue
			}
			return 0, err
		}
		return id, nil
	}
	return 0, errors.New("id allocation kept colliding, giving up")
}

// IsUniqueViolation reports whether err is a Postgres duplicate-key error.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
