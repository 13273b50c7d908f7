package database

import (
	"errors"
	"regexp"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var dupKeyIndex = regexp.MustCompile(`index: (\S+) dup key`)

// UniqueViolation reports whether err is a unique-constraint failure from any
// supported store. detail names the constraint or index when the driver exposes it.
func UniqueViolation(err error) (detail string, ok bool) {
	if err == nil {
		return "", false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" {
			return pqErr.Constraint, true
		}
		return "", false
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			// "UNIQUE constraint failed: users.email" names columns, never values
			return liteErr.Error(), true
		}
		return "", false
	}
	if mongo.IsDuplicateKeyError(err) {
		return mongoIndexName(err), true
	}
	return "", false
}

// mongoIndexName pulls the index name out of a duplicate-key message. The rest
// of the message echoes the duplicated value and must not be matched on.
func mongoIndexName(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if m := dupKeyIndex.FindStringSubmatch(e.Message); m != nil {
				return m[1]
			}
		}
	}
	if m := dupKeyIndex.FindStringSubmatch(err.Error()); m != nil {
		return m[1]
	}
	return ""
}
