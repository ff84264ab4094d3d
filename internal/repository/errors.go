package repository

import (
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// dialect builds the composed queries (listings and filters).
var dialect = goqu.Dialect("sqlite3")

const uniqueFailedPrefix = "UNIQUE constraint failed: "

// uniqueViolation reports whether err is a unique-constraint failure and, if so,
// the "table.column[, table.column]" list SQLite names in its message.
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return "", false
	}
	msg := err.Error()
	i := strings.Index(msg, uniqueFailedPrefix)
	if i < 0 {
		return "", false
	}
	return msg[i+len(uniqueFailedPrefix):], true
}

// mapUnique translates a unique violation on column into domainErr; other errors pass through.
func mapUnique(err error, column string, domainErr error) error {
	if cols, ok := uniqueViolation(err); ok && strings.Contains(cols, column) {
		return domainErr
	}
	return err
}
