package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"library_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

var eventRowColumns = []string{"id", "occurred_at", "type", "message", "actor_id", "meta"}

const selectEventsPattern = "SELECT .* FROM .circulation_events."

func TestAppend_Success_WithDefaults(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	// Generated id and timestamp are unknown; type is normalized.
	mock.ExpectExec(regexp.QuoteMeta(insertEventSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(),
			"BORROW", "Clean Code borrowed", "u1",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(ctx(t), models.CirculationEvent{
		Type:        "  borrow ",
		Description: "Clean Code borrowed",
		ActorID:     "u1",
		Metadata:    map[string]any{"book_id": "b1"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	mock.ExpectExec("INSERT INTO circulation_events").
		WillReturnError(errors.New("down"))

	err = repo.Append(ctx(t), models.CirculationEvent{
		Type:        "return",
		Description: "x",
		Metadata:    map[string]string{"k": "v"},
	})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_NoFilters_And_MetadataParsing(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"a": "b"})

	rows := sqlmock.NewRows(eventRowColumns).
		AddRow("1", now, "BORROW", "m1", "u1", string(js)).
		AddRow("2", now.Add(time.Hour), "RETURN", "m2", "u1", nil)

	mock.ExpectQuery(selectEventsPattern + ".*ORDER BY .occurred_at. ASC").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2, got %d", len(got))
	}
	if got[0].EventID != "1" || got[1].EventID != "2" {
		t.Fatalf("unexpected ids: %v, %v", got[0].EventID, got[1].EventID)
	}
	b1, _ := json.Marshal(got[0].Metadata)
	if string(b1) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", string(b1), string(js))
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_WithFilters_Args(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(eventRowColumns).
		AddRow("2", from, "RETURN", "b", "", nil).
		AddRow("3", to, "RETURN", "c", "", nil)

	mock.ExpectQuery(selectEventsPattern + " WHERE .*occurred_at.*occurred_at.*type").
		WithArgs(from, to, "RETURN").
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), from, to, " return ")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].EventID != "2" || got[1].EventID != "3" {
		t.Fatalf("unexpected results: %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	repo := NewEventSQLite(db)

	rows := sqlmock.NewRows(eventRowColumns).
		// occurred_at wrong type to force scan error
		AddRow("x", 123, "BORROW", "msg", "", nil)

	mock.ExpectQuery(selectEventsPattern).
		WillReturnRows(rows)

	_, err = repo.List(ctx(t), time.Time{}, time.Time{}, "")
	if err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
