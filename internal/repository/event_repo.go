package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"library_backend/internal/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

const insertEventSQL = `
		INSERT INTO circulation_events (id, occurred_at, type, message, actor_id, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.CirculationEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	// marshal metadata if present
	var metaPtr *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt,
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		e.ActorID,
		metaPtr,
	)
	return err
}

// List returns events filtered by [from, to] (inclusive) and/or type, ordered ASC.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string) ([]models.CirculationEvent, error) {
	conds := make([]goqu.Expression, 0, 3)
	if !from.IsZero() {
		conds = append(conds, goqu.C("occurred_at").Gte(from.UTC()))
	}
	if !to.IsZero() {
		conds = append(conds, goqu.C("occurred_at").Lte(to.UTC()))
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, goqu.C("type").Eq(typ))
	}

	ds := dialect.From("circulation_events").Prepared(true).
		Select("id", "occurred_at", "type", "message", "actor_id", "meta")
	if len(conds) > 0 {
		ds = ds.Where(conds...)
	}
	q, args, err := ds.Order(goqu.C("occurred_at").Asc()).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.CirculationEvent, 0, 64)
	for rows.Next() {
		var ev models.CirculationEvent
		var metaStr sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &ev.ActorID, &metaStr); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
