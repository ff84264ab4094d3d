package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"library_backend/internal/models"
)

type StatsSQLite struct {
	db *sql.DB
}

func NewStatsSQLite(db *sql.DB) *StatsSQLite {
	return &StatsSQLite{db: db}
}

var _ StatsRepo = (*StatsSQLite)(nil)

const selectStatsSQL = `
	SELECT
		(SELECT COUNT(*) FROM books),
		(SELECT COALESCE(SUM(copies), 0) FROM books),
		(SELECT COALESCE(SUM(available), 0) FROM books),
		(SELECT COUNT(*) FROM borrows WHERE status = 'borrowed'),
		(SELECT COUNT(*) FROM borrows WHERE status = 'borrowed' AND due_date < ?)
`

// Snapshot counts books, copies and loans as of now. Overdue loans are open
// loans whose due date lies before now.
func (r *StatsSQLite) Snapshot(ctx context.Context, now time.Time) (models.CirculationStats, error) {
	now = now.UTC()
	s := models.CirculationStats{GeneratedAt: now}
	err := r.db.QueryRowContext(ctx, selectStatsSQL, now).Scan(
		&s.Books,
		&s.Copies,
		&s.Available,
		&s.ActiveBorrows,
		&s.OverdueBorrows,
	)
	if err != nil {
		return models.CirculationStats{}, fmt.Errorf("select circulation stats: %w", err)
	}
	return s, nil
}
