package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"library_backend/internal/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type BorrowRepository struct {
	db *sql.DB
}

func NewBorrowRepository(db *sql.DB) *BorrowRepository {
	return &BorrowRepository{db: db}
}

var _ Borrows = (*BorrowRepository)(nil)

const (
	insertBorrowSQL = `
		INSERT INTO borrows (id, book_id, user_id, user_name, borrow_date, due_date, return_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	upsertBorrowSQL = insertBorrowSQL + `
		ON CONFLICT(id) DO UPDATE SET
			user_name=excluded.user_name,
			due_date=excluded.due_date,
			return_date=excluded.return_date,
			status=excluded.status,
			updated_at=excluded.updated_at
	`

	// Guarded decrement: never takes available below zero, whatever the
	// interleaving of concurrent checkouts.
	takeCopySQL = `
		UPDATE books SET available = available - 1, updated_at = ?
		WHERE id = ? AND available > 0
	`

	// Capped increment: never takes available above copies.
	releaseCopySQL = `
		UPDATE books SET available = MIN(available + 1, copies), updated_at = ?
		WHERE id = ?
	`

	closeBorrowSQL = `
		UPDATE borrows SET status = 'returned', return_date = ?, updated_at = ?
		WHERE id = ? AND status = 'borrowed'
	`
)

var borrowColumns = []any{
	"id", "book_id", "user_id", "user_name", "borrow_date", "due_date", "return_date", "status", "created_at", "updated_at",
}

func (r *BorrowRepository) FindByID(ctx context.Context, id string) (*models.Borrow, error) {
	return r.findOne(ctx, goqu.Ex{"id": id})
}

// FindAll returns every loan, most recent first.
func (r *BorrowRepository) FindAll(ctx context.Context) ([]models.Borrow, error) {
	return r.list(ctx, nil)
}

func (r *BorrowRepository) FindByUserID(ctx context.Context, userID string) ([]models.Borrow, error) {
	return r.list(ctx, goqu.Ex{"user_id": userID})
}

func (r *BorrowRepository) FindByBookIDAndUserIDAndStatus(ctx context.Context, bookID, userID string, status models.BorrowStatus) (*models.Borrow, error) {
	return r.findOne(ctx, goqu.Ex{"book_id": bookID, "user_id": userID, "status": string(status)})
}

func (r *BorrowRepository) FindByBookIDAndStatus(ctx context.Context, bookID string, status models.BorrowStatus) ([]models.Borrow, error) {
	return r.list(ctx, goqu.Ex{"book_id": bookID, "status": string(status)})
}

// Save inserts b or updates the mutable fields of the row with the same id.
func (r *BorrowRepository) Save(ctx context.Context, b models.Borrow) error {
	_, err := r.db.ExecContext(ctx, upsertBorrowSQL, borrowArgs(b)...)
	if err != nil {
		if mapped := mapUnique(err, "borrows.book_id", models.ErrDuplicateBorrow); mapped != err {
			return mapped
		}
		return fmt.Errorf("save borrow %q: %w", b.ID, err)
	}
	return nil
}

// Checkout takes one copy of b.BookID and records b in the same transaction.
// It fails with ErrBookUnavailable when no copy is left and with
// ErrDuplicateBorrow when the user already holds an open loan for the book.
func (r *BorrowRepository) Checkout(ctx context.Context, b models.Borrow) error {
	return runInTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, takeCopySQL, b.CreatedAt.UTC(), b.BookID)
		if err != nil {
			return fmt.Errorf("take copy of book %q: %w", b.BookID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("take copy of book %q rows affected: %w", b.BookID, err)
		}
		if n == 0 {
			return models.ErrBookUnavailable
		}

		if _, err := tx.ExecContext(ctx, insertBorrowSQL, borrowArgs(b)...); err != nil {
			if mapped := mapUnique(err, "borrows.book_id", models.ErrDuplicateBorrow); mapped != err {
				return mapped
			}
			return fmt.Errorf("insert borrow %q: %w", b.ID, err)
		}
		return nil
	})
}

// CheckIn closes an open loan and gives the copy back to bookID. Only one
// caller can close a given loan; the others get ErrNotCurrentlyBorrowed.
// A book that no longer exists is skipped.
func (r *BorrowRepository) CheckIn(ctx context.Context, borrowID, bookID string, at time.Time) error {
	at = at.UTC()
	return runInTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, closeBorrowSQL, at, at, borrowID)
		if err != nil {
			return fmt.Errorf("close borrow %q: %w", borrowID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("close borrow %q rows affected: %w", borrowID, err)
		}
		if n == 0 {
			return models.ErrNotCurrentlyBorrowed
		}

		if _, err := tx.ExecContext(ctx, releaseCopySQL, at, bookID); err != nil {
			return fmt.Errorf("release copy of book %q: %w", bookID, err)
		}
		return nil
	})
}

func borrowArgs(b models.Borrow) []any {
	var returned any
	if b.ReturnDate != nil {
		returned = b.ReturnDate.UTC()
	}
	return []any{
		b.ID,
		b.BookID,
		b.UserID,
		b.UserName,
		b.BorrowDate.UTC(),
		b.DueDate.UTC(),
		returned,
		string(b.Status),
		b.CreatedAt.UTC(),
		b.UpdatedAt.UTC(),
	}
}

func (r *BorrowRepository) findOne(ctx context.Context, where exp.Ex) (*models.Borrow, error) {
	q, args, err := dialect.From("borrows").Prepared(true).
		Select(borrowColumns...).
		Where(where).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build borrow query: %w", err)
	}
	b, err := scanBorrow(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select borrow: %w", err)
	}
	return &b, nil
}

func (r *BorrowRepository) list(ctx context.Context, where exp.Ex) ([]models.Borrow, error) {
	ds := dialect.From("borrows").Prepared(true).Select(borrowColumns...)
	if len(where) > 0 {
		ds = ds.Where(where)
	}
	q, args, err := ds.Order(goqu.C("borrow_date").Desc(), goqu.C("id").Asc()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build borrow list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query borrows: %w", err)
	}
	defer rows.Close()

	out := make([]models.Borrow, 0, 32)
	for rows.Next() {
		b, err := scanBorrow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan borrow: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanBorrow(row rowScanner) (models.Borrow, error) {
	var (
		b        models.Borrow
		returned sql.NullTime
		status   string
	)
	if err := row.Scan(
		&b.ID,
		&b.BookID,
		&b.UserID,
		&b.UserName,
		&b.BorrowDate,
		&b.DueDate,
		&returned,
		&status,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return models.Borrow{}, err
	}
	b.Status = models.BorrowStatus(status)
	b.BorrowDate = b.BorrowDate.UTC()
	b.DueDate = b.DueDate.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	if returned.Valid {
		t := returned.Time.UTC()
		b.ReturnDate = &t
	}
	return b, nil
}
