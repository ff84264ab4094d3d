package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"library_backend/internal/models"

	"github.com/doug-martin/goqu/v9"
)

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

var _ Catalog = (*BookRepository)(nil)

const (
	bookColumnList = `id, title, author, isbn, category, copies, available, description, created_at, updated_at`

	selectBookByIDSQL   = `SELECT ` + bookColumnList + ` FROM books WHERE id = ?`
	selectBookByIsbnSQL = `SELECT ` + bookColumnList + ` FROM books WHERE isbn = ?`
	existsBookByIsbnSQL = `SELECT EXISTS (SELECT 1 FROM books WHERE isbn = ?)`

	insertBookSQL = `
		INSERT INTO books (id, title, author, isbn, category, copies, available, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	// The stored counter moves by the change in copies instead of being
	// overwritten, so loans committed since the caller's read survive.
	updateBookSQL = `
		UPDATE books SET
			title = ?,
			author = ?,
			isbn = ?,
			category = ?,
			available = MIN(?, MAX(0, available + ? - copies)),
			copies = ?,
			description = ?,
			updated_at = ?
		WHERE id = ?
	`

	deleteIdleBookSQL = `
		DELETE FROM books
		WHERE id = ?
		AND NOT EXISTS (SELECT 1 FROM borrows WHERE book_id = ? AND status = 'borrowed')
	`
	existsBookByIDSQL = `SELECT EXISTS (SELECT 1 FROM books WHERE id = ?)`
)

var bookColumns = []any{
	"id", "title", "author", "isbn", "category", "copies", "available", "description", "created_at", "updated_at",
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*models.Book, error) {
	return r.findOne(ctx, selectBookByIDSQL, id)
}

func (r *BookRepository) FindByIsbn(ctx context.Context, isbn string) (*models.Book, error) {
	return r.findOne(ctx, selectBookByIsbnSQL, isbn)
}

func (r *BookRepository) ExistsByIsbn(ctx context.Context, isbn string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, existsBookByIsbnSQL, isbn).Scan(&ok); err != nil {
		return false, fmt.Errorf("check isbn %q: %w", isbn, err)
	}
	return ok, nil
}

// Save inserts a new book.
func (r *BookRepository) Save(ctx context.Context, b models.Book) error {
	_, err := r.db.ExecContext(ctx, insertBookSQL,
		b.ID,
		b.Title,
		b.Author,
		b.ISBN,
		b.Category,
		b.Copies,
		b.Available,
		b.Description,
		b.CreatedAt.UTC(),
		b.UpdatedAt.UTC(),
	)
	if err != nil {
		if mapped := mapUnique(err, "books.isbn", models.ErrDuplicateIsbn); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert book %q: %w", b.ID, err)
	}
	return nil
}

// Update overwrites the editable fields of an existing book. b.Available is
// ignored; the stored counter is adjusted by the change in copies. A book
// deleted in the meantime yields ErrBookNotFound.
func (r *BookRepository) Update(ctx context.Context, b models.Book) error {
	res, err := r.db.ExecContext(ctx, updateBookSQL,
		b.Title,
		b.Author,
		b.ISBN,
		b.Category,
		b.Copies,
		b.Copies,
		b.Copies,
		b.Description,
		b.UpdatedAt.UTC(),
		b.ID,
	)
	if err != nil {
		if mapped := mapUnique(err, "books.isbn", models.ErrDuplicateIsbn); mapped != err {
			return mapped
		}
		return fmt.Errorf("update book %q: %w", b.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book %q rows affected: %w", b.ID, err)
	}
	if n == 0 {
		return models.ErrBookNotFound
	}
	return nil
}

// DeleteByID removes a book that has no open loans. The check and the delete
// are one statement, so a loan committed concurrently blocks the delete.
func (r *BookRepository) DeleteByID(ctx context.Context, id string) error {
	return runInTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		res, err := tx.ExecContext(ctx, deleteIdleBookSQL, id, id)
		if err != nil {
			return fmt.Errorf("delete book %q: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete book %q rows affected: %w", id, err)
		}
		if n == 1 {
			return nil
		}

		var exists bool
		if err := tx.QueryRowContext(ctx, existsBookByIDSQL, id).Scan(&exists); err != nil {
			return fmt.Errorf("check book %q: %w", id, err)
		}
		if exists {
			return models.ErrBookHasActiveBorrows
		}
		return models.ErrBookNotFound
	})
}

// FindAll returns the catalog, newest first.
func (r *BookRepository) FindAll(ctx context.Context) ([]models.Book, error) {
	q, args, err := dialect.From("books").Prepared(true).
		Select(bookColumns...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list books query: %w", err)
	}
	return r.query(ctx, q, args...)
}

// SearchByTitleOrAuthor matches query as a case-insensitive substring of the
// title or the author. Each book appears once.
func (r *BookRepository) SearchByTitleOrAuthor(ctx context.Context, query string) ([]models.Book, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	q, args, err := dialect.From("books").Prepared(true).
		Select(bookColumns...).
		Where(goqu.Or(
			goqu.L(`LOWER("title") LIKE ? ESCAPE '\'`, pattern),
			goqu.L(`LOWER("author") LIKE ? ESCAPE '\'`, pattern),
		)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search books query: %w", err)
	}
	return r.query(ctx, q, args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *BookRepository) findOne(ctx context.Context, query string, arg string) (*models.Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select book %q: %w", arg, err)
	}
	return &b, nil
}

func (r *BookRepository) query(ctx context.Context, q string, args ...any) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	out := make([]models.Book, 0, 32)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (models.Book, error) {
	var b models.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.ISBN,
		&b.Category,
		&b.Copies,
		&b.Available,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, err
}
