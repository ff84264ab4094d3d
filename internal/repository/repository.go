package repository

import (
	"context"
	"database/sql"
	"time"

	"library_backend/internal/models"
)

// Lookups return (nil, nil) when nothing matches.

// Credentials persists user accounts.
type Credentials interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, u models.User) error
}

// Catalog persists books.
type Catalog interface {
	FindByID(ctx context.Context, id string) (*models.Book, error)
	FindByIsbn(ctx context.Context, isbn string) (*models.Book, error)
	ExistsByIsbn(ctx context.Context, isbn string) (bool, error)
	Save(ctx context.Context, b models.Book) error
	Update(ctx context.Context, b models.Book) error
	DeleteByID(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]models.Book, error)
	SearchByTitleOrAuthor(ctx context.Context, query string) ([]models.Book, error)
}

// Borrows persists loans. Checkout and CheckIn are the atomic ledger moves:
// each updates the loan and the book's availability counter in one transaction.
type Borrows interface {
	FindByID(ctx context.Context, id string) (*models.Borrow, error)
	FindAll(ctx context.Context) ([]models.Borrow, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Borrow, error)
	FindByBookIDAndUserIDAndStatus(ctx context.Context, bookID, userID string, status models.BorrowStatus) (*models.Borrow, error)
	FindByBookIDAndStatus(ctx context.Context, bookID string, status models.BorrowStatus) ([]models.Borrow, error)
	Save(ctx context.Context, b models.Borrow) error
	Checkout(ctx context.Context, b models.Borrow) error
	CheckIn(ctx context.Context, borrowID, bookID string, at time.Time) error
}

// EventRepo is the append-only circulation log.
type EventRepo interface {
	Append(ctx context.Context, e models.CirculationEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.CirculationEvent, error)
}

// StatsRepo aggregates catalog and loan counters.
type StatsRepo interface {
	Snapshot(ctx context.Context, now time.Time) (models.CirculationStats, error)
}

type Repository struct {
	Users   Credentials
	Books   Catalog
	Borrows Borrows
	Events  EventRepo
	Stats   StatsRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:   NewUserRepository(db),
		Books:   NewBookRepository(db),
		Borrows: NewBorrowRepository(db),
		Events:  NewEventSQLite(db),
		Stats:   NewStatsSQLite(db),
	}
}
