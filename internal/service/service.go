package service

import (
	"context"

	"library_backend/internal/logger"
	"library_backend/internal/models"
	"library_backend/internal/repository"
)

// Authorization covers login, registration and token checks.
type Authorization interface {
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Register(ctx context.Context, r models.Registration) (models.UserProfile, error)
	VerifyToken(ctx context.Context, accessToken string) (models.UserProfile, error)
	ParseToken(accessToken string) (models.Identity, error)
}

// Catalog exposes book reads and admin-only book mutations.
type Catalog interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id string) (models.Book, error)
	SearchBooks(ctx context.Context, query string) ([]models.Book, error)
	AddBook(ctx context.Context, who models.Identity, in models.BookInput) (models.Book, error)
	UpdateBook(ctx context.Context, who models.Identity, id string, in models.BookInput) (models.Book, error)
	DeleteBook(ctx context.Context, who models.Identity, id string) error
}

// Ledger issues and closes loans and lists them.
type Ledger interface {
	Borrow(ctx context.Context, who models.Identity, bookID, borrowerName string) (models.BorrowView, error)
	ReturnBook(ctx context.Context, who models.Identity, borrowID string) (models.BorrowView, error)
	ListAll(ctx context.Context, who models.Identity) ([]models.BorrowView, error)
	ListForUser(ctx context.Context, who models.Identity) ([]models.BorrowView, error)
}

// EventLog exposes the append-only circulation history.
type EventLog interface {
	List(ctx context.Context, who models.Identity, f LogFilter) ([]models.CirculationEvent, error)
}

// Stats exposes circulation counters.
type Stats interface {
	Snapshot(ctx context.Context, who models.Identity) (models.CirculationStats, error)
	Current(ctx context.Context) (models.CirculationStats, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Catalog
	Ledger
	EventLog
	Stats
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, tokens *TokenManager, log *logger.Logger) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, tokens),
		Catalog:       NewCatalogService(repos.Books, repos.Events, log),
		Ledger:        NewLedgerService(repos.Borrows, repos.Books, repos.Users, repos.Events, log),
		EventLog:      NewEventLogService(repos.Events),
		Stats:         NewStatsService(repos.Stats),
	}
}
