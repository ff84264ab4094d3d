package service

import (
	"context"
	"strings"
	"time"

	"library_backend/internal/access"
	"library_backend/internal/logger"
	"library_backend/internal/models"
	"library_backend/internal/repository"

	"github.com/google/uuid"
)

// LedgerService issues and closes loans. Availability accounting happens in
// the store's Checkout and CheckIn; the checks here give callers a
// deterministic error for the common, uncontended case.
type LedgerService struct {
	borrows repository.Borrows
	books   repository.Catalog
	users   repository.Credentials
	events  *auditTrail
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
}

func NewLedgerService(borrows repository.Borrows, books repository.Catalog, users repository.Credentials,
	events repository.EventRepo, log *logger.Logger) *LedgerService {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerService{
		borrows: borrows,
		books:   books,
		users:   users,
		events:  newAuditTrail(events, log),
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// Borrow lends one copy of bookID to the caller. Errors, in check order:
// ErrBookNotFound, ErrBookUnavailable, ErrDuplicateBorrow, ErrUserNotFound.
func (s *LedgerService) Borrow(ctx context.Context, who models.Identity, bookID, borrowerName string) (models.BorrowView, error) {
	if err := access.Authorize(who, access.AnyAuthenticated); err != nil {
		return models.BorrowView{}, err
	}

	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return models.BorrowView{}, err
	}
	if book == nil {
		return models.BorrowView{}, models.ErrBookNotFound
	}
	if book.Available <= 0 {
		return models.BorrowView{}, models.ErrBookUnavailable
	}

	open, err := s.borrows.FindByBookIDAndUserIDAndStatus(ctx, bookID, who.UserID, models.StatusBorrowed)
	if err != nil {
		return models.BorrowView{}, err
	}
	if open != nil {
		return models.BorrowView{}, models.ErrDuplicateBorrow
	}

	user, err := s.users.FindByID(ctx, who.UserID)
	if err != nil {
		return models.BorrowView{}, err
	}
	if user == nil {
		return models.BorrowView{}, models.ErrUserNotFound
	}

	now := s.now()
	loan := models.NewBorrow(s.newID(), book.ID, user.ID, borrowerDisplayName(borrowerName, user), now)
	if err := s.borrows.Checkout(ctx, loan); err != nil {
		return models.BorrowView{}, err
	}

	s.events.record(ctx, models.EventBorrow, who.UserID, loan.UserName+" borrowed "+book.Title,
		map[string]any{"borrow_id": loan.ID, "book_id": book.ID, "due_date": loan.DueDate})
	return loan.View(book, now), nil
}

// ReturnBook closes an open loan. Only the borrower or an admin may return it.
func (s *LedgerService) ReturnBook(ctx context.Context, who models.Identity, borrowID string) (models.BorrowView, error) {
	if err := access.Authorize(who, access.AnyAuthenticated); err != nil {
		return models.BorrowView{}, err
	}

	loan, err := s.borrows.FindByID(ctx, borrowID)
	if err != nil {
		return models.BorrowView{}, err
	}
	if loan == nil {
		return models.BorrowView{}, models.ErrBorrowNotFound
	}
	if err := access.CanActFor(who, loan.UserID); err != nil {
		return models.BorrowView{}, err
	}
	if loan.Status != models.StatusBorrowed {
		return models.BorrowView{}, models.ErrNotCurrentlyBorrowed
	}

	now := s.now()
	if err := s.borrows.CheckIn(ctx, loan.ID, loan.BookID, now); err != nil {
		return models.BorrowView{}, err
	}
	loan.Status = models.StatusReturned
	loan.ReturnDate = &now
	loan.UpdatedAt = now

	book := s.lookupBook(ctx, loan.BookID)
	title := loan.BookID
	if book != nil {
		title = book.Title
	}
	s.events.record(ctx, models.EventReturn, who.UserID, loan.UserName+" returned "+title,
		map[string]any{"borrow_id": loan.ID, "book_id": loan.BookID, "overdue": now.After(loan.DueDate)})
	return loan.View(book, now), nil
}

// ListAll returns every loan. Admin only.
func (s *LedgerService) ListAll(ctx context.Context, who models.Identity) ([]models.BorrowView, error) {
	if err := access.Authorize(who, access.AdminOnly); err != nil {
		return nil, err
	}
	loans, err := s.borrows.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, loans), nil
}

// ListForUser returns the caller's own loans.
func (s *LedgerService) ListForUser(ctx context.Context, who models.Identity) ([]models.BorrowView, error) {
	if err := access.Authorize(who, access.AnyAuthenticated); err != nil {
		return nil, err
	}
	loans, err := s.borrows.FindByUserID(ctx, who.UserID)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, loans), nil
}

// project joins loans with their books. A missing or unreadable book leaves
// title and author empty.
func (s *LedgerService) project(ctx context.Context, loans []models.Borrow) []models.BorrowView {
	now := s.now()
	seen := make(map[string]*models.Book, len(loans))
	out := make([]models.BorrowView, 0, len(loans))
	for _, l := range loans {
		book, ok := seen[l.BookID]
		if !ok {
			book = s.lookupBook(ctx, l.BookID)
			seen[l.BookID] = book
		}
		out = append(out, l.View(book, now))
	}
	return out
}

func (s *LedgerService) lookupBook(ctx context.Context, id string) *models.Book {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		s.log.Debugw("borrow_book_join_failed", "book_id", id, "error", err)
		return nil
	}
	return book
}

func borrowerDisplayName(requested string, u *models.User) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
