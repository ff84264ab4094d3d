package service

import (
	"context"
	"time"

	"library_backend/internal/access"
	"library_backend/internal/logger"
	"library_backend/internal/models"
	"library_backend/internal/repository"

	"github.com/google/uuid"
)

// CatalogService manages books. Reads are open; mutations are admin-only.
type CatalogService struct {
	books  repository.Catalog
	events *auditTrail
	now    func() time.Time
	newID  func() string
}

func NewCatalogService(books repository.Catalog, events repository.EventRepo, log *logger.Logger) *CatalogService {
	return &CatalogService{
		books:  books,
		events: newAuditTrail(events, log),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.books.FindAll(ctx)
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (models.Book, error) {
	b, err := s.books.FindByID(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	if b == nil {
		return models.Book{}, models.ErrBookNotFound
	}
	return *b, nil
}

func (s *CatalogService) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	return s.books.SearchByTitleOrAuthor(ctx, query)
}

func (s *CatalogService) AddBook(ctx context.Context, who models.Identity, in models.BookInput) (models.Book, error) {
	if err := access.Authorize(who, access.AdminOnly); err != nil {
		return models.Book{}, err
	}
	b, err := models.NewBook(s.newID(), in, s.now())
	if err != nil {
		return models.Book{}, err
	}

	taken, err := s.books.ExistsByIsbn(ctx, b.ISBN)
	if err != nil {
		return models.Book{}, err
	}
	if taken {
		return models.Book{}, models.ErrDuplicateIsbn
	}
	if err := s.books.Save(ctx, b); err != nil {
		return models.Book{}, err
	}

	s.events.record(ctx, models.EventBookAdded, who.UserID, "added "+b.Title,
		map[string]any{"book_id": b.ID, "isbn": b.ISBN, "copies": b.Copies})
	return b, nil
}

func (s *CatalogService) UpdateBook(ctx context.Context, who models.Identity, id string, in models.BookInput) (models.Book, error) {
	if err := access.Authorize(who, access.AdminOnly); err != nil {
		return models.Book{}, err
	}
	in, err := in.Validate()
	if err != nil {
		return models.Book{}, err
	}

	current, err := s.books.FindByID(ctx, id)
	if err != nil {
		return models.Book{}, err
	}
	if current == nil {
		return models.Book{}, models.ErrBookNotFound
	}
	if in.ISBN != current.ISBN {
		other, err := s.books.FindByIsbn(ctx, in.ISBN)
		if err != nil {
			return models.Book{}, err
		}
		if other != nil && other.ID != id {
			return models.Book{}, models.ErrDuplicateIsbn
		}
	}

	if err := s.books.Update(ctx, current.Apply(in, s.now())); err != nil {
		return models.Book{}, err
	}
	// The store adjusts the counter against the committed row; read it back.
	saved, err := s.GetBook(ctx, id)
	if err != nil {
		return models.Book{}, err
	}

	s.events.record(ctx, models.EventBookUpdated, who.UserID, "updated "+saved.Title,
		map[string]any{"book_id": saved.ID, "copies": saved.Copies, "available": saved.Available})
	return saved, nil
}

func (s *CatalogService) DeleteBook(ctx context.Context, who models.Identity, id string) error {
	if err := access.Authorize(who, access.AdminOnly); err != nil {
		return err
	}
	if err := s.books.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.events.record(ctx, models.EventBookDeleted, who.UserID, "deleted book "+id,
		map[string]any{"book_id": id})
	return nil
}
