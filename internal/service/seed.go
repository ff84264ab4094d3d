package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"library_backend/internal/logger"
	"library_backend/internal/models"
	"library_backend/internal/repository"

	"github.com/google/uuid"
)

// AdminAccount describes the bootstrap administrator.
type AdminAccount struct {
	Email    string
	Username string
	Name     string
	Password string
}

var sampleBooks = []models.BookInput{
	{Title: "Clean Code", Author: "Robert C. Martin", ISBN: "9780132350884", Category: "Programming", Copies: 5,
		Description: "A Handbook of Agile Software Craftsmanship"},
	{Title: "Effective Java", Author: "Joshua Bloch", ISBN: "9780134685991", Category: "Programming", Copies: 4,
		Description: "Best practices for the Java platform"},
	{Title: "Design Patterns", Author: "Erich Gamma", ISBN: "9780201633610", Category: "Software Engineering", Copies: 3,
		Description: "Elements of Reusable Object-Oriented Software"},
}

// Seeder creates the bootstrap admin and demo data. Every step is safe to
// rerun against a populated database.
type Seeder struct {
	users   repository.Credentials
	books   repository.Catalog
	borrows repository.Borrows
	ledger  Ledger
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
}

func NewSeeder(repos *repository.Repository, ledger Ledger, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{
		users:   repos.Users,
		books:   repos.Books,
		borrows: repos.Borrows,
		ledger:  ledger,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// EnsureAdmin creates the admin account unless its email or username is
// already registered. It reports whether an account was created.
func (s *Seeder) EnsureAdmin(ctx context.Context, a AdminAccount) (bool, error) {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		name = "Administrator"
	}
	r, err := models.Registration{
		Username: a.Username,
		Name:     name,
		Email:    a.Email,
		Password: a.Password,
	}.Normalize()
	if err != nil {
		return false, err
	}

	taken, err := s.users.ExistsByEmail(ctx, r.Email)
	if err == nil && !taken {
		taken, err = s.users.ExistsByUsername(ctx, r.Username)
	}
	if err != nil {
		return false, err
	}
	if taken {
		s.log.Infow("seed_admin_skipped", "email", r.Email, "username", r.Username)
		return false, nil
	}

	hash, err := hashPassword(r.Password)
	if err != nil {
		return false, err
	}
	now := s.now()
	err = s.users.Save(ctx, models.User{
		ID:           s.newID(),
		Username:     r.Username,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, models.ErrDuplicateEmail) || errors.Is(err, models.ErrDuplicateUsername) {
		// Lost a race with another seeder.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.Infow("seed_admin_created", "email", r.Email, "username", r.Username)
	return true, nil
}

// SeedSampleData adds the demo books when the catalog is empty and, when no
// loan exists yet, lends the first book to the account with borrowerEmail.
func (s *Seeder) SeedSampleData(ctx context.Context, borrowerEmail string) error {
	books, err := s.books.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		now := s.now()
		for i, in := range sampleBooks {
			// Distinct creation times keep the newest-first order stable.
			b, err := models.NewBook(s.newID(), in, now.Add(time.Duration(i)*time.Second))
			if err != nil {
				return err
			}
			if err := s.books.Save(ctx, b); err != nil && !errors.Is(err, models.ErrDuplicateIsbn) {
				return err
			}
		}
		s.log.Infow("seed_books_created", "count", len(sampleBooks))
		if books, err = s.books.FindAll(ctx); err != nil {
			return err
		}
	}

	loans, err := s.borrows.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(loans) > 0 || len(books) == 0 {
		return nil
	}

	u, err := s.users.FindByEmail(ctx, models.NormalizeEmail(borrowerEmail))
	if err != nil {
		return err
	}
	if u == nil {
		s.log.Infow("seed_borrow_skipped", "reason", "no borrower account", "email", borrowerEmail)
		return nil
	}

	who := models.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
	_, err = s.ledger.Borrow(ctx, who, books[0].ID, "")
	switch {
	case errors.Is(err, models.ErrDuplicateBorrow), errors.Is(err, models.ErrBookUnavailable):
		return nil
	case err != nil:
		return err
	}
	s.log.Infow("seed_borrow_created", "book", books[0].Title, "email", u.Email)
	return nil
}
