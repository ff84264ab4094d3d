package service

import (
	"context"
	"time"

	"library_backend/internal/models"
)

var (
	adminID  = models.Identity{UserID: "admin-1", Email: "admin@leafstack.local", Role: models.RoleAdmin}
	memberID = models.Identity{UserID: "u1", Email: "ann@example.com", Role: models.RoleMember}
	otherID  = models.Identity{UserID: "u2", Email: "bob@example.com", Role: models.RoleMember}
)

func fixedNow() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }

func counterIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

// mockUsers is a lightweight in-test mock for repository.Credentials.
type mockUsers struct {
	FindByIDFn         func(ctx context.Context, id string) (*models.User, error)
	FindByEmailFn      func(ctx context.Context, email string) (*models.User, error)
	FindByUsernameFn   func(ctx context.Context, username string) (*models.User, error)
	ExistsByEmailFn    func(ctx context.Context, email string) (bool, error)
	ExistsByUsernameFn func(ctx context.Context, username string) (bool, error)
	SaveFn             func(ctx context.Context, u models.User) error

	saved []models.User
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.FindByEmailFn(ctx, email)
}

func (m *mockUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.FindByUsernameFn(ctx, username)
}

func (m *mockUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFn == nil {
		return false, nil
	}
	return m.ExistsByEmailFn(ctx, email)
}

func (m *mockUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFn == nil {
		return false, nil
	}
	return m.ExistsByUsernameFn(ctx, username)
}

func (m *mockUsers) Save(ctx context.Context, u models.User) error {
	m.saved = append(m.saved, u)
	if m.SaveFn == nil {
		return nil
	}
	return m.SaveFn(ctx, u)
}

// mockBooks is a lightweight in-test mock for repository.Catalog.
type mockBooks struct {
	FindByIDFn   func(ctx context.Context, id string) (*models.Book, error)
	FindByIsbnFn func(ctx context.Context, isbn string) (*models.Book, error)
	ExistsFn     func(ctx context.Context, isbn string) (bool, error)
	SaveFn       func(ctx context.Context, b models.Book) error
	UpdateFn     func(ctx context.Context, b models.Book) error
	DeleteFn     func(ctx context.Context, id string) error
	FindAllFn    func(ctx context.Context) ([]models.Book, error)
	SearchFn     func(ctx context.Context, query string) ([]models.Book, error)

	saved      []models.Book
	updated    []models.Book
	findByIDs  []string
	deletedIDs []string
}

func (m *mockBooks) FindByID(ctx context.Context, id string) (*models.Book, error) {
	m.findByIDs = append(m.findByIDs, id)
	return m.FindByIDFn(ctx, id)
}

func (m *mockBooks) FindByIsbn(ctx context.Context, isbn string) (*models.Book, error) {
	return m.FindByIsbnFn(ctx, isbn)
}

func (m *mockBooks) ExistsByIsbn(ctx context.Context, isbn string) (bool, error) {
	if m.ExistsFn == nil {
		return false, nil
	}
	return m.ExistsFn(ctx, isbn)
}

func (m *mockBooks) Save(ctx context.Context, b models.Book) error {
	m.saved = append(m.saved, b)
	if m.SaveFn == nil {
		return nil
	}
	return m.SaveFn(ctx, b)
}

func (m *mockBooks) Update(ctx context.Context, b models.Book) error {
	m.updated = append(m.updated, b)
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, b)
}

func (m *mockBooks) DeleteByID(ctx context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return m.DeleteFn(ctx, id)
}

func (m *mockBooks) FindAll(ctx context.Context) ([]models.Book, error) {
	return m.FindAllFn(ctx)
}

func (m *mockBooks) SearchByTitleOrAuthor(ctx context.Context, query string) ([]models.Book, error) {
	return m.SearchFn(ctx, query)
}

// mockBorrows is a lightweight in-test mock for repository.Borrows.
type mockBorrows struct {
	FindByIDFn      func(ctx context.Context, id string) (*models.Borrow, error)
	FindAllFn       func(ctx context.Context) ([]models.Borrow, error)
	FindByUserIDFn  func(ctx context.Context, userID string) ([]models.Borrow, error)
	FindOpenFn      func(ctx context.Context, bookID, userID string, status models.BorrowStatus) (*models.Borrow, error)
	FindByBookFn    func(ctx context.Context, bookID string, status models.BorrowStatus) ([]models.Borrow, error)
	SaveFn          func(ctx context.Context, b models.Borrow) error
	CheckoutFn      func(ctx context.Context, b models.Borrow) error
	CheckInFn       func(ctx context.Context, borrowID, bookID string, at time.Time) error
	checkouts       []models.Borrow
	checkInBorrowID []string
}

func (m *mockBorrows) FindByID(ctx context.Context, id string) (*models.Borrow, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockBorrows) FindAll(ctx context.Context) ([]models.Borrow, error) {
	return m.FindAllFn(ctx)
}

func (m *mockBorrows) FindByUserID(ctx context.Context, userID string) ([]models.Borrow, error) {
	return m.FindByUserIDFn(ctx, userID)
}

func (m *mockBorrows) FindByBookIDAndUserIDAndStatus(ctx context.Context, bookID, userID string, status models.BorrowStatus) (*models.Borrow, error) {
	if m.FindOpenFn == nil {
		return nil, nil
	}
	return m.FindOpenFn(ctx, bookID, userID, status)
}

func (m *mockBorrows) FindByBookIDAndStatus(ctx context.Context, bookID string, status models.BorrowStatus) ([]models.Borrow, error) {
	return m.FindByBookFn(ctx, bookID, status)
}

func (m *mockBorrows) Save(ctx context.Context, b models.Borrow) error {
	return m.SaveFn(ctx, b)
}

func (m *mockBorrows) Checkout(ctx context.Context, b models.Borrow) error {
	m.checkouts = append(m.checkouts, b)
	if m.CheckoutFn == nil {
		return nil
	}
	return m.CheckoutFn(ctx, b)
}

func (m *mockBorrows) CheckIn(ctx context.Context, borrowID, bookID string, at time.Time) error {
	m.checkInBorrowID = append(m.checkInBorrowID, borrowID)
	if m.CheckInFn == nil {
		return nil
	}
	return m.CheckInFn(ctx, borrowID, bookID, at)
}

// fakeEventRepo captures List inputs and Append calls.
type fakeEventRepo struct {
	gotFrom time.Time
	gotTo   time.Time
	gotType string

	events    []models.CirculationEvent
	err       error
	appendErr error

	calls    int
	appended []models.CirculationEvent
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.CirculationEvent, error) {
	f.calls++
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.CirculationEvent) error {
	f.appended = append(f.appended, e)
	return f.appendErr
}

type fakeStatsRepo struct {
	gotNow time.Time
	stats  models.CirculationStats
	err    error
}

func (f *fakeStatsRepo) Snapshot(ctx context.Context, now time.Time) (models.CirculationStats, error) {
	f.gotNow = now
	return f.stats, f.err
}
