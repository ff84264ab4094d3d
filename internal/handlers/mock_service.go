package handlers

import (
	"context"
	"net/http"

	"library_backend/internal/models"
	"library_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	loginRes    service.AuthResult
	loginErr    error
	registerRes models.UserProfile
	registerErr error
	verifyRes   models.UserProfile
	verifyErr   error

	// tokens maps accepted tokens to identities; anything else is rejected.
	tokens map[string]models.Identity

	lastLoginEmail  string
	lastRegister    models.Registration
	lastVerifyToken string
	lastParseToken  string
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (service.AuthResult, error) {
	m.lastLoginEmail = email
	return m.loginRes, m.loginErr
}

func (m *mockAuth) Register(ctx context.Context, r models.Registration) (models.UserProfile, error) {
	m.lastRegister = r
	return m.registerRes, m.registerErr
}

func (m *mockAuth) VerifyToken(ctx context.Context, token string) (models.UserProfile, error) {
	m.lastVerifyToken = token
	return m.verifyRes, m.verifyErr
}

func (m *mockAuth) ParseToken(token string) (models.Identity, error) {
	m.lastParseToken = token
	if id, ok := m.tokens[token]; ok {
		return id, nil
	}
	return models.Identity{}, models.ErrInvalidToken
}

type mockCatalog struct {
	books   []models.Book
	book    models.Book
	err     error
	lastWho models.Identity
	lastID  string
	lastIn  models.BookInput
	lastQ   string
}

func (m *mockCatalog) ListBooks(ctx context.Context) ([]models.Book, error) { return m.books, m.err }

func (m *mockCatalog) GetBook(ctx context.Context, id string) (models.Book, error) {
	m.lastID = id
	return m.book, m.err
}

func (m *mockCatalog) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	m.lastQ = query
	return m.books, m.err
}

func (m *mockCatalog) AddBook(ctx context.Context, who models.Identity, in models.BookInput) (models.Book, error) {
	m.lastWho, m.lastIn = who, in
	return m.book, m.err
}

func (m *mockCatalog) UpdateBook(ctx context.Context, who models.Identity, id string, in models.BookInput) (models.Book, error) {
	m.lastWho, m.lastID, m.lastIn = who, id, in
	return m.book, m.err
}

func (m *mockCatalog) DeleteBook(ctx context.Context, who models.Identity, id string) error {
	m.lastWho, m.lastID = who, id
	return m.err
}

type mockLedger struct {
	view     models.BorrowView
	views    []models.BorrowView
	err      error
	lastWho  models.Identity
	lastBook string
	lastName string
	lastID   string
}

func (m *mockLedger) Borrow(ctx context.Context, who models.Identity, bookID, borrowerName string) (models.BorrowView, error) {
	m.lastWho, m.lastBook, m.lastName = who, bookID, borrowerName
	return m.view, m.err
}

func (m *mockLedger) ReturnBook(ctx context.Context, who models.Identity, borrowID string) (models.BorrowView, error) {
	m.lastWho, m.lastID = who, borrowID
	return m.view, m.err
}

func (m *mockLedger) ListAll(ctx context.Context, who models.Identity) ([]models.BorrowView, error) {
	m.lastWho = who
	return m.views, m.err
}

func (m *mockLedger) ListForUser(ctx context.Context, who models.Identity) ([]models.BorrowView, error) {
	m.lastWho = who
	return m.views, m.err
}

type mockEventLog struct {
	resp       []models.CirculationEvent
	err        error
	lastFilter service.LogFilter
	calls      int
}

func (m *mockEventLog) List(ctx context.Context, who models.Identity, f service.LogFilter) ([]models.CirculationEvent, error) {
	m.calls++
	m.lastFilter = f
	return m.resp, m.err
}

type mockStats struct {
	stats models.CirculationStats
	err   error
}

func (m *mockStats) Snapshot(ctx context.Context, who models.Identity) (models.CirculationStats, error) {
	return m.stats, m.err
}

func (m *mockStats) Current(ctx context.Context) (models.CirculationStats, error) {
	return m.stats, m.err
}

// ---- Shared Test Helpers ----

const (
	memberToken = "member-token"
	adminToken  = "admin-token"
)

var (
	testMember = models.Identity{UserID: "u1", Email: "ann@example.com", Role: models.RoleMember}
	testAdmin  = models.Identity{UserID: "a1", Email: "admin@leafstack.local", Role: models.RoleAdmin}
)

func newMockAuth() *mockAuth {
	return &mockAuth{tokens: map[string]models.Identity{memberToken: testMember, adminToken: testAdmin}}
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Config{})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
