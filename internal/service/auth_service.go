package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"library_backend/internal/models"
	"library_backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// AuthService handles login, registration and token verification.
type AuthService struct {
	users  repository.Credentials
	tokens *TokenManager
	now    func() time.Time
	newID  func() string
}

func NewAuthService(users repository.Credentials, tokens *TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Login verifies email and password and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return AuthResult{}, err
	}
	if u == nil {
		return AuthResult{}, models.ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return AuthResult{}, models.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{Token: token, User: u.Profile()}, nil
}

// Register creates a member account. The exists checks give the common case
// a clean answer; the store's unique indexes catch concurrent duplicates.
func (s *AuthService) Register(ctx context.Context, r models.Registration) (models.UserProfile, error) {
	r, err := r.Normalize()
	if err != nil {
		return models.UserProfile{}, err
	}

	taken, err := s.users.ExistsByEmail(ctx, r.Email)
	if err != nil {
		return models.UserProfile{}, err
	}
	if taken {
		return models.UserProfile{}, models.ErrDuplicateEmail
	}
	taken, err = s.users.ExistsByUsername(ctx, r.Username)
	if err != nil {
		return models.UserProfile{}, err
	}
	if taken {
		return models.UserProfile{}, models.ErrDuplicateUsername
	}

	u, err := s.newUser(r, models.RoleMember)
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return models.UserProfile{}, err
	}
	return u.Profile(), nil
}

// VerifyToken resolves a token to the profile of a still existing account.
func (s *AuthService) VerifyToken(ctx context.Context, accessToken string) (models.UserProfile, error) {
	id, err := s.tokens.Verify(accessToken)
	if err != nil {
		return models.UserProfile{}, err
	}
	u, err := s.users.FindByID(ctx, id.UserID)
	if err != nil {
		return models.UserProfile{}, err
	}
	if u == nil {
		return models.UserProfile{}, models.ErrUserNotFound
	}
	return u.Profile(), nil
}

// ParseToken verifies a token without touching the store.
func (s *AuthService) ParseToken(accessToken string) (models.Identity, error) {
	return s.tokens.Verify(accessToken)
}

func (s *AuthService) newUser(r models.Registration, role models.Role) (models.User, error) {
	hash, err := hashPassword(r.Password)
	if err != nil {
		return models.User{}, err
	}
	now := s.now()
	return models.User{
		ID:           s.newID(),
		Username:     r.Username,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: hash,
		Role:         role,
		Phone:        r.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", &models.ValidationError{Field: "password", Reason: "is required"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &models.ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash (constant time)
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
