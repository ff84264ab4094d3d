package service

import (
	"errors"
	"time"

	"library_backend/internal/logger"
	"library_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no positive TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

var errEmptySigningKey = errors.New("token signing key is empty")

// Claims are the identity claims carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenManager issues and verifies HS256 identity tokens. It keeps no
// per-token state, so any replica holding the key can verify.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
	log *logger.Logger
}

// NewTokenManager fails on an empty key.
func NewTokenManager(key string, ttl time.Duration, log *logger.Logger) (*TokenManager, error) {
	if key == "" {
		return nil, errEmptySigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TokenManager{key: []byte(key), ttl: ttl, now: time.Now, log: log}, nil
}

// Issue signs a token for the given identity, valid for the configured TTL.
func (m *TokenManager) Issue(userID, email string, role models.Role) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
		Role:  string(role),
	})
	return token.SignedString(m.key)
}

// Verify checks signature, structure and expiry. Every failure is reported
// as models.ErrInvalidToken; the concrete reason is only logged.
func (m *TokenManager) Verify(accessToken string) (models.Identity, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		m.log.Debugw("token_verify_failed", "reason", err.Error())
		return models.Identity{}, models.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		m.log.Debugw("token_verify_failed", "reason", "missing claims")
		return models.Identity{}, models.ErrInvalidToken
	}
	role, ok := models.ParseRole(claims.Role)
	if !ok {
		m.log.Debugw("token_verify_failed", "reason", "unknown role", "role", claims.Role)
		return models.Identity{}, models.ErrInvalidToken
	}

	return models.Identity{UserID: claims.Subject, Email: claims.Email, Role: role}, nil
}
