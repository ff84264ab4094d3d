package handlers

import (
	"net/http"
	"strings"

	"library_backend/internal/access"
	"library_backend/internal/models"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

const (
	errMissingAuthHeader = "missing Authorization header"
	errBadAuthHeader     = "invalid Authorization header format"
)

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
// The message is empty on success.
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errMissingAuthHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errBadAuthHeader
	}
	return strings.TrimSpace(parts[1]), ""
}

// identityMiddleware rejects requests without a valid bearer token and
// stores the verified identity in the gin context.
func (h *Handler) identityMiddleware(c *gin.Context) {
	token, msg := bearerToken(c)
	if msg != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	id, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrInvalidToken.Error()})
		return
	}

	c.Set(identityKey, id)
	c.Next()
}

// requireAdmin must run after identityMiddleware.
func (h *Handler) requireAdmin(c *gin.Context) {
	if err := access.Authorize(identity(c), access.AdminOnly); err != nil {
		h.abortWithError(c, err, "access_denied", "path", c.FullPath())
		return
	}
	c.Next()
}

// identity returns the verified caller, or the zero Identity when none is set.
func identity(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return models.Identity{}
}
