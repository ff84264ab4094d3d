package handlers

import (
	"context"
	"errors"
	"net/http"

	"library_backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	msgInternal    = "internal server error"
	msgUnavailable = "service temporarily unavailable, retry later"
)

// domainStatus lists the expected outcomes and their statuses. The client
// sees the sentinel's own text, never the wrap chain around it.
var domainStatus = []struct {
	err  error
	code int
}{
	{models.ErrInvalidCredentials, http.StatusUnauthorized},
	{models.ErrInvalidToken, http.StatusUnauthorized},
	{models.ErrForbidden, http.StatusForbidden},
	{models.ErrDuplicateEmail, http.StatusConflict},
	{models.ErrDuplicateUsername, http.StatusConflict},
	{models.ErrDuplicateBorrow, http.StatusConflict},
	{models.ErrDuplicateIsbn, http.StatusConflict},
	{models.ErrBookNotFound, http.StatusNotFound},
	{models.ErrUserNotFound, http.StatusNotFound},
	{models.ErrBorrowNotFound, http.StatusNotFound},
	{models.ErrBookUnavailable, http.StatusBadRequest},
	{models.ErrNotCurrentlyBorrowed, http.StatusBadRequest},
	{models.ErrBookHasActiveBorrows, http.StatusBadRequest},
}

// statusFor maps an error to its HTTP status and the message safe to show.
func statusFor(err error) (int, string) {
	for _, d := range domainStatus {
		if errors.Is(err, d.err) {
			return d.code, d.err.Error()
		}
	}
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, msgUnavailable
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// respondError writes the mapped status. 5xx are logged at error with the
// underlying cause, client errors at info.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code, msg := statusFor(err)
	h.logOutcome(code, logKey, err, kv...)
	c.JSON(code, gin.H{"error": msg})
}

func (h *Handler) abortWithError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code, msg := statusFor(err)
	h.logOutcome(code, logKey, err, kv...)
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

func (h *Handler) logOutcome(code int, logKey string, err error, kv ...interface{}) {
	fields := append([]interface{}{"err", err, "status", code}, kv...)
	if code >= http.StatusInternalServerError {
		h.log.Errorw(logKey, fields...)
		return
	}
	h.log.Infow(logKey, fields...)
}

// bindJSONOrBadRequest decodes the body into dst and writes a 400 on failure.
// Returns false if the request was already handled.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}
