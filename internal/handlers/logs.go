package handlers

import (
	"fmt"
	"net/http"
	"time"

	"library_backend/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string has no time component.
func isDateOnly(s string) bool {
	return len(s) == len(layoutDate)
}

// @Summary      Circulation history
// @Description  Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' covers that whole day.
// @Tags         admin
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range, inclusive"  example(2025-08-31)
// @Param        type  query   string  false  "Event type"  Enums(BORROW,RETURN,BOOK_ADDED,BOOK_UPDATED,BOOK_DELETED)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/library/admin/events [get]
// @Security     BearerAuth
func (h *Handler) getEvents(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	events, err := h.services.EventLog.List(c.Request.Context(), identity(c), service.LogFilter{
		From: from,
		To:   to,
		Type: c.Query("type"),
	})
	if err != nil {
		h.respondError(c, err, "events_list_failed", "from", from, "to", to, "type", c.Query("type"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// @Summary      Circulation counters
// @Tags         admin
// @Produce      json
// @Success      200  {object}  models.CirculationStats
// @Failure      403  {object}  map[string]string
// @Router       /api/library/admin/stats [get]
// @Security     BearerAuth
func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.services.Stats.Snapshot(c.Request.Context(), identity(c))
	if err != nil {
		h.respondError(c, err, "stats_failed")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// parseQueryTime accepts the formats listed in the events endpoint docs.
func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}

