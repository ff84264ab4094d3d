package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"library_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 2 * time.Second
	minInterval      = 100 * time.Millisecond
	maxInterval      = time.Minute
	maxIntervalMilli = 60_000
)

// wsEnvelope frames every message pushed on /ws/stats.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// upgrader accepts same-origin requests and the configured CORS origins.
func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: h.checkOrigin}
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return strings.EqualFold(strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://"), r.Host)
}

// wsToken reads ?token= first, then the Authorization header. Browsers cannot
// set headers on a websocket handshake.
func wsToken(c *gin.Context) (string, string) {
	if t := strings.TrimSpace(c.Query("token")); t != "" {
		return t, ""
	}
	return bearerToken(c)
}

// @Summary      Live circulation counters
// @Description  Upgrades to a websocket and pushes {"type":"stats","data":...} on every tick.
// @Tags         system
// @Param        token     query  string  false  "Access token, if no Authorization header"
// @Param        interval  query  string  false  "Push interval, e.g. 2s"
// @Failure      401  {object}  map[string]string
// @Router       /ws/stats [get]
func (h *Handler) wsStats(c *gin.Context) {
	token, msg := wsToken(c)
	if msg != "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}
	who, err := h.services.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": models.ErrInvalidToken.Error()})
		return
	}

	interval := h.parseInterval(c)

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err, "user_id", who.UserID)
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	// Periodic writers: snapshots and pings.
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// First snapshot goes out immediately.
	if err := h.sendStats(c.Request.Context(), conn); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err)
		return
	}

	// Writer/select loop.
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := h.sendStats(c.Request.Context(), conn); err != nil {
				h.log.Infow("ws_write_failed", "err", err)
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 within bounds,
// falling back to the configured default.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			if d := time.Duration(v) * time.Millisecond; d >= minInterval {
				return d
			}
		}
	}

	return h.cfg.StatsInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// sendStats writes the current counters with a write deadline. A failed
// lookup is reported to the client before the connection closes.
func (h *Handler) sendStats(ctx context.Context, conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	st, err := h.services.Stats.Current(ctx)
	if err != nil {
		h.log.Errorw("ws_get_stats_failed", "err", err)
		_ = conn.WriteJSON(wsEnvelope{Type: "error", Error: msgInternal})
		return err
	}
	return conn.WriteJSON(wsEnvelope{Type: "stats", Data: st})
}
