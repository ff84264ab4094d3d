package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"library_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil, Config{})
	r.GET("/secure", h.identityMiddleware, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": identity(c).UserID})
	})
	r.GET("/admin", h.identityMiddleware, h.requireAdmin, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestIdentityMiddleware_Errors(t *testing.T) {
	cases := []struct {
		name   string
		header string
		errMsg string
	}{
		{name: "missing header", header: "", errMsg: "missing Authorization header"},
		{name: "invalid scheme", header: "Token abc", errMsg: "invalid Authorization header format"},
		{name: "bearer without token", header: "Bearer", errMsg: "invalid Authorization header format"},
		{name: "bearer blank token", header: "Bearer   ", errMsg: "invalid Authorization header format"},
		{name: "expired/invalid token", header: "Bearer expired", errMsg: "invalid or expired token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := newMockAuth()
			r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			expectStatus(t, w, http.StatusUnauthorized)
			if got := errorBody(t, w); got != tc.errMsg {
				t.Fatalf("error: got %q, want %q", got, tc.errMsg)
			}
			if tc.name != "expired/invalid token" && auth.lastParseToken != "" {
				t.Fatalf("token must not be parsed for a malformed header")
			}
		})
	}
}

func TestIdentityMiddleware_SetsIdentity(t *testing.T) {
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: newMockAuth()})

	w := doRequest(t, r, http.MethodGet, "/secure", memberToken, "")
	expectStatus(t, w, http.StatusOK)

	var out map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out["userId"] != testMember.UserID {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: newMockAuth()})

	w := doRequest(t, r, http.MethodGet, "/admin", memberToken, "")
	expectStatus(t, w, http.StatusForbidden)
	if got := errorBody(t, w); got != "forbidden" {
		t.Fatalf("unexpected error %q", got)
	}

	w = doRequest(t, r, http.MethodGet, "/admin", adminToken, "")
	expectStatus(t, w, http.StatusOK)
}
