package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"library_backend/internal/models"
	"library_backend/internal/service"
)

func TestAuthHandlers_LoginRegisterVerify(t *testing.T) {
	profile := models.UserProfile{ID: "u1", Username: "ann", Name: "Ann", Email: "ann@example.com", Role: models.RoleMember}
	auth := newMockAuth()
	auth.loginRes = service.AuthResult{Token: "tok123", User: profile}
	auth.registerRes = profile
	auth.verifyRes = profile
	r := newTestRouter(&service.Service{Authorization: auth})

	// login success
	w := doRequest(t, r, http.MethodPost, "/api/auth/login", "", `{"email":"Ann@Example.com","password":"p"}`)
	expectStatus(t, w, http.StatusOK)
	var res service.AuthResult
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.Token != "tok123" || res.User.ID != "u1" {
		t.Fatalf("unexpected login body: %s", w.Body.String())
	}
	if auth.lastLoginEmail != "Ann@Example.com" {
		t.Fatalf("email should reach the service untouched, got %q", auth.lastLoginEmail)
	}

	// register success
	w = doRequest(t, r, http.MethodPost, "/api/auth/register", "",
		`{"username":"ann","name":"Ann","email":"ann@example.com","password":"p","phone":"555"}`)
	expectStatus(t, w, http.StatusOK)
	if auth.lastRegister.Phone != "555" || auth.lastRegister.Username != "ann" {
		t.Fatalf("unexpected registration: %+v", auth.lastRegister)
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if _, leaked := m["passwordHash"]; leaked {
		t.Fatalf("profile leaked a hash: %s", w.Body.String())
	}

	// verify success
	w = doRequest(t, r, http.MethodGet, "/api/auth/verify", "tok123", "")
	expectStatus(t, w, http.StatusOK)
	if auth.lastVerifyToken != "tok123" {
		t.Fatalf("unexpected token %q", auth.lastVerifyToken)
	}

	// bad body → 400
	w = doRequest(t, r, http.MethodPost, "/api/auth/login", "", `{"email":1}`)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestAuthHandlers_Failures(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(*mockAuth)
		method string
		path   string
		token  string
		body   string
		code   int
		msg    string
	}{
		{
			name:   "login invalid credentials",
			setup:  func(m *mockAuth) { m.loginErr = models.ErrInvalidCredentials },
			method: http.MethodPost, path: "/api/auth/login", body: `{"email":"a@b.c","password":"x"}`,
			code: http.StatusUnauthorized, msg: "invalid credentials",
		},
		{
			name:   "register duplicate email",
			setup:  func(m *mockAuth) { m.registerErr = models.ErrDuplicateEmail },
			method: http.MethodPost, path: "/api/auth/register", body: `{"username":"a","name":"A","email":"a@b.c","password":"x"}`,
			code: http.StatusConflict, msg: models.ErrDuplicateEmail.Error(),
		},
		{
			name:   "register validation",
			setup:  func(m *mockAuth) { m.registerErr = &models.ValidationError{Field: "email", Reason: "should be valid"} },
			method: http.MethodPost, path: "/api/auth/register", body: `{"username":"a","name":"A","email":"nope","password":"x"}`,
			code: http.StatusBadRequest, msg: "email should be valid",
		},
		{
			name:   "verify without header",
			setup:  func(m *mockAuth) {},
			method: http.MethodGet, path: "/api/auth/verify",
			code: http.StatusUnauthorized, msg: "missing Authorization header",
		},
		{
			name:   "verify deleted account",
			setup:  func(m *mockAuth) { m.verifyErr = models.ErrUserNotFound },
			method: http.MethodGet, path: "/api/auth/verify", token: "tok",
			code: http.StatusNotFound, msg: models.ErrUserNotFound.Error(),
		},
		{
			name:   "verify bad token",
			setup:  func(m *mockAuth) { m.verifyErr = models.ErrInvalidToken },
			method: http.MethodGet, path: "/api/auth/verify", token: "tok",
			code: http.StatusUnauthorized, msg: "invalid or expired token",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := newMockAuth()
			tc.setup(auth)
			r := newTestRouter(&service.Service{Authorization: auth})

			w := doRequest(t, r, tc.method, tc.path, tc.token, tc.body)
			expectStatus(t, w, tc.code)
			if got := errorBody(t, w); got != tc.msg {
				t.Fatalf("error: got %q, want %q", got, tc.msg)
			}
		})
	}
}
