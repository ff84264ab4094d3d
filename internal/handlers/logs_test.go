package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"library_backend/internal/models"
	"library_backend/internal/service"
)

func newAdminService(ev *mockEventLog, st *mockStats) *service.Service {
	return &service.Service{Authorization: newMockAuth(), EventLog: ev, Stats: st}
}

func TestGetEvents_ParsesRange(t *testing.T) {
	ev := &mockEventLog{resp: []models.CirculationEvent{{EventID: "e1", Type: "BORROW"}}}
	r := newTestRouter(newAdminService(ev, &mockStats{}))

	w := doRequest(t, r, http.MethodGet, "/api/library/admin/events?from=2025-08-01&to=2025-08-31&type=borrow", adminToken, "")
	expectStatus(t, w, http.StatusOK)

	var body struct {
		Count  int                       `json:"count"`
		Events []models.CirculationEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Events[0].EventID != "e1" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	wantFrom := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	if !ev.lastFilter.From.Equal(wantFrom) || !ev.lastFilter.To.Equal(wantTo) {
		t.Fatalf("range: got %v..%v", ev.lastFilter.From, ev.lastFilter.To)
	}
	if ev.lastFilter.Type != "borrow" {
		t.Fatalf("type should be passed as given, got %q", ev.lastFilter.Type)
	}
}

func TestGetEvents_TimestampTo_NotExtended(t *testing.T) {
	ev := &mockEventLog{}
	r := newTestRouter(newAdminService(ev, &mockStats{}))

	w := doRequest(t, r, http.MethodGet, "/api/library/admin/events?to=2025-08-31T10:00:00Z", adminToken, "")
	expectStatus(t, w, http.StatusOK)
	if want := time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC); !ev.lastFilter.To.Equal(want) {
		t.Fatalf("to: got %v, want %v", ev.lastFilter.To, want)
	}
	if !ev.lastFilter.From.IsZero() {
		t.Fatalf("from should be open, got %v", ev.lastFilter.From)
	}
}

func TestGetEvents_Rejections(t *testing.T) {
	ev := &mockEventLog{}
	r := newTestRouter(newAdminService(ev, &mockStats{}))

	w := doRequest(t, r, http.MethodGet, "/api/library/admin/events?from=yesterday", adminToken, "")
	expectStatus(t, w, http.StatusBadRequest)
	if got := errorBody(t, w); got != errFromInvalid {
		t.Fatalf("error: %q", got)
	}

	w = doRequest(t, r, http.MethodGet, "/api/library/admin/events?to=31-08-2025", adminToken, "")
	expectStatus(t, w, http.StatusBadRequest)
	if got := errorBody(t, w); got != errToInvalid {
		t.Fatalf("error: %q", got)
	}

	w = doRequest(t, r, http.MethodGet, "/api/library/admin/events", memberToken, "")
	expectStatus(t, w, http.StatusForbidden)

	if ev.calls != 0 {
		t.Fatalf("service should not be called, calls=%d", ev.calls)
	}

	ev.err = service.ErrInvalidTimeRange
	w = doRequest(t, r, http.MethodGet, "/api/library/admin/events?from=2025-09-01&to=2025-08-01", adminToken, "")
	expectStatus(t, w, http.StatusBadRequest)
}

func TestGetStats(t *testing.T) {
	st := &mockStats{stats: models.CirculationStats{Books: 3, Copies: 12, Available: 10, ActiveBorrows: 2}}
	r := newTestRouter(newAdminService(&mockEventLog{}, st))

	w := doRequest(t, r, http.MethodGet, "/api/library/admin/stats", adminToken, "")
	expectStatus(t, w, http.StatusOK)
	var got models.CirculationStats
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Books != 3 || got.Copies != 12 || got.ActiveBorrows != 2 {
		t.Fatalf("unexpected stats: %s", w.Body.String())
	}

	st.err = errors.New("db down")
	w = doRequest(t, r, http.MethodGet, "/api/library/admin/stats", adminToken, "")
	expectStatus(t, w, http.StatusInternalServerError)
}

func TestParseQueryTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-08-27T15:04:05Z", time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC), true},
		{"2025-08-27T18:04:05+03:00", time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC), true},
		{"2025-08-27 15:04:05", time.Date(2025, 8, 27, 15, 4, 5, 0, time.UTC), true},
		{"2025-08-27", time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC), true},
		{"27/08/2025", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := parseQueryTime(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("%q: err=%v", tc.in, err)
		}
		if tc.ok && (!got.Equal(tc.want) || got.Location() != time.UTC) {
			t.Fatalf("%q: got %v", tc.in, got)
		}
	}
}
