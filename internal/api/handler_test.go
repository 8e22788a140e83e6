package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dipbuyer/internal/bot"
	"dipbuyer/internal/domain/dto"
	"dipbuyer/internal/domain/models"
)

type stubStatus struct {
	snap bot.Snapshot
}

func (s *stubStatus) Snapshot() bot.Snapshot { return s.snap }

type stubJournal struct {
	rows []models.Buyback
	err  error
	got  int
}

func (s *stubJournal) InsertBuyback(models.Buyback) error { return nil }
func (s *stubJournal) ListRecent(limit int) ([]models.Buyback, error) {
	s.got = limit
	return s.rows, s.err
}

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/status", h.GetStatus)
	v1.GET("/buybacks", h.GetBuybacks)
	return r
}

func TestGetStatus(t *testing.T) {
	last := &models.Buyback{ID: "bb-1"}
	status := &stubStatus{snap: bot.Snapshot{
		Mint:        "MintXYZ",
		LastPrice:   0.9,
		ATH:         1.2,
		Dip:         0.25,
		Cycles:      42,
		LastBuyback: last,
		UpdatedAt:   time.Now().UTC(),
	}}
	h := NewHandler(status, nil, 0.25, 0.9)
	r := setupRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d", w.Code)
	}

	var out dto.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Mint != "MintXYZ" || out.ATH != 1.2 || out.Dip != 0.25 || out.Cycles != 42 {
		t.Fatalf("unexpected body: %+v", out)
	}
	if out.DipThreshold != 0.25 || out.SpendFraction != 0.9 {
		t.Fatalf("strategy params missing: %+v", out)
	}
	if out.LastBuybackID != "bb-1" {
		t.Fatalf("last buyback id %q", out.LastBuybackID)
	}
}

func TestGetBuybacks_TableDriven(t *testing.T) {
	row := models.Buyback{ID: "bb-1", Venue: "pumpfun", Signature: "sig"}

	cases := []struct {
		name      string
		journal   *stubJournal
		query     string
		status    int
		wantLimit int
	}{
		{
			name:      "default limit",
			journal:   &stubJournal{rows: []models.Buyback{row}},
			query:     "/api/v1/buybacks",
			status:    http.StatusOK,
			wantLimit: 20,
		},
		{
			name:      "explicit limit",
			journal:   &stubJournal{},
			query:     "/api/v1/buybacks?limit=5",
			status:    http.StatusOK,
			wantLimit: 5,
		},
		{
			name:      "limit capped",
			journal:   &stubJournal{},
			query:     "/api/v1/buybacks?limit=5000",
			status:    http.StatusOK,
			wantLimit: 100,
		},
		{
			name:    "bad limit",
			journal: &stubJournal{},
			query:   "/api/v1/buybacks?limit=-3",
			status:  http.StatusBadRequest,
		},
		{
			name:    "db failure",
			journal: &stubJournal{err: errors.New("db down")},
			query:   "/api/v1/buybacks",
			status:  http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(&stubStatus{}, tc.journal, 0.25, 0.9)
			r := setupRouter(h)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.query, nil))
			if w.Code != tc.status {
				t.Fatalf("code=%d, want %d", w.Code, tc.status)
			}
			if tc.wantLimit != 0 && tc.journal.got != tc.wantLimit {
				t.Fatalf("limit=%d, want %d", tc.journal.got, tc.wantLimit)
			}
		})
	}
}

func TestGetBuybacks_NoJournal(t *testing.T) {
	h := NewHandler(&stubStatus{}, nil, 0.25, 0.9)
	r := setupRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/buybacks", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("code=%d, want 503", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		ping      func() error
		wantReady int
	}{
		{name: "no journal", ping: nil, wantReady: 200},
		{name: "journal reachable", ping: func() error { return nil }, wantReady: 200},
		{name: "journal down", ping: func() error { return errors.New("dead") }, wantReady: 503},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.ping).Register(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			if w.Code != 200 {
				t.Fatalf("healthz=%d", w.Code)
			}

			w = httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if w.Code != tc.wantReady {
				t.Fatalf("readyz=%d, want %d", w.Code, tc.wantReady)
			}
		})
	}
}

func TestRouter_RoutesRegistered(t *testing.T) {
	h := NewHandler(&stubStatus{}, &stubJournal{}, 0.25, 0.9)
	r := NewRouter(h)

	for _, path := range []string{"/api/v1/status", "/api/v1/buybacks"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code == http.StatusNotFound {
			t.Fatalf("%s not registered", path)
		}
		if w.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s missing request id", path)
		}
	}
}
