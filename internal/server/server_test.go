package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/repositories"
	"github.com/desertthunder/bookmedia/internal/services"
	"github.com/desertthunder/bookmedia/internal/shared"
	"github.com/desertthunder/bookmedia/internal/stats"
)

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func newTestAPI(t *testing.T) (*API, *bytes.Buffer) {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := log.New(logs)
	store := repositories.NewMemoryStore()
	books := repositories.NewBookRepository(store)
	sessions := repositories.NewSessionRepository(store)
	users := repositories.NewUserRepository(store)
	opts := services.Options{Clock: services.FixedClock(testNow), Logger: logger}

	profile := services.NewProfile(users, opts)
	return &API{
		Library:   services.NewLibrary(books, opts),
		Planner:   services.NewPlanner(sessions, profile, opts),
		Profile:   profile,
		Dashboard: services.NewDashboard(books, sessions, users, opts),
		Logger:    logger,
	}, logs
}

func newTestServer(t *testing.T, cfg shared.ServerConfig) (http.Handler, *bytes.Buffer) {
	t.Helper()
	api, logs := newTestAPI(t)
	return New(cfg, api, api.Logger).Handler(), logs
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestBasicRouter(t *testing.T) {
	t.Run("method dispatch", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("get")) }))
		r.Handle(http.MethodPost, "/x", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("post")) }))

		if got := do(t, r, http.MethodGet, "/x", "").Body.String(); got != "get" {
			t.Errorf("GET = %q", got)
		}
		if got := do(t, r, http.MethodPost, "/x", "").Body.String(); got != "post" {
			t.Errorf("POST = %q", got)
		}

		w := do(t, r, http.MethodDelete, "/x", "")
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", w.Code)
		}
		if w.Header().Get("Allow") != "GET, POST" {
			t.Errorf("Allow = %q", w.Header().Get("Allow"))
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }))
		do(t, r, http.MethodGet, "/", "")

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	t.Run("RateLimit", func(t *testing.T) {
		h := RateLimit(0.001, 2)(ok)
		codes := []int{}
		for range 3 {
			codes = append(codes, do(t, h, http.MethodGet, "/", "").Code)
		}
		if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
			t.Errorf("unexpected codes %v", codes)
		}
	})

	t.Run("RateLimit disabled", func(t *testing.T) {
		h := RateLimit(0, 0)(ok)
		for range 50 {
			if code := do(t, h, http.MethodGet, "/", "").Code; code != http.StatusNoContent {
				t.Fatalf("expected no limiting, got %d", code)
			}
		}
	})

	t.Run("Logging", func(t *testing.T) {
		var buf bytes.Buffer
		do(t, Logging(log.New(&buf))(ok), http.MethodGet, "/books", "")
		if out := buf.String(); !strings.Contains(out, "path=/books") || !strings.Contains(out, "status=204") {
			t.Errorf("unexpected log line %q", out)
		}
	})

	t.Run("Recover", func(t *testing.T) {
		var buf bytes.Buffer
		boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
		w := do(t, Recover(log.New(&buf))(boom), http.MethodGet, "/", "")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}
	})
}

func TestAPI(t *testing.T) {
	cfg := shared.ServerConfig{Host: "127.0.0.1", Port: 0}

	t.Run("health", func(t *testing.T) {
		h, _ := newTestServer(t, cfg)
		w := do(t, h, http.MethodGet, "/health", "")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
			t.Errorf("unexpected health response %d %s", w.Code, w.Body)
		}
	})

	t.Run("books", func(t *testing.T) {
		h, _ := newTestServer(t, cfg)

		w := do(t, h, http.MethodPost, "/api/books", `{"title":"Dune","author":"Frank Herbert","totalPages":400}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
		}
		var book models.Book
		if err := json.Unmarshal(w.Body.Bytes(), &book); err != nil {
			t.Fatalf("bad JSON: %v", err)
		}

		w = do(t, h, http.MethodPatch, "/api/books/"+book.ID, `{"currentPage":400,"rating":5}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
		}
		_ = json.Unmarshal(w.Body.Bytes(), &book)
		if book.Status != models.StatusFinished || book.Rating != 5 {
			t.Errorf("unexpected book after patch %+v", book)
		}

		w = do(t, h, http.MethodPatch, "/api/books/"+book.ID, `{"status":"reading"}`)
		if w.Code != http.StatusConflict {
			t.Errorf("reopening should conflict, got %d", w.Code)
		}

		w = do(t, h, http.MethodGet, "/api/books?status=finished&q=dune", "")
		var list []models.Book
		_ = json.Unmarshal(w.Body.Bytes(), &list)
		if len(list) != 1 {
			t.Errorf("expected 1 finished book, got %d", len(list))
		}

		if w := do(t, h, http.MethodDelete, "/api/books/"+book.ID, ""); w.Code != http.StatusOK {
			t.Errorf("expected 200 on delete, got %d", w.Code)
		}
		if w := do(t, h, http.MethodGet, "/api/books/"+book.ID, ""); w.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", w.Code)
		}
	})

	t.Run("rejected patch leaves the book unchanged", func(t *testing.T) {
		tc := []struct {
			name, body string
			want       int
		}{
			{"rating out of range", `{"currentPage":400,"rating":9}`, http.StatusBadRequest},
			{"negative page", `{"notes":"loved it","currentPage":-1}`, http.StatusBadRequest},
			{"unknown status", `{"rating":4,"status":"lost"}`, http.StatusBadRequest},
			{"progress after finishing", `{"status":"finished","currentPage":10}`, http.StatusConflict},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				h, _ := newTestServer(t, cfg)

				w := do(t, h, http.MethodPost, "/api/books", `{"title":"Dune","author":"Frank Herbert","totalPages":400}`)
				var book models.Book
				if err := json.Unmarshal(w.Body.Bytes(), &book); err != nil {
					t.Fatalf("bad JSON: %v", err)
				}

				if w := do(t, h, http.MethodPatch, "/api/books/"+book.ID, tt.body); w.Code != tt.want {
					t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body)
				}

				w = do(t, h, http.MethodGet, "/api/books/"+book.ID, "")
				var stored models.Book
				if err := json.Unmarshal(w.Body.Bytes(), &stored); err != nil {
					t.Fatalf("bad JSON: %v", err)
				}
				if stored.Status != models.StatusWantToRead || stored.CurrentPage != 0 || stored.Rating != 0 || stored.Notes != "" {
					t.Errorf("book changed by a rejected patch: %+v", stored)
				}

				w = do(t, h, http.MethodGet, "/api/stats?now=2024-03-15", "")
				var snap struct {
					Counts struct {
						Finished int `json:"finished"`
					} `json:"counts"`
				}
				_ = json.Unmarshal(w.Body.Bytes(), &snap)
				if snap.Counts.Finished != 0 {
					t.Errorf("expected no finished books, got %d", snap.Counts.Finished)
				}
			})
		}
	})

	t.Run("validation errors", func(t *testing.T) {
		h, _ := newTestServer(t, cfg)

		tc := []struct {
			method, path, body string
			want               int
		}{
			{http.MethodPost, "/api/books", `{"title":"","author":"A","totalPages":1}`, http.StatusBadRequest},
			{http.MethodPost, "/api/books", `{"title":"T","author":"A","totalPages":1,"status":"lost"}`, http.StatusBadRequest},
			{http.MethodPost, "/api/books", `not json`, http.StatusBadRequest},
			{http.MethodPost, "/api/sessions", `{"minutes":0,"bookTitle":"Dune"}`, http.StatusBadRequest},
			{http.MethodGet, "/api/stats?now=yesterday", "", http.StatusBadRequest},
			{http.MethodGet, "/api/books?status=borrowed", "", http.StatusBadRequest},
			{http.MethodGet, "/api/user", "", http.StatusUnauthorized},
			{http.MethodPut, "/api/books", "", http.StatusMethodNotAllowed},
		}
		for _, tt := range tc {
			w := do(t, h, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("%s %s = %d, want %d (%s)", tt.method, tt.path, w.Code, tt.want, w.Body)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Errorf("%s %s: expected an error body, got %s", tt.method, tt.path, w.Body)
			}
		}
	})

	t.Run("sessions and stats", func(t *testing.T) {
		h, logs := newTestServer(t, cfg)

		do(t, h, http.MethodPost, "/api/books", `{"title":"Dune","author":"Frank Herbert","totalPages":300,"status":"finished"}`)
		for _, body := range []string{`{"minutes":20,"pages":10,"bookTitle":"Dune"}`, `{"minutes":15,"pages":5,"bookTitle":"Dune"}`} {
			if w := do(t, h, http.MethodPost, "/api/sessions", body); w.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
			}
		}

		w := do(t, h, http.MethodGet, "/api/sessions/today", "")
		var today services.TodaySummary
		_ = json.Unmarshal(w.Body.Bytes(), &today)
		if today.Minutes != 35 || !today.Complete {
			t.Errorf("unexpected today summary %+v", today)
		}

		w = do(t, h, http.MethodGet, "/api/stats?now=2024-03-15", "")
		var snap stats.Snapshot
		if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
			t.Fatalf("bad JSON: %v", err)
		}
		if snap.TotalPages != 300 || snap.Daily.Minutes != 35 || len(snap.Monthly) != 6 {
			t.Errorf("unexpected snapshot %+v", snap)
		}

		w = do(t, h, http.MethodGet, "/api/stats?now=2024-03-16", "")
		_ = json.Unmarshal(w.Body.Bytes(), &snap)
		if snap.Daily.Minutes != 0 || snap.CurrentStreak != 1 {
			t.Errorf("stats should follow ?now, got daily %d streak %d", snap.Daily.Minutes, snap.CurrentStreak)
		}

		w = do(t, h, http.MethodGet, "/api/achievements", "")
		if !strings.Contains(w.Body.String(), `"first_book"`) {
			t.Errorf("unexpected achievements %s", w.Body)
		}

		if !strings.Contains(logs.String(), "path=/api/stats") {
			t.Error("requests should be logged")
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		h, _ := newTestServer(t, shared.ServerConfig{RateLimit: 0.001, Burst: 1})
		do(t, h, http.MethodGet, "/health", "")
		if w := do(t, h, http.MethodGet, "/api/books", ""); w.Code != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", w.Code)
		}
	})
}

func TestServe(t *testing.T) {
	api, _ := newTestAPI(t)
	srv := New(shared.ServerConfig{Host: "127.0.0.1"}, api, api.Logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
