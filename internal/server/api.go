package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/services"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrInvalidTransition), errors.Is(err, shared.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidBook),
		errors.Is(err, shared.ErrInvalidSession):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// API serves the services as JSON.
type API struct {
	Library   *services.Library
	Planner   *services.Planner
	Profile   *services.Profile
	Dashboard *services.Dashboard
	Logger    *log.Logger
}

// Register adds every API route to r.
func (a *API) Register(r Router) {
	r.Handler(HealthHandler{})
	r.Handle(http.MethodGet, "/api/stats", a.handle(a.stats))
	r.Handle(http.MethodGet, "/api/achievements", a.handle(a.achievements))
	r.Handle(http.MethodGet, "/api/books", a.handle(a.listBooks))
	r.Handle(http.MethodPost, "/api/books", a.handle(a.addBook))
	r.Handle(http.MethodGet, "/api/books/{id}", a.handle(a.getBook))
	r.Handle(http.MethodPatch, "/api/books/{id}", a.handle(a.updateBook))
	r.Handle(http.MethodDelete, "/api/books/{id}", a.handle(a.deleteBook))
	r.Handle(http.MethodGet, "/api/sessions", a.handle(a.listSessions))
	r.Handle(http.MethodPost, "/api/sessions", a.handle(a.logSession))
	r.Handle(http.MethodGet, "/api/sessions/today", a.handle(a.today))
	r.Handle(http.MethodGet, "/api/user", a.handle(a.user))
}

// apiFunc returns a status and body, or an error to be mapped by [statusFor].
type apiFunc func(r *http.Request) (int, any, error)

func (a *API) handle(fn apiFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body, err := fn(r)
		if err != nil {
			status = statusFor(err)
			if status == http.StatusInternalServerError && a.Logger != nil {
				a.Logger.Error("api error", "path", r.URL.Path, "err", err)
			}
			writeJSON(w, status, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, status, body)
	})
}

// HealthHandler answers liveness checks.
type HealthHandler struct{}

func (HealthHandler) Routes() []string { return []string{"/health"} }

func (HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) stats(r *http.Request) (int, any, error) {
	view, err := a.loadDashboard(r)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, view.Snapshot, nil
}

func (a *API) achievements(r *http.Request) (int, any, error) {
	view, err := a.loadDashboard(r)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, view.Achievements, nil
}

// loadDashboard honors an optional ?now=YYYY-MM-DD.
func (a *API) loadDashboard(r *http.Request) (*services.DashboardView, error) {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return a.Dashboard.Load(r.Context())
	}
	day, err := models.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: now: %v", shared.ErrInvalidArgument, err)
	}
	return a.Dashboard.LoadAt(r.Context(), day.Time().Add(12*time.Hour))
}

func (a *API) listBooks(r *http.Request) (int, any, error) {
	q := r.URL.Query()
	books, err := a.Library.Shelf(r.Context(), q.Get("status"), q.Get("q"))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, books, nil
}

type addBookRequest struct {
	Title      string        `json:"title"`
	Author     string        `json:"author"`
	TotalPages int           `json:"totalPages"`
	Genre      string        `json:"genre"`
	Cover      string        `json:"cover"`
	Status     models.Status `json:"status"`
}

func (a *API) addBook(r *http.Request) (int, any, error) {
	var req addBookRequest
	if err := decode(r, &req); err != nil {
		return 0, nil, err
	}
	if req.Status != "" && !req.Status.Valid() {
		return 0, nil, fmt.Errorf("%w: unknown status %q", shared.ErrInvalidArgument, req.Status)
	}

	book, err := a.Library.Add(r.Context(), services.AddBookInput{
		Title:  req.Title,
		Author: req.Author,
		Pages:  req.TotalPages,
		Genre:  req.Genre,
		Cover:  req.Cover,
		Status: req.Status,
	})
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, book, nil
}

func (a *API) getBook(r *http.Request) (int, any, error) {
	book, err := a.Library.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, book, nil
}

// updateBookRequest applies only the fields that are present.
type updateBookRequest struct {
	CurrentPage *int           `json:"currentPage"`
	Status      *models.Status `json:"status"`
	Rating      *int           `json:"rating"`
	Notes       *string        `json:"notes"`
}

// validate rejects out-of-range fields before anything is applied.
func (req updateBookRequest) validate() error {
	switch {
	case req.Status != nil && !req.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidArgument, *req.Status)
	case req.CurrentPage != nil && *req.CurrentPage < 0:
		return fmt.Errorf("%w: currentPage must not be negative", shared.ErrInvalidArgument)
	case req.Rating != nil && (*req.Rating < 0 || *req.Rating > models.MaxRating):
		return fmt.Errorf("%w: rating must be between 0 and %d", shared.ErrInvalidArgument, models.MaxRating)
	}
	return nil
}

func (a *API) updateBook(r *http.Request) (int, any, error) {
	var req updateBookRequest
	if err := decode(r, &req); err != nil {
		return 0, nil, err
	}

	if err := req.validate(); err != nil {
		return 0, nil, err
	}

	ctx, id := r.Context(), r.PathValue("id")
	if _, err := a.Library.Get(ctx, id); err != nil {
		return 0, nil, err
	}

	book, err := a.Library.Patch(ctx, id, func(b *models.Book, today models.Date) error {
		if req.Status != nil {
			if err := b.SetStatus(*req.Status, today); err != nil {
				return err
			}
		}
		if req.CurrentPage != nil {
			if err := b.SetProgress(*req.CurrentPage, today); err != nil {
				return err
			}
		}
		if req.Rating != nil {
			if err := b.Rate(*req.Rating); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			b.Notes = strings.TrimSpace(*req.Notes)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, book, nil
}

func (a *API) deleteBook(r *http.Request) (int, any, error) {
	book, err := a.Library.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return 0, nil, err
	}
	if _, err := a.Library.Delete(r.Context(), book.ID); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, book, nil
}

func (a *API) listSessions(r *http.Request) (int, any, error) {
	sessions, err := a.Planner.Sessions(r.Context())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, sessions, nil
}

type logSessionRequest struct {
	Minutes   int    `json:"minutes"`
	Pages     int    `json:"pages"`
	BookTitle string `json:"bookTitle"`
}

func (a *API) logSession(r *http.Request) (int, any, error) {
	var req logSessionRequest
	if err := decode(r, &req); err != nil {
		return 0, nil, err
	}
	s, err := a.Planner.LogSession(r.Context(), req.Minutes, req.Pages, req.BookTitle)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, s, nil
}

func (a *API) today(r *http.Request) (int, any, error) {
	sum, err := a.Planner.Today(r.Context())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, sum, nil
}

func (a *API) user(r *http.Request) (int, any, error) {
	u, err := a.Profile.Current(r.Context())
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, u, nil
}
