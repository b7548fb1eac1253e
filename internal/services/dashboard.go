package services

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/achievements"
	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
	"github.com/desertthunder/bookmedia/internal/stats"
)

// DashboardView is everything the stats screens render.
type DashboardView struct {
	User         *models.User         `json:"user,omitempty"`
	Snapshot     stats.Snapshot       `json:"stats"`
	Achievements achievements.Summary `json:"achievements"`
}

// Dashboard computes statistics from the stored library.
type Dashboard struct {
	books    BookStore
	sessions SessionStore
	users    ProfileStore
	opts     Options
}

func NewDashboard(books BookStore, sessions SessionStore, users ProfileStore, opts Options) *Dashboard {
	return &Dashboard{books: books, sessions: sessions, users: users, opts: opts.withDefaults()}
}

// Load computes the dashboard as of the clock's current time.
func (d *Dashboard) Load(ctx context.Context) (*DashboardView, error) {
	return d.LoadAt(ctx, d.opts.Clock())
}

// LoadAt computes the dashboard as of now. Malformed stored collections are logged and read as empty;
// any other storage error is returned.
func (d *Dashboard) LoadAt(ctx context.Context, now time.Time) (*DashboardView, error) {
	logger := shared.WithLogger(d.opts.Logger, "component", "dashboard")

	books, err := d.books.All(ctx)
	if err != nil {
		if books, err = recoverMalformed[models.Book](logger, "books", err); err != nil {
			return nil, err
		}
	}

	sessions, err := d.sessions.All(ctx)
	if err != nil {
		if sessions, err = recoverMalformed[models.ReadingSession](logger, "sessions", err); err != nil {
			return nil, err
		}
	}

	user, err := d.users.Get(ctx)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		user = nil
	case errors.Is(err, shared.ErrMalformedData):
		logger.Warn("stored profile unreadable, using default goals", "err", err)
		user = nil
	case err != nil:
		return nil, err
	}

	snap := stats.ComputeWith(stats.Input{
		Books:    books,
		Sessions: sessions,
		Goals:    user.Goals(d.opts.Goals),
		Now:      now,
	}, d.opts.Stats)

	return &DashboardView{
		User:         user,
		Snapshot:     snap,
		Achievements: achievements.Summarize(snap),
	}, nil
}

func recoverMalformed[T any](logger *log.Logger, what string, err error) ([]T, error) {
	if !errors.Is(err, shared.ErrMalformedData) {
		return nil, err
	}
	logger.Warn("stored data unreadable, treating as empty", "collection", what, "err", err)
	return []T{}, nil
}
