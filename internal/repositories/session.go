package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// SessionRepository persists the append-only reading log.
//
// It satisfies [models.Repository] so it can be used wherever a repository is expected, but Update and Delete
// always fail with [shared.ErrImmutable].
type SessionRepository struct {
	mu       sync.Mutex
	sessions collection[models.ReadingSession]
}

var _ models.Repository[*models.ReadingSession] = (*SessionRepository)(nil)

func NewSessionRepository(store Store) *SessionRepository {
	return &SessionRepository{sessions: collection[models.ReadingSession]{store: store, key: SessionsKey}}
}

// Create validates and appends a session
func (r *SessionRepository) Create(ctx context.Context, session *models.ReadingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == "" {
		session.ID = shared.GenerateID()
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sessions, err := r.sessions.load(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(sessions, func(s models.ReadingSession) bool { return s.ID == session.ID }) {
		return fmt.Errorf("%w: session %s", shared.ErrDuplicateID, session.ID)
	}

	return r.sessions.save(ctx, append(sessions, *session))
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*models.ReadingSession, error) {
	sessions, err := r.sessions.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%w: session %s", shared.ErrNotFound, id)
}

func (r *SessionRepository) Update(context.Context, *models.ReadingSession) error {
	return fmt.Errorf("%w: reading sessions cannot be edited", shared.ErrImmutable)
}

func (r *SessionRepository) Delete(context.Context, string) error {
	return fmt.Errorf("%w: reading sessions cannot be deleted", shared.ErrImmutable)
}

// List retrieves sessions in the order they were logged.
//
// Supported criteria:
//   - "date": a [models.Date], restricting to one day
//   - "since": a [models.Date], restricting to that day and later
//   - "book": exact book title
func (r *SessionRepository) List(ctx context.Context, criteria map[string]any) ([]*models.ReadingSession, error) {
	sessions, err := r.sessions.load(ctx)
	if err != nil {
		return nil, err
	}

	date, _ := criteria["date"].(models.Date)
	since, _ := criteria["since"].(models.Date)
	book, _ := criteria["book"].(string)

	out := make([]*models.ReadingSession, 0, len(sessions))
	for _, s := range sessions {
		if !date.IsZero() && !s.Date.Equal(date) {
			continue
		}
		if !since.IsZero() && s.Date.Before(since) {
			continue
		}
		if book != "" && s.BookTitle != book {
			continue
		}
		out = append(out, &s)
	}
	return out, nil
}

// All returns every stored session by value
func (r *SessionRepository) All(ctx context.Context) ([]models.ReadingSession, error) {
	return r.sessions.load(ctx)
}
