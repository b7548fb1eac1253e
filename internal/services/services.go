package services

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/stats"
)

// Clock returns the current time.
type Clock func() time.Time

// BookStore is the persistence the [Library] and [Dashboard] need.
type BookStore interface {
	models.Repository[*models.Book]
	All(ctx context.Context) ([]models.Book, error)
}

// SessionStore is the append-only reading log.
type SessionStore interface {
	Create(ctx context.Context, session *models.ReadingSession) error
	List(ctx context.Context, criteria map[string]any) ([]*models.ReadingSession, error)
	All(ctx context.Context) ([]models.ReadingSession, error)
}

// ProfileStore holds the single local profile.
type ProfileStore interface {
	Get(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context) error
}

// Options are shared by every service constructor.
type Options struct {
	Clock  Clock
	Logger *log.Logger
	Goals  models.Goals  // used when the profile has none
	Stats  stats.Options // dashboard windows
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.Goals = o.Goals.WithDefaults(models.DefaultGoals())
	return o
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func today(c Clock) models.Date {
	return models.DateOf(c())
}
