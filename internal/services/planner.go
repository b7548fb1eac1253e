package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
	"github.com/desertthunder/bookmedia/internal/stats"
)

// TodaySummary is the planner's view of the current day.
type TodaySummary struct {
	Date     models.Date              `json:"date"`
	Sessions []*models.ReadingSession `json:"sessions"`
	Minutes  int                      `json:"minutes"`
	Pages    int                      `json:"pages"`
	Goal     int                      `json:"goal"`
	Percent  int                      `json:"percent"`
	Complete bool                     `json:"complete"`
}

// Planner logs reading sessions and tracks the daily goal.
type Planner struct {
	sessions SessionStore
	profile  *Profile
	now      Clock
	logger   *log.Logger
}

func NewPlanner(sessions SessionStore, profile *Profile, opts Options) *Planner {
	opts = opts.withDefaults()
	return &Planner{sessions: sessions, profile: profile, now: opts.Clock, logger: opts.Logger}
}

// LogSession appends a session dated today.
func (p *Planner) LogSession(ctx context.Context, minutes, pages int, bookTitle string) (*models.ReadingSession, error) {
	switch {
	case strings.TrimSpace(bookTitle) == "":
		return nil, fmt.Errorf("%w: book title", shared.ErrMissingArgument)
	case minutes <= 0:
		return nil, fmt.Errorf("%w: minutes must be positive", shared.ErrInvalidInput)
	case pages < 0:
		return nil, fmt.Errorf("%w: pages must not be negative", shared.ErrInvalidInput)
	}

	s := models.NewReadingSession(today(p.now), minutes, pages, bookTitle)
	if err := p.sessions.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to log session: %w", err)
	}

	p.logger.Debug("session logged", "book", s.BookTitle, "minutes", s.Minutes, "pages", s.Pages)
	return s, nil
}

// Today lists today's sessions and the progress towards the daily goal.
func (p *Planner) Today(ctx context.Context) (*TodaySummary, error) {
	day := today(p.now)
	sessions, err := p.sessions.List(ctx, map[string]any{"date": day})
	if err != nil {
		return nil, err
	}

	sum := &TodaySummary{Date: day, Sessions: sessions, Goal: p.profile.Goals(ctx).DailyMinutes}
	for _, s := range sessions {
		sum.Minutes += s.Minutes
		sum.Pages += s.Pages
	}
	sum.Percent, sum.Complete = stats.DailyGoalProgress(sum.Minutes, sum.Goal)
	return sum, nil
}

// Week returns minutes and pages for the last seven days, oldest first.
func (p *Planner) Week(ctx context.Context) ([]stats.DayActivity, error) {
	sessions, err := p.sessions.All(ctx)
	if err != nil {
		return nil, err
	}
	return stats.WeekActivity(sessions, p.now()), nil
}

// Sessions lists every logged session, oldest first.
func (p *Planner) Sessions(ctx context.Context) ([]*models.ReadingSession, error) {
	return p.sessions.List(ctx, nil)
}

// SetDailyGoal changes the daily minutes target on the profile.
func (p *Planner) SetDailyGoal(ctx context.Context, minutes int) (*models.User, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: daily goal must be between %d and %d minutes",
			shared.ErrInvalidInput, models.MinDailyMinutes, models.MaxDailyMinutes)
	}
	return p.profile.SetGoals(ctx, models.Goals{DailyMinutes: minutes})
}
