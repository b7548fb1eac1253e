package services

import (
	"fmt"
	"slices"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// OnboardingSteps is the number of wizard steps: genres, goals, photo, summary.
const OnboardingSteps = 4

// MinFavoriteGenres must be picked before leaving the first step.
const MinFavoriteGenres = 3

// Onboarding is the first-run wizard. Steps are numbered from 1.
type Onboarding struct {
	step  int
	done  bool
	prefs models.Preferences
}

func NewOnboarding(prefs models.Preferences) *Onboarding {
	if prefs.FavoriteGenres == nil {
		prefs.FavoriteGenres = []string{}
	}
	return &Onboarding{step: 1, prefs: prefs}
}

func (w *Onboarding) Step() int { return w.step }

// Progress is step/4 as a percentage.
func (w *Onboarding) Progress() int { return w.step * 100 / OnboardingSteps }

func (w *Onboarding) Done() bool { return w.done }

func (w *Onboarding) Preferences() models.Preferences {
	p := w.prefs
	p.FavoriteGenres = slices.Clone(w.prefs.FavoriteGenres)
	return p
}

// ToggleGenre selects or deselects one of [models.Genres].
func (w *Onboarding) ToggleGenre(genre string) error {
	if !slices.Contains(models.Genres, genre) {
		return fmt.Errorf("%w: unknown genre %q", shared.ErrInvalidArgument, genre)
	}
	w.prefs.ToggleGenre(genre)
	return nil
}

// SetGoals sets the daily and yearly targets after range validation.
func (w *Onboarding) SetGoals(daily, yearly int) error {
	g := models.Goals{DailyMinutes: daily, YearlyBooks: yearly}
	if err := g.Validate(); err != nil {
		return err
	}
	w.prefs.DailyGoal, w.prefs.YearlyGoal = daily, yearly
	return nil
}

func (w *Onboarding) SetNotifications(enabled bool) { w.prefs.NotificationsEnabled = enabled }

func (w *Onboarding) SetPhoto(photo string) { w.prefs.ProfilePhoto = photo }

// CanAdvance reports why the current step cannot be left, if it cannot.
func (w *Onboarding) CanAdvance() error {
	if w.step == 1 && len(w.prefs.FavoriteGenres) < MinFavoriteGenres {
		return fmt.Errorf("%w: pick at least %d genres (%d selected)",
			shared.ErrInvalidInput, MinFavoriteGenres, len(w.prefs.FavoriteGenres))
	}
	return nil
}

// Next advances one step; on the last step it marks the wizard done.
func (w *Onboarding) Next() error {
	if err := w.CanAdvance(); err != nil {
		return err
	}
	if w.step < OnboardingSteps {
		w.step++
		return nil
	}
	w.done = true
	return nil
}

// Back returns to the previous step. It is a no-op on step 1.
func (w *Onboarding) Back() {
	if w.step > 1 {
		w.step--
		w.done = false
	}
}
