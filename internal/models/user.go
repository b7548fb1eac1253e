package models

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/desertthunder/bookmedia/internal/shared"
)

const (
	DefaultDailyMinutes = 30
	DefaultYearlyBooks  = 24

	MinDailyMinutes = 5
	MaxDailyMinutes = 240
	MinYearlyBooks  = 1
	MaxYearlyBooks  = 365
)

// Genres is the list offered during onboarding and when adding a book.
var Genres = []string{
	"Science Fiction",
	"Fantasy",
	"Mystery",
	"Romance",
	"History",
	"Biography",
	"Philosophy",
	"Psychology",
	"Self-Help",
	"Classics",
}

// Goals are the reading targets the statistics are measured against.
type Goals struct {
	DailyMinutes int `json:"dailyMinutes"`
	YearlyBooks  int `json:"yearlyBooks"`
}

// DefaultGoals returns 30 minutes a day and 24 books a year.
func DefaultGoals() Goals {
	return Goals{DailyMinutes: DefaultDailyMinutes, YearlyBooks: DefaultYearlyBooks}
}

// WithDefaults replaces non-positive targets with the values from fallback.
func (g Goals) WithDefaults(fallback Goals) Goals {
	if g.DailyMinutes <= 0 {
		g.DailyMinutes = fallback.DailyMinutes
	}
	if g.YearlyBooks <= 0 {
		g.YearlyBooks = fallback.YearlyBooks
	}
	return g
}

// Validate enforces the ranges accepted by onboarding and the planner.
func (g Goals) Validate() error {
	if g.DailyMinutes < MinDailyMinutes || g.DailyMinutes > MaxDailyMinutes {
		return fmt.Errorf("%w: daily goal must be %d-%d minutes", shared.ErrInvalidInput, MinDailyMinutes, MaxDailyMinutes)
	}
	if g.YearlyBooks < MinYearlyBooks || g.YearlyBooks > MaxYearlyBooks {
		return fmt.Errorf("%w: yearly goal must be %d-%d books", shared.ErrInvalidInput, MinYearlyBooks, MaxYearlyBooks)
	}
	return nil
}

// Preferences are collected by the onboarding wizard.
type Preferences struct {
	FavoriteGenres       []string `json:"favoriteGenres"`
	DailyGoal            int      `json:"dailyGoal"`
	YearlyGoal           int      `json:"yearlyGoal"`
	NotificationsEnabled bool     `json:"notificationsEnabled"`
	ProfilePhoto         string   `json:"profilePhoto,omitempty"`
}

// DefaultPreferences mirrors the wizard's initial state.
func DefaultPreferences() Preferences {
	return Preferences{
		FavoriteGenres:       []string{},
		DailyGoal:            DefaultDailyMinutes,
		YearlyGoal:           DefaultYearlyBooks,
		NotificationsEnabled: true,
	}
}

// ToggleGenre adds genre if absent and removes it otherwise.
func (p *Preferences) ToggleGenre(genre string) {
	if i := slices.Index(p.FavoriteGenres, genre); i >= 0 {
		p.FavoriteGenres = slices.Delete(p.FavoriteGenres, i, i+1)
		return
	}
	p.FavoriteGenres = append(p.FavoriteGenres, genre)
}

// User is the single local profile. There is no credential: login only selects this profile.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	FirstName    string       `json:"firstName,omitempty"`
	LastName     string       `json:"lastName,omitempty"`
	Name         string       `json:"name"`
	Username     string       `json:"username,omitempty"`
	BirthDate    Date         `json:"birthDate"`
	IsNewUser    bool         `json:"isNewUser"`
	Onboarded    bool         `json:"onboarded"`
	ProfilePhoto string       `json:"profilePhoto,omitempty"`
	Preferences  *Preferences `json:"preferences,omitempty"`
}

var _ Model = (*User)(nil)

func (u *User) Identifier() string { return u.ID }

func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: email is required", shared.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", shared.ErrInvalidInput, u.Email)
	}
	return nil
}

// Goals returns the profile's targets, falling back to defaults for anything unset.
func (u *User) Goals(fallback Goals) Goals {
	if u == nil || u.Preferences == nil {
		return fallback
	}
	return Goals{DailyMinutes: u.Preferences.DailyGoal, YearlyBooks: u.Preferences.YearlyGoal}.WithDefaults(fallback)
}

// Initials returns up to two uppercase initials from the display name, e.g. for an avatar.
func (u *User) Initials() string {
	var initials []rune
	for _, part := range strings.Fields(u.Name) {
		initials = append(initials, []rune(part)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}
