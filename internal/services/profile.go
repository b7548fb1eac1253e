package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 8

// placeholderName is used for profiles created by login rather than signup.
const placeholderName = "Reader"

// SignupInput holds the registration form.
type SignupInput struct {
	FirstName       string
	LastName        string
	Username        string
	Email           string
	BirthDate       models.Date
	Password        string
	PasswordConfirm string
}

// FieldErrors maps form fields to validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for _, f := range []string{"firstName", "lastName", "username", "email", "birthDate", "password", "passwordConfirm"} {
		if msg, ok := e[f]; ok {
			fields = append(fields, f+": "+msg)
		}
	}
	return "invalid input: " + strings.Join(fields, "; ")
}

func (e FieldErrors) Unwrap() error { return shared.ErrInvalidInput }

// ValidatePassword enforces the signup password rules: at least eight characters and at least one letter.
func ValidatePassword(pwd string) error {
	if len([]rune(pwd)) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", shared.ErrInvalidInput, MinPasswordLength)
	}
	if !strings.ContainsFunc(pwd, unicode.IsLetter) {
		return fmt.Errorf("%w: password must contain at least one letter", shared.ErrInvalidInput)
	}
	return nil
}

// Validate reports every problem with the form at once.
func (in SignupInput) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(in.FirstName) == "" {
		errs["firstName"] = "required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs["lastName"] = "required"
	}
	if strings.TrimSpace(in.Username) == "" {
		errs["username"] = "required"
	}
	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "required"
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		errs["email"] = "not a valid address"
	}
	if in.BirthDate.IsZero() {
		errs["birthDate"] = "required"
	}
	if in.Password == "" {
		errs["password"] = "required"
	} else if err := ValidatePassword(in.Password); err != nil {
		errs["password"] = strings.TrimPrefix(err.Error(), shared.ErrInvalidInput.Error()+": ")
	}
	if in.PasswordConfirm == "" {
		errs["passwordConfirm"] = "required"
	} else if in.Password != in.PasswordConfirm {
		errs["passwordConfirm"] = "passwords do not match"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Profile manages the local user profile.
type Profile struct {
	users  ProfileStore
	goals  models.Goals
	logger *log.Logger
}

func NewProfile(users ProfileStore, opts Options) *Profile {
	opts = opts.withDefaults()
	return &Profile{users: users, goals: opts.Goals, logger: opts.Logger}
}

// Signup validates the form and stores a new profile that still needs onboarding. The password is discarded.
func (p *Profile) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
	user := &models.User{
		Email:     strings.TrimSpace(in.Email),
		FirstName: first,
		LastName:  last,
		Name:      first + " " + last,
		Username:  strings.TrimSpace(in.Username),
		BirthDate: in.BirthDate,
		IsNewUser: true,
	}
	if err := p.users.Save(ctx, user); err != nil {
		return nil, err
	}

	p.logger.Info("profile created", "username", user.Username)
	return user, nil
}

// Login selects the local profile. Any non-empty password is accepted; when no profile exists for email a
// placeholder one is created.
func (p *Profile) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return nil, fmt.Errorf("%w: email", shared.ErrMissingArgument)
	case password == "":
		return nil, fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	existing, err := p.users.Get(ctx)
	switch {
	case err == nil && strings.EqualFold(existing.Email, email):
		existing.IsNewUser = false
		if err := p.users.Save(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case err != nil && !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrMalformedData):
		return nil, err
	}

	user := &models.User{Email: email, Name: placeholderName}
	if err := p.users.Save(ctx, user); err != nil {
		return nil, err
	}
	p.logger.Info("logged in with new placeholder profile", "email", email)
	return user, nil
}

// Current returns the stored profile or [shared.ErrNotAuthenticated].
func (p *Profile) Current(ctx context.Context) (*models.User, error) {
	user, err := p.users.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: run `bookmedia user signup` or `bookmedia user login` first", shared.ErrNotAuthenticated)
	}
	return user, err
}

// Logout forgets the profile. Books and sessions are kept.
func (p *Profile) Logout(ctx context.Context) error {
	return p.users.Delete(ctx)
}

// Goals returns the profile's goals, or the configured defaults when logged out.
func (p *Profile) Goals(ctx context.Context) models.Goals {
	user, err := p.users.Get(ctx)
	if err != nil {
		return p.goals
	}
	return user.Goals(p.goals)
}

// SetGoals validates and stores new daily and yearly targets. Zero fields keep their current value.
func (p *Profile) SetGoals(ctx context.Context, goals models.Goals) (*models.User, error) {
	user, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}

	goals = goals.WithDefaults(user.Goals(p.goals))
	if err := goals.Validate(); err != nil {
		return nil, err
	}

	if user.Preferences == nil {
		prefs := models.DefaultPreferences()
		user.Preferences = &prefs
	}
	user.Preferences.DailyGoal = goals.DailyMinutes
	user.Preferences.YearlyGoal = goals.YearlyBooks

	if err := p.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// StartOnboarding returns a wizard seeded from the profile's current preferences.
func (p *Profile) StartOnboarding(ctx context.Context) (*Onboarding, error) {
	user, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}
	prefs := models.DefaultPreferences()
	if user.Preferences != nil {
		prefs = *user.Preferences
		prefs.FavoriteGenres = append([]string{}, user.Preferences.FavoriteGenres...)
	}
	return NewOnboarding(prefs), nil
}

// CompleteOnboarding stores the wizard's preferences and marks the profile onboarded.
func (p *Profile) CompleteOnboarding(ctx context.Context, w *Onboarding) (*models.User, error) {
	if !w.Done() {
		return nil, fmt.Errorf("%w: onboarding is on step %d of %d", shared.ErrInvalidInput, w.Step(), OnboardingSteps)
	}

	user, err := p.Current(ctx)
	if err != nil {
		return nil, err
	}

	prefs := w.Preferences()
	user.Preferences = &prefs
	user.ProfilePhoto = prefs.ProfilePhoto
	user.Onboarded = true
	user.IsNewUser = false

	if err := p.users.Save(ctx, user); err != nil {
		return nil, err
	}
	p.logger.Info("onboarding complete", "genres", len(prefs.FavoriteGenres))
	return user, nil
}
