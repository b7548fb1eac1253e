package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/services"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// UserSignup validates the signup form and stores the profile.
func (r *Runner) UserSignup(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	in := services.SignupInput{
		FirstName:       cmd.String("first-name"),
		LastName:        cmd.String("last-name"),
		Username:        cmd.String("username"),
		Email:           cmd.String("email"),
		Password:        cmd.String("password"),
		PasswordConfirm: cmd.String("confirm"),
	}
	if raw := cmd.String("birth-date"); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			return err
		}
		in.BirthDate = date
	}

	user, err := r.profile.Signup(ctx, in)
	if err != nil {
		return err
	}

	r.writePlain("✓ Welcome, %s (@%s)\n", user.Name, user.Username)
	r.writePlain("Next: run 'bookmedia user onboard' to pick genres and goals\n")
	return nil
}

// UserLogin selects the local profile.
func (r *Runner) UserLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	user, err := r.profile.Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s <%s>\n", user.Name, user.Email)
	if !user.Onboarded {
		r.writePlain("Next: run 'bookmedia user onboard' to pick genres and goals\n")
	}
	return nil
}

// UserLogout forgets the profile.
func (r *Runner) UserLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}
	if err := r.profile.Logout(ctx); err != nil {
		return err
	}
	r.writePlain("✓ Logged out\n")
	return nil
}

// UserShow prints the current profile.
func (r *Runner) UserShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	user, err := r.profile.Current(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	goals := r.profile.Goals(ctx)
	r.writePlainHeader(fmt.Sprintf("%s (%s)", user.Name, user.Initials()))
	if user.Username != "" {
		r.writePlain("Username:  @%s\n", user.Username)
	}
	r.writePlain("Email:     %s\n", user.Email)
	if !user.BirthDate.IsZero() {
		r.writePlain("Born:      %s\n", user.BirthDate)
	}
	r.writePlain("Onboarded: %t\n", user.Onboarded)
	r.writePlain("Goals:     %d min/day, %d books/year\n", goals.DailyMinutes, goals.YearlyBooks)
	if user.Preferences != nil && len(user.Preferences.FavoriteGenres) > 0 {
		r.writePlain("Genres:    %s\n", strings.Join(user.Preferences.FavoriteGenres, ", "))
	}
	return nil
}

// UserOnboard runs the onboarding wizard non-interactively: one flag set per step.
func (r *Runner) UserOnboard(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	wizard, err := r.profile.StartOnboarding(ctx)
	if err != nil {
		return err
	}

	selected := wizard.Preferences().FavoriteGenres
	for _, genre := range cmd.StringSlice("genre") {
		if containsFold(selected, genre) {
			continue
		}
		if err := wizard.ToggleGenre(canonicalGenre(genre)); err != nil {
			return fmt.Errorf("%w (choose from: %s)", err, strings.Join(models.Genres, ", "))
		}
		selected = wizard.Preferences().FavoriteGenres
	}
	if err := wizard.Next(); err != nil {
		return err
	}

	if err := wizard.SetGoals(int(cmd.Int("daily")), int(cmd.Int("yearly"))); err != nil {
		return err
	}
	if err := wizard.Next(); err != nil {
		return err
	}

	wizard.SetNotifications(cmd.Bool("notifications"))
	if err := wizard.Next(); err != nil {
		return err
	}

	wizard.SetPhoto(cmd.String("photo"))
	if err := wizard.Next(); err != nil {
		return err
	}

	user, err := r.profile.CompleteOnboarding(ctx, wizard)
	if err != nil {
		return err
	}

	prefs := user.Preferences
	r.writePlain("✓ Onboarding complete\n")
	r.writePlain("Genres: %s\n", strings.Join(prefs.FavoriteGenres, ", "))
	r.writePlain("Goals:  %d min/day, %d books/year\n", prefs.DailyGoal, prefs.YearlyGoal)
	return nil
}

// UserGoals prints the goals, changing them first when --daily or --yearly is set.
func (r *Runner) UserGoals(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	daily, yearly := int(cmd.Int("daily")), int(cmd.Int("yearly"))
	if daily < 0 || yearly < 0 {
		return fmt.Errorf("%w: goals must be positive", shared.ErrInvalidFlag)
	}
	if daily > 0 || yearly > 0 {
		if _, err := r.profile.SetGoals(ctx, models.Goals{DailyMinutes: daily, YearlyBooks: yearly}); err != nil {
			return err
		}
		r.writePlain("✓ Goals updated\n")
	}

	goals := r.profile.Goals(ctx)
	r.writePlain("Daily:  %d minutes\n", goals.DailyMinutes)
	r.writePlain("Yearly: %d books\n", goals.YearlyBooks)
	return nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// canonicalGenre maps a case-insensitive genre name to its listed spelling.
func canonicalGenre(genre string) string {
	genre = strings.TrimSpace(genre)
	for _, g := range models.Genres {
		if strings.EqualFold(g, genre) {
			return g
		}
	}
	return genre
}
