package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/repositories"
	"github.com/desertthunder/bookmedia/internal/shared"
)

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store     *repositories.MemoryStore
	books     *repositories.BookRepository
	sessions  *repositories.SessionRepository
	users     *repositories.UserRepository
	logs      *bytes.Buffer
	opts      Options
	library   *Library
	profile   *Profile
	planner   *Planner
	dashboard *Dashboard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{store: repositories.NewMemoryStore(), logs: &bytes.Buffer{}}
	f.books = repositories.NewBookRepository(f.store)
	f.sessions = repositories.NewSessionRepository(f.store)
	f.users = repositories.NewUserRepository(f.store)
	f.opts = Options{Clock: FixedClock(testNow), Logger: log.New(f.logs)}

	f.library = NewLibrary(f.books, f.opts)
	f.profile = NewProfile(f.users, f.opts)
	f.planner = NewPlanner(f.sessions, f.profile, f.opts)
	f.dashboard = NewDashboard(f.books, f.sessions, f.users, f.opts)
	return f
}

func validSignup() SignupInput {
	return SignupInput{
		FirstName:       "Ada",
		LastName:        "Reader",
		Username:        "ada",
		Email:           "ada@example.com",
		BirthDate:       models.MustParseDate("1990-05-01"),
		Password:        "secret123",
		PasswordConfirm: "secret123",
	}
}

func TestLibrary(t *testing.T) {
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		f := newFixture(t)

		tc := []struct {
			name    string
			in      AddBookInput
			wantErr error
		}{
			{name: "missing title", in: AddBookInput{Author: "A", Pages: 10}, wantErr: shared.ErrMissingArgument},
			{name: "missing author", in: AddBookInput{Title: "T", Pages: 10}, wantErr: shared.ErrMissingArgument},
			{name: "no pages", in: AddBookInput{Title: "T", Author: "A"}, wantErr: shared.ErrInvalidInput},
			{name: "valid", in: AddBookInput{Title: "Dune", Author: "Frank Herbert", Pages: 412}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.library.Add(ctx, tt.in)
				if tt.wantErr == nil && err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}
	})

	t.Run("Patch saves nothing on failure", func(t *testing.T) {
		f := newFixture(t)
		book, err := f.library.Add(ctx, AddBookInput{Title: "Dune", Author: "Frank Herbert", Pages: 400})
		if err != nil {
			t.Fatalf("failed to add: %v", err)
		}

		_, err = f.library.Patch(ctx, book.ID, func(b *models.Book, today models.Date) error {
			if err := b.SetProgress(400, today); err != nil {
				return err
			}
			return b.Rate(9)
		})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}

		stored, err := f.library.Get(ctx, book.ID)
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if stored.Status != models.StatusWantToRead || stored.CurrentPage != 0 {
			t.Errorf("expected the book untouched, got %s at page %d", stored.Status, stored.CurrentPage)
		}

		patched, err := f.library.Patch(ctx, book.ID, func(b *models.Book, today models.Date) error {
			if err := b.SetProgress(400, today); err != nil {
				return err
			}
			return b.Rate(4)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if patched.Status != models.StatusFinished || patched.Rating != 4 || patched.FinishDate.String() != "2024-03-15" {
			t.Errorf("unexpected patched book %+v", patched)
		}
	})

	t.Run("Add with status stamps dates", func(t *testing.T) {
		f := newFixture(t)

		reading, err := f.library.Add(ctx, AddBookInput{Title: "Emma", Author: "Jane Austen", Pages: 300, Status: models.StatusReading})
		if err != nil {
			t.Fatalf("failed to add: %v", err)
		}
		if reading.StartDate.String() != "2024-03-15" {
			t.Errorf("expected start date today, got %q", reading.StartDate)
		}

		done, err := f.library.Add(ctx, AddBookInput{Title: "Dune", Author: "Frank Herbert", Pages: 412, Status: models.StatusFinished})
		if err != nil {
			t.Fatalf("failed to add: %v", err)
		}
		if done.CurrentPage != 412 || done.FinishDate.String() != "2024-03-15" {
			t.Errorf("finished book should be on last page with finish date, got %d %q", done.CurrentPage, done.FinishDate)
		}
	})

	t.Run("progress lifecycle", func(t *testing.T) {
		f := newFixture(t)
		book, _ := f.library.Add(ctx, AddBookInput{Title: "Dune", Author: "Frank Herbert", Pages: 400})

		got, err := f.library.SetProgress(ctx, book.ID, 100)
		if err != nil {
			t.Fatalf("failed to set progress: %v", err)
		}
		if got.Status != models.StatusReading || got.Progress() != 25 {
			t.Errorf("expected reading at 25%%, got %s at %d%%", got.Status, got.Progress())
		}

		got, err = f.library.SetProgress(ctx, book.ID, 400)
		if err != nil {
			t.Fatalf("failed to finish: %v", err)
		}
		if got.Status != models.StatusFinished || got.FinishDate.IsZero() {
			t.Errorf("reaching the last page should finish the book, got %+v", got)
		}

		if _, err := f.library.SetStatus(ctx, book.ID, models.StatusReading); !errors.Is(err, shared.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition reopening a finished book, got %v", err)
		}

		stored, _ := f.library.Get(ctx, book.ID)
		if stored.Status != models.StatusFinished {
			t.Errorf("rejected transition must not be saved, got %s", stored.Status)
		}
	})

	t.Run("rate toggles", func(t *testing.T) {
		f := newFixture(t)
		book, _ := f.library.Add(ctx, AddBookInput{Title: "Dune", Author: "Frank Herbert", Pages: 400})

		got, _ := f.library.Rate(ctx, book.ID, 4)
		if got.Rating != 4 {
			t.Fatalf("expected rating 4, got %d", got.Rating)
		}
		got, _ = f.library.Rate(ctx, book.ID, 4)
		if got.Rating != 0 {
			t.Errorf("rating the same value again should clear it, got %d", got.Rating)
		}
		if _, err := f.library.Rate(ctx, book.ID, 6); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Resolve", func(t *testing.T) {
		f := newFixture(t)
		book, _ := f.library.Add(ctx, AddBookInput{Title: "Dune", Author: "Frank Herbert", Pages: 400})
		_, _ = f.library.Add(ctx, AddBookInput{Title: "Emma", Author: "Jane Austen", Pages: 300})

		for _, ref := range []string{book.ID, book.ID[:8], "dune", "DUNE"} {
			got, err := f.library.Resolve(ctx, ref)
			if err != nil {
				t.Errorf("Resolve(%q) failed: %v", ref, err)
				continue
			}
			if got.ID != book.ID {
				t.Errorf("Resolve(%q) = %s, want %s", ref, got.ID, book.ID)
			}
		}

		if _, err := f.library.Resolve(ctx, "Persuasion"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := f.library.Resolve(ctx, " "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Shelf and counts", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.library.Add(ctx, AddBookInput{Title: "Dune", Author: "Frank Herbert", Pages: 400, Status: models.StatusFinished})
		_, _ = f.library.Add(ctx, AddBookInput{Title: "Emma", Author: "Jane Austen", Pages: 300, Status: models.StatusReading})
		_, _ = f.library.Add(ctx, AddBookInput{Title: "Persuasion", Author: "Jane Austen", Pages: 250})

		tc := []struct {
			shelf, query string
			want         int
		}{
			{shelf: "", want: 3},
			{shelf: ShelfAll, query: "austen", want: 2},
			{shelf: "reading", want: 1},
			{shelf: "want-to-read", query: "emma", want: 0},
			{shelf: "finished", query: "DUNE", want: 1},
		}
		for _, tt := range tc {
			got, err := f.library.Shelf(ctx, tt.shelf, tt.query)
			if err != nil {
				t.Fatalf("Shelf(%q, %q) failed: %v", tt.shelf, tt.query, err)
			}
			if len(got) != tt.want {
				t.Errorf("Shelf(%q, %q) = %d books, want %d", tt.shelf, tt.query, len(got), tt.want)
			}
		}

		if _, err := f.library.Shelf(ctx, "borrowed", ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for unknown shelf, got %v", err)
		}

		counts, err := f.library.ShelfCounts(ctx)
		if err != nil {
			t.Fatalf("ShelfCounts failed: %v", err)
		}
		if counts.Total != 3 || counts.Finished != 1 || counts.Reading != 1 || counts.WantToRead != 1 {
			t.Errorf("unexpected counts %+v", counts)
		}
	})

	t.Run("notes and delete", func(t *testing.T) {
		f := newFixture(t)
		book, _ := f.library.Add(ctx, AddBookInput{Title: "Dune", Author: "Frank Herbert", Pages: 400})

		got, err := f.library.SetNotes(ctx, "dune", "  the spice must flow ")
		if err != nil || got.Notes != "the spice must flow" {
			t.Fatalf("SetNotes = %q, %v", got.Notes, err)
		}

		if _, err := f.library.Delete(ctx, book.ID); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := f.library.Get(ctx, book.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Signup", func(t *testing.T) {
		f := newFixture(t)

		user, err := f.profile.Signup(ctx, validSignup())
		if err != nil {
			t.Fatalf("signup failed: %v", err)
		}
		if user.Name != "Ada Reader" || !user.IsNewUser || user.Onboarded {
			t.Errorf("unexpected user %+v", user)
		}

		raw, _ := f.store.Get(ctx, repositories.UserKey)
		if strings.Contains(string(raw), "secret123") {
			t.Error("password must never be persisted")
		}
	})

	t.Run("Signup validation", func(t *testing.T) {
		tc := []struct {
			name   string
			modify func(*SignupInput)
			field  string
		}{
			{name: "short password", modify: func(in *SignupInput) { in.Password, in.PasswordConfirm = "abc1", "abc1" }, field: "password"},
			{name: "no letter", modify: func(in *SignupInput) { in.Password, in.PasswordConfirm = "12345678", "12345678" }, field: "password"},
			{name: "mismatch", modify: func(in *SignupInput) { in.PasswordConfirm = "secret124" }, field: "passwordConfirm"},
			{name: "no first name", modify: func(in *SignupInput) { in.FirstName = " " }, field: "firstName"},
			{name: "no birth date", modify: func(in *SignupInput) { in.BirthDate = models.Date{} }, field: "birthDate"},
			{name: "bad email", modify: func(in *SignupInput) { in.Email = "ada" }, field: "email"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				in := validSignup()
				tt.modify(&in)

				_, err := f.profile.Signup(ctx, in)
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				var fe FieldErrors
				if !errors.As(err, &fe) {
					t.Fatalf("expected FieldErrors, got %T", err)
				}
				if _, ok := fe[tt.field]; !ok {
					t.Errorf("expected error on %s, got %v", tt.field, fe)
				}
				if _, err := f.profile.Current(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
					t.Errorf("failed signup must not store a profile, got %v", err)
				}
			})
		}
	})

	t.Run("Login", func(t *testing.T) {
		f := newFixture(t)

		if _, err := f.profile.Login(ctx, "", "x"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument for empty email, got %v", err)
		}
		if _, err := f.profile.Login(ctx, "ada@example.com", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument for empty password, got %v", err)
		}

		signed, _ := f.profile.Signup(ctx, validSignup())
		user, err := f.profile.Login(ctx, "ADA@example.com", "anything")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if user.ID != signed.ID || user.IsNewUser {
			t.Errorf("login should select the existing profile, got %+v", user)
		}

		other, err := f.profile.Login(ctx, "bob@example.com", "anything")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if other.ID == signed.ID || other.Name != placeholderName {
			t.Errorf("expected a placeholder profile, got %+v", other)
		}
	})

	t.Run("Logout", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.profile.Signup(ctx, validSignup())

		if err := f.profile.Logout(ctx); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if _, err := f.profile.Current(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("SetGoals", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.profile.SetGoals(ctx, models.Goals{DailyMinutes: 45}); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}

		_, _ = f.profile.Signup(ctx, validSignup())
		if _, err := f.profile.SetGoals(ctx, models.Goals{DailyMinutes: 300}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		user, err := f.profile.SetGoals(ctx, models.Goals{YearlyBooks: 52})
		if err != nil {
			t.Fatalf("SetGoals failed: %v", err)
		}
		want := models.Goals{DailyMinutes: 30, YearlyBooks: 52}
		if got := user.Goals(models.DefaultGoals()); got != want {
			t.Errorf("goals = %+v, want %+v", got, want)
		}
		if got := f.profile.Goals(ctx); got != want {
			t.Errorf("stored goals = %+v, want %+v", got, want)
		}
	})
}

func TestOnboarding(t *testing.T) {
	ctx := context.Background()

	t.Run("genre gate", func(t *testing.T) {
		w := NewOnboarding(models.DefaultPreferences())
		if w.Step() != 1 || w.Progress() != 25 {
			t.Fatalf("expected step 1 at 25%%, got %d at %d%%", w.Step(), w.Progress())
		}

		_ = w.ToggleGenre("Fantasy")
		_ = w.ToggleGenre("History")
		if err := w.Next(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput with 2 genres, got %v", err)
		}
		if w.Step() != 1 {
			t.Errorf("wizard should stay on step 1, got %d", w.Step())
		}

		_ = w.ToggleGenre("Classics")
		_ = w.ToggleGenre("History")
		if err := w.Next(); err == nil {
			t.Error("deselecting a genre should block advancing again")
		}

		if err := w.ToggleGenre("Cooking"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for unknown genre, got %v", err)
		}
	})

	t.Run("complete", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.profile.Signup(ctx, validSignup())

		w, err := f.profile.StartOnboarding(ctx)
		if err != nil {
			t.Fatalf("failed to start onboarding: %v", err)
		}
		for _, g := range []string{"Fantasy", "History", "Classics"} {
			_ = w.ToggleGenre(g)
		}

		if _, err := f.profile.CompleteOnboarding(ctx, w); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("completing early should fail, got %v", err)
		}

		steps := []int{2, 3, 4}
		for _, want := range steps {
			if err := w.Next(); err != nil {
				t.Fatalf("Next failed: %v", err)
			}
			if w.Step() != want {
				t.Errorf("step = %d, want %d", w.Step(), want)
			}
			if want == 2 {
				if err := w.SetGoals(1, 24); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput for 1 minute, got %v", err)
				}
				if err := w.SetGoals(45, 12); err != nil {
					t.Errorf("SetGoals failed: %v", err)
				}
			}
		}
		if w.Progress() != 100 {
			t.Errorf("progress on last step = %d, want 100", w.Progress())
		}
		if err := w.Next(); err != nil || !w.Done() {
			t.Fatalf("expected wizard done, err %v", err)
		}

		user, err := f.profile.CompleteOnboarding(ctx, w)
		if err != nil {
			t.Fatalf("CompleteOnboarding failed: %v", err)
		}
		if !user.Onboarded || user.IsNewUser {
			t.Errorf("expected onboarded profile, got %+v", user)
		}
		if got := f.profile.Goals(ctx); got != (models.Goals{DailyMinutes: 45, YearlyBooks: 12}) {
			t.Errorf("goals not stored, got %+v", got)
		}
	})

	t.Run("back", func(t *testing.T) {
		w := NewOnboarding(models.Preferences{FavoriteGenres: []string{"Fantasy", "History", "Classics"}})
		w.Back()
		if w.Step() != 1 {
			t.Errorf("Back on step 1 should be a no-op, got %d", w.Step())
		}
		_ = w.Next()
		w.Back()
		if w.Step() != 1 {
			t.Errorf("expected step 1 after back, got %d", w.Step())
		}
	})
}

func TestPlanner(t *testing.T) {
	ctx := context.Background()

	t.Run("LogSession validation", func(t *testing.T) {
		f := newFixture(t)

		tc := []struct {
			minutes, pages int
			title          string
			wantErr        error
		}{
			{minutes: 0, pages: 0, title: "Dune", wantErr: shared.ErrInvalidInput},
			{minutes: 10, pages: -1, title: "Dune", wantErr: shared.ErrInvalidInput},
			{minutes: 10, pages: 0, title: " ", wantErr: shared.ErrMissingArgument},
		}
		for _, tt := range tc {
			if _, err := f.planner.LogSession(ctx, tt.minutes, tt.pages, tt.title); !errors.Is(err, tt.wantErr) {
				t.Errorf("LogSession(%d, %d, %q) = %v, want %v", tt.minutes, tt.pages, tt.title, err, tt.wantErr)
			}
		}
	})

	t.Run("Today meets goal", func(t *testing.T) {
		f := newFixture(t)

		s, err := f.planner.LogSession(ctx, 20, 12, "Dune")
		if err != nil {
			t.Fatalf("LogSession failed: %v", err)
		}
		if s.Date.String() != "2024-03-15" {
			t.Errorf("session should be dated today, got %s", s.Date)
		}
		_, _ = f.planner.LogSession(ctx, 15, 8, "Dune")

		sum, err := f.planner.Today(ctx)
		if err != nil {
			t.Fatalf("Today failed: %v", err)
		}
		if sum.Minutes != 35 || sum.Pages != 20 || sum.Percent != 100 || !sum.Complete || sum.Goal != 30 {
			t.Errorf("unexpected summary %+v", sum)
		}
		if len(sum.Sessions) != 2 {
			t.Errorf("expected 2 sessions, got %d", len(sum.Sessions))
		}
	})

	t.Run("SetDailyGoal", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.profile.Signup(ctx, validSignup())

		if _, err := f.planner.SetDailyGoal(ctx, 0); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := f.planner.SetDailyGoal(ctx, 60); err != nil {
			t.Fatalf("SetDailyGoal failed: %v", err)
		}

		_, _ = f.planner.LogSession(ctx, 30, 0, "Dune")
		sum, _ := f.planner.Today(ctx)
		if sum.Goal != 60 || sum.Percent != 50 || sum.Complete {
			t.Errorf("unexpected summary %+v", sum)
		}
	})

	t.Run("Week", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.planner.LogSession(ctx, 25, 10, "Dune")

		week, err := f.planner.Week(ctx)
		if err != nil {
			t.Fatalf("Week failed: %v", err)
		}
		if len(week) != 7 || week[6].Minutes != 25 || week[0].Active() {
			t.Errorf("unexpected week %+v", week)
		}
	})
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("computes snapshot and achievements", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.library.Add(ctx, AddBookInput{Title: "Dune", Author: "Frank Herbert", Pages: 300, Status: models.StatusFinished})
		_, _ = f.library.Rate(ctx, "dune", 4)
		_, _ = f.library.Add(ctx, AddBookInput{Title: "Emma", Author: "Jane Austen", Pages: 200, Status: models.StatusFinished})
		_, _ = f.library.Add(ctx, AddBookInput{Title: "Persuasion", Author: "Jane Austen", Pages: 100, Status: models.StatusReading})
		_, _ = f.planner.LogSession(ctx, 20, 60, "Dune")
		_, _ = f.planner.LogSession(ctx, 15, 50, "Dune")

		view, err := f.dashboard.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		snap := view.Snapshot
		if snap.TotalPages != 500 || snap.AverageRating != 4 || snap.Counts.Total != 3 {
			t.Errorf("unexpected snapshot %+v", snap)
		}
		if !snap.Daily.Complete || snap.Daily.Minutes != 35 {
			t.Errorf("unexpected daily status %+v", snap.Daily)
		}
		if view.User != nil {
			t.Errorf("expected no user, got %+v", view.User)
		}
		// first_book (10) + fast_reader (20)
		if view.Achievements.Points != 30 {
			t.Errorf("points = %d, want 30", view.Achievements.Points)
		}
	})

	t.Run("malformed data is treated as empty", func(t *testing.T) {
		f := newFixture(t)
		_ = f.store.Set(ctx, repositories.BooksKey, []byte("{broken"))
		_ = f.store.Set(ctx, repositories.SessionsKey, []byte(`"nope"`))
		_ = f.store.Set(ctx, repositories.UserKey, []byte("[]"))

		view, err := f.dashboard.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if view.Snapshot.Counts.Total != 0 || view.Snapshot.TotalReadingMinutes != 0 {
			t.Errorf("expected empty snapshot, got %+v", view.Snapshot)
		}
		if view.Snapshot.Yearly.Goal != models.DefaultYearlyBooks {
			t.Errorf("expected default goal, got %d", view.Snapshot.Yearly.Goal)
		}
		if !strings.Contains(f.logs.String(), "unreadable") {
			t.Errorf("expected a warning to be logged, got %q", f.logs.String())
		}
	})

	t.Run("uses profile goals", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.profile.Signup(ctx, validSignup())
		_, _ = f.profile.SetGoals(ctx, models.Goals{DailyMinutes: 60, YearlyBooks: 12})

		view, err := f.dashboard.LoadAt(ctx, testNow.AddDate(0, 1, 0))
		if err != nil {
			t.Fatalf("LoadAt failed: %v", err)
		}
		if view.Snapshot.Daily.Goal != 60 || view.Snapshot.Yearly.Goal != 12 {
			t.Errorf("unexpected goals %+v %+v", view.Snapshot.Daily, view.Snapshot.Yearly)
		}
		if view.Snapshot.AsOf.String() != "2024-04-15" {
			t.Errorf("AsOf = %s", view.Snapshot.AsOf)
		}
	})
}
