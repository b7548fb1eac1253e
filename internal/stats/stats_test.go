package stats

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/desertthunder/bookmedia/internal/models"
)

var now = time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)

func finished(pages, rating int, genre, finishDate string) models.Book {
	return models.Book{
		Title: "F", Author: "A", Status: models.StatusFinished,
		TotalPages: pages, CurrentPage: pages, Rating: rating, Genre: genre,
		FinishDate: models.MustParseDate(finishDate),
	}
}

func reading(pages, current int, genre string) models.Book {
	return models.Book{
		Title: "R", Author: "A", Status: models.StatusReading,
		TotalPages: pages, CurrentPage: current, Genre: genre,
		StartDate: models.MustParseDate("2024-01-01"),
	}
}

func wantToRead(pages int, genre string) models.Book {
	return models.Book{Title: "W", Author: "A", Status: models.StatusWantToRead, TotalPages: pages, Genre: genre}
}

func session(date string, minutes, pages int) models.ReadingSession {
	return models.ReadingSession{Date: models.MustParseDate(date), Minutes: minutes, Pages: pages, BookTitle: "Dune"}
}

func TestCounts(t *testing.T) {
	tc := []struct {
		name  string
		books []models.Book
		want  ShelfCounts
	}{
		{name: "empty", books: nil, want: ShelfCounts{}},
		{
			name:  "mixed shelves",
			books: []models.Book{finished(300, 4, "", "2024-01-01"), finished(200, 0, "", "2024-02-01"), reading(100, 10, "")},
			want:  ShelfCounts{Total: 3, Finished: 2, Reading: 1},
		},
		{
			name:  "unknown status ignored",
			books: []models.Book{wantToRead(10, ""), {Status: "lost", TotalPages: 5}},
			want:  ShelfCounts{Total: 1, WantToRead: 1},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Counts(tt.books)
			if got != tt.want {
				t.Errorf("Counts() = %+v, want %+v", got, tt.want)
			}
			if got.Total != got.Reading+got.WantToRead+got.Finished {
				t.Errorf("total %d does not equal sum of shelves", got.Total)
			}
		})
	}
}

func TestPages(t *testing.T) {
	almostDone := reading(100, 100, "")

	books := []models.Book{finished(300, 0, "", "2024-01-01"), almostDone, wantToRead(50, ""), finished(200, 0, "", "2024-02-01")}
	if got := Pages(books); got != 500 {
		t.Errorf("Pages() = %d, want 500", got)
	}
	if got := Pages([]models.Book{almostDone}); got != 0 {
		t.Errorf("unfinished book on its last page must not count, got %d", got)
	}
	if got := Pages(nil); got != 0 {
		t.Errorf("Pages(nil) = %d, want 0", got)
	}
}

func TestAverageRating(t *testing.T) {
	tc := []struct {
		name  string
		books []models.Book
		want  float64
	}{
		{name: "empty", books: nil, want: 0},
		{name: "all unrated", books: []models.Book{finished(100, 0, "", "2024-01-01"), finished(10, 0, "", "2024-01-02")}, want: 0},
		{name: "ignores unrated", books: []models.Book{finished(300, 4, "", "2024-01-01"), finished(200, 0, "", "2024-01-01")}, want: 4},
		{name: "ignores unfinished", books: []models.Book{finished(300, 3, "", "2024-01-01"), {Status: models.StatusReading, Rating: 5}}, want: 3},
		{name: "mean", books: []models.Book{finished(1, 5, "", "2024-01-01"), finished(1, 4, "", "2024-01-01"), finished(1, 4, "", "2024-01-01")}, want: 13.0 / 3.0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageRating(tt.books)
			if got != tt.want {
				t.Errorf("AverageRating() = %v, want %v", got, tt.want)
			}
			if math.IsNaN(got) {
				t.Error("AverageRating returned NaN")
			}
		})
	}
}

func TestFavoriteGenre(t *testing.T) {
	tc := []struct {
		name  string
		books []models.Book
		want  string
	}{
		{name: "empty", books: nil, want: NoGenre},
		{name: "no genres", books: []models.Book{wantToRead(10, ""), reading(10, 1, "")}, want: NoGenre},
		{
			name:  "most frequent across statuses",
			books: []models.Book{wantToRead(10, "Fantasy"), reading(10, 1, "Classics"), finished(10, 0, "Classics", "2024-01-01")},
			want:  "Classics",
		},
		{
			name:  "tie goes to first seen",
			books: []models.Book{wantToRead(10, "History"), wantToRead(10, "Fantasy"), wantToRead(10, "Fantasy"), wantToRead(10, "History")},
			want:  "History",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FavoriteGenre(tt.books); got != tt.want {
				t.Errorf("FavoriteGenre() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMonthlyHistogram(t *testing.T) {
	t.Run("fixed length and order with sparse data", func(t *testing.T) {
		books := []models.Book{
			finished(100, 0, "", "2024-03-01"),
			finished(100, 0, "", "2024-03-14"),
			finished(100, 0, "", "2023-10-31"),
			finished(100, 0, "", "2023-09-30"), // outside the window
			finished(100, 0, "", "2024-04-01"), // in the future
			reading(100, 50, ""),
		}

		hist := MonthlyHistogram(books, now, 6)
		if len(hist) != 6 {
			t.Fatalf("expected 6 entries, got %d", len(hist))
		}

		wantKeys := []string{"2023-10", "2023-11", "2023-12", "2024-01", "2024-02", "2024-03"}
		wantCounts := []int{1, 0, 0, 0, 0, 2}
		for i, m := range hist {
			if m.Key() != wantKeys[i] {
				t.Errorf("entry %d: key %s, want %s", i, m.Key(), wantKeys[i])
			}
			if m.Count != wantCounts[i] {
				t.Errorf("entry %d (%s): count %d, want %d", i, m.Key(), m.Count, wantCounts[i])
			}
		}
		if hist[0].Label != "Oct" || hist[5].Label != "Mar" {
			t.Errorf("unexpected labels %s..%s", hist[0].Label, hist[5].Label)
		}
	})

	t.Run("empty input still yields window entries", func(t *testing.T) {
		for _, window := range []int{1, 6, 12, 25} {
			hist := MonthlyHistogram(nil, now, window)
			if len(hist) != window {
				t.Errorf("window %d: got %d entries", window, len(hist))
			}
			for i := 1; i < len(hist); i++ {
				prev := models.NewDate(hist[i-1].Year, hist[i-1].Month, 1)
				cur := models.NewDate(hist[i].Year, hist[i].Month, 1)
				if !prev.Before(cur) {
					t.Errorf("window %d: entries not chronological at %d", window, i)
				}
			}
		}
	})

	t.Run("non-positive window", func(t *testing.T) {
		if got := MonthlyHistogram(nil, now, 0); got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", got)
		}
	})
}

func TestThisMonthCount(t *testing.T) {
	books := []models.Book{
		finished(100, 0, "", "2024-03-01"),
		finished(100, 0, "", "2023-03-10"),
		finished(100, 0, "", "2024-02-29"),
		{Status: models.StatusFinished, TotalPages: 1, CurrentPage: 1},
	}
	if got := ThisMonthCount(books, now); got != 1 {
		t.Errorf("ThisMonthCount() = %d, want 1", got)
	}
	if got := FinishedInYear(books, now); got != 2 {
		t.Errorf("FinishedInYear() = %d, want 2", got)
	}
}

func TestReadingMinutes(t *testing.T) {
	sessions := []models.ReadingSession{
		session("2024-03-15", 20, 10),
		session("2024-03-15", 15, 5),
		session("2024-02-14", 30, 0), // exactly 30 days back
		session("2024-02-13", 60, 0), // outside the window
		session("2024-03-16", 45, 0), // tomorrow
	}

	if got := TotalReadingMinutes(sessions); got != 170 {
		t.Errorf("TotalReadingMinutes() = %d, want 170", got)
	}
	if got := TodayMinutes(sessions, now); got != 35 {
		t.Errorf("TodayMinutes() = %d, want 35", got)
	}
	if got := AverageDailyMinutes(sessions, now, 30); got != 65.0/30.0 {
		t.Errorf("AverageDailyMinutes() = %v, want %v", got, 65.0/30.0)
	}
	if got := AverageDailyMinutes(sessions, now, 0); got != 0 {
		t.Errorf("zero window should yield 0, got %v", got)
	}
	if got := AverageDailyMinutes(nil, now, 30); got != 0 {
		t.Errorf("no sessions should yield 0, got %v", got)
	}
}

func TestGoalProgress(t *testing.T) {
	t.Run("YearlyProgress", func(t *testing.T) {
		if got := YearlyProgress(12, 24); got != 50 {
			t.Errorf("YearlyProgress(12, 24) = %d, want 50", got)
		}
		over := YearlyProgress(30, 24)
		if over <= 100 {
			t.Errorf("YearlyProgress(30, 24) = %d, want > 100", over)
		}
		if ClampPercent(over) != 100 {
			t.Errorf("display clamp should cap at 100, got %d", ClampPercent(over))
		}
		if got := YearlyProgress(1, 3); got != 33 {
			t.Errorf("YearlyProgress(1, 3) = %d, want 33", got)
		}
		if got := YearlyProgress(5, 0); got != 0 {
			t.Errorf("zero goal should yield 0, got %d", got)
		}
	})

	t.Run("DailyGoalProgress", func(t *testing.T) {
		tc := []struct {
			minutes, goal int
			wantPct       int
			wantDone      bool
		}{
			{minutes: 35, goal: 30, wantPct: 100, wantDone: true},
			{minutes: 30, goal: 30, wantPct: 100, wantDone: true},
			{minutes: 10, goal: 30, wantPct: 33, wantDone: false},
			{minutes: 0, goal: 30, wantPct: 0, wantDone: false},
			{minutes: 10, goal: 0, wantPct: 0, wantDone: false},
		}
		for _, tt := range tc {
			pct, done := DailyGoalProgress(tt.minutes, tt.goal)
			if pct != tt.wantPct || done != tt.wantDone {
				t.Errorf("DailyGoalProgress(%d, %d) = (%d, %v), want (%d, %v)",
					tt.minutes, tt.goal, pct, done, tt.wantPct, tt.wantDone)
			}
		}
	})
}

func TestStreaks(t *testing.T) {
	tc := []struct {
		name        string
		sessions    []models.ReadingSession
		wantCurrent int
		wantLongest int
	}{
		{name: "empty", sessions: nil},
		{
			name:        "through today",
			sessions:    []models.ReadingSession{session("2024-03-13", 10, 0), session("2024-03-14", 10, 0), session("2024-03-15", 10, 0)},
			wantCurrent: 3, wantLongest: 3,
		},
		{
			name:        "ending yesterday is still current",
			sessions:    []models.ReadingSession{session("2024-03-13", 10, 0), session("2024-03-14", 10, 0)},
			wantCurrent: 2, wantLongest: 2,
		},
		{
			name: "broken streak",
			sessions: []models.ReadingSession{
				session("2024-03-01", 10, 0), session("2024-03-02", 10, 0), session("2024-03-03", 10, 0), session("2024-03-04", 10, 0),
				session("2024-03-12", 10, 0),
			},
			wantCurrent: 0, wantLongest: 4,
		},
		{
			name: "multiple sessions per day and across month end",
			sessions: []models.ReadingSession{
				session("2024-02-28", 10, 0), session("2024-02-29", 10, 0), session("2024-02-29", 5, 0), session("2024-03-01", 10, 0),
				session("2024-03-15", 10, 0),
			},
			wantCurrent: 1, wantLongest: 3,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.sessions, now); got != tt.wantCurrent {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.wantCurrent)
			}
			if got := LongestStreak(tt.sessions); got != tt.wantLongest {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.wantLongest)
			}
		})
	}
}

func TestDailyActivity(t *testing.T) {
	sessions := []models.ReadingSession{
		session("2024-03-15", 20, 60),
		session("2024-03-15", 15, 50),
		session("2024-03-10", 40, 80),
		session("2024-03-01", 40, 90),
	}

	if got := MaxPagesInADay(sessions); got != 110 {
		t.Errorf("MaxPagesInADay() = %d, want 110", got)
	}

	week := WeekActivity(sessions, now)
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}
	if week[0].Date.String() != "2024-03-09" || week[6].Date.String() != "2024-03-15" {
		t.Errorf("unexpected week bounds %s..%s", week[0].Date, week[6].Date)
	}
	if week[6].Minutes != 35 || !week[6].Active() {
		t.Errorf("expected 35 minutes today, got %d", week[6].Minutes)
	}
	if week[1].Minutes != 40 || week[2].Active() {
		t.Errorf("unexpected week activity %+v", week)
	}
}

func TestCompute(t *testing.T) {
	t.Run("dashboard scenario", func(t *testing.T) {
		snap := Compute(Input{
			Books: []models.Book{
				finished(300, 4, "Classics", "2024-03-02"),
				finished(200, 0, "Fantasy", "2024-01-20"),
				reading(100, 40, "Classics"),
			},
			Sessions: []models.ReadingSession{session("2024-03-15", 20, 10), session("2024-03-15", 15, 5)},
			Goals:    models.Goals{DailyMinutes: 30, YearlyBooks: 24},
			Now:      now,
		})

		if snap.TotalPages != 500 {
			t.Errorf("TotalPages = %d, want 500", snap.TotalPages)
		}
		if snap.AverageRating != 4 {
			t.Errorf("AverageRating = %v, want 4", snap.AverageRating)
		}
		if snap.Counts != (ShelfCounts{Total: 3, Finished: 2, Reading: 1}) {
			t.Errorf("Counts = %+v", snap.Counts)
		}
		if snap.Daily.Minutes != 35 || snap.Daily.Percent != 100 || !snap.Daily.Complete {
			t.Errorf("Daily = %+v, want 35 minutes complete at 100%%", snap.Daily)
		}
		if snap.Yearly.Percent != 8 || snap.Yearly.Finished != 2 {
			t.Errorf("Yearly = %+v", snap.Yearly)
		}
		if snap.FavoriteGenre != "Classics" || !snap.HasFavoriteGenre() {
			t.Errorf("FavoriteGenre = %q", snap.FavoriteGenre)
		}
		if snap.ThisMonthBooks != 1 || len(snap.Monthly) != DefaultMonthWindow {
			t.Errorf("unexpected monthly figures: this month %d, %d entries", snap.ThisMonthBooks, len(snap.Monthly))
		}
		if snap.AsOf.String() != "2024-03-15" {
			t.Errorf("AsOf = %s", snap.AsOf)
		}
		if snap.AverageDailyMinutes != 1 {
			t.Errorf("AverageDailyMinutes = %d, want 1", snap.AverageDailyMinutes)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		snap := Compute(Input{Now: now})

		if snap.Counts.Total != 0 || snap.TotalPages != 0 || snap.AverageRating != 0 {
			t.Errorf("expected zero snapshot, got %+v", snap)
		}
		if snap.HasFavoriteGenre() {
			t.Error("expected no favorite genre")
		}
		if snap.Daily.Goal != models.DefaultDailyMinutes || snap.Yearly.Goal != models.DefaultYearlyBooks {
			t.Errorf("missing goals should fall back to defaults, got %d/%d", snap.Daily.Goal, snap.Yearly.Goal)
		}
		if snap.MaxMonthly() != 1 {
			t.Errorf("MaxMonthly() = %d, want 1", snap.MaxMonthly())
		}
	})

	t.Run("custom windows", func(t *testing.T) {
		snap := ComputeWith(Input{Now: now}, Options{MonthWindow: 12, AverageWindowDays: 7})
		if len(snap.Monthly) != 12 {
			t.Errorf("expected 12 months, got %d", len(snap.Monthly))
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		books := []models.Book{reading(100, 40, "Classics"), finished(10, 3, "", "2024-03-01")}
		sessions := []models.ReadingSession{session("2024-03-15", 20, 10)}
		before, _ := json.Marshal(struct {
			B []models.Book
			S []models.ReadingSession
		}{books, sessions})

		Compute(Input{Books: books, Sessions: sessions, Now: now})

		after, _ := json.Marshal(struct {
			B []models.Book
			S []models.ReadingSession
		}{books, sessions})
		if !bytes.Equal(before, after) {
			t.Error("Compute mutated its input")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		in := Input{
			Books: []models.Book{
				finished(300, 4, "Classics", "2024-03-02"),
				finished(120, 5, "History", "2023-12-24"),
				wantToRead(80, "History"),
			},
			Sessions: []models.ReadingSession{session("2024-03-14", 25, 30), session("2024-03-15", 40, 55)},
			Goals:    models.Goals{DailyMinutes: 45, YearlyBooks: 12},
			Now:      now,
		}

		first, err := json.Marshal(Compute(in))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		second, err := json.Marshal(Compute(in))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Errorf("snapshots differ:\n%s\n%s", first, second)
		}
	})
}
