package stats

import (
	"math"
	"time"

	"github.com/desertthunder/bookmedia/internal/models"
)

// Input is everything a [Snapshot] is derived from.
type Input struct {
	Books    []models.Book
	Sessions []models.ReadingSession
	Goals    models.Goals
	Now      time.Time
}

// Options sizes the time windows. Non-positive fields fall back to the defaults (6 months, 30 days).
type Options struct {
	MonthWindow       int
	AverageWindowDays int
}

func (o Options) withDefaults() Options {
	if o.MonthWindow <= 0 {
		o.MonthWindow = DefaultMonthWindow
	}
	if o.AverageWindowDays <= 0 {
		o.AverageWindowDays = DefaultAverageWindowDays
	}
	return o
}

// DailyGoalStatus is today's progress towards the daily minutes goal.
type DailyGoalStatus struct {
	Goal     int  `json:"goal"`
	Minutes  int  `json:"minutes"`
	Percent  int  `json:"percent"`
	Complete bool `json:"complete"`
}

// YearlyGoalStatus is progress towards the yearly books goal. Percent is unclamped.
type YearlyGoalStatus struct {
	Goal     int `json:"goal"`
	Finished int `json:"finished"`
	Percent  int `json:"percent"`
}

// Snapshot is the full set of derived statistics for one point in time. It is recomputed, never stored.
type Snapshot struct {
	AsOf                models.Date      `json:"asOf"`
	Counts              ShelfCounts      `json:"counts"`
	TotalPages          int              `json:"totalPages"`
	AverageRating       float64          `json:"averageRating"`
	RatedBooks          int              `json:"ratedBooks"`
	FavoriteGenre       string           `json:"favoriteGenre,omitempty"`
	Monthly             []MonthCount     `json:"monthly"`
	ThisMonthBooks      int              `json:"thisMonthBooks"`
	FinishedThisYear    int              `json:"finishedThisYear"`
	TotalReadingMinutes int              `json:"totalReadingMinutes"`
	AverageDailyMinutes int              `json:"averageDailyMinutes"`
	CurrentStreak       int              `json:"currentStreak"`
	LongestStreak       int              `json:"longestStreak"`
	MaxPagesInADay      int              `json:"maxPagesInADay"`
	Week                []DayActivity    `json:"week"`
	Daily               DailyGoalStatus  `json:"daily"`
	Yearly              YearlyGoalStatus `json:"yearly"`
}

// HasFavoriteGenre reports whether any book carried a genre.
func (s Snapshot) HasFavoriteGenre() bool { return s.FavoriteGenre != NoGenre }

// MaxMonthly is the tallest histogram bar, at least 1 so it can be used as a divisor.
func (s Snapshot) MaxMonthly() int {
	peak := 1
	for _, m := range s.Monthly {
		peak = max(peak, m.Count)
	}
	return peak
}

// Compute derives a [Snapshot] with default windows.
func Compute(in Input) Snapshot {
	return ComputeWith(in, Options{})
}

// ComputeWith derives a [Snapshot]. The yearly goal is measured against every finished book, matching the
// dashboard's "N of goal" figure; FinishedThisYear is reported alongside it.
func ComputeWith(in Input, opts Options) Snapshot {
	opts = opts.withDefaults()
	goals := in.Goals.WithDefaults(models.DefaultGoals())

	counts := Counts(in.Books)
	today := TodayMinutes(in.Sessions, in.Now)
	dailyPct, dailyDone := DailyGoalProgress(today, goals.DailyMinutes)

	return Snapshot{
		AsOf:                models.DateOf(in.Now),
		Counts:              counts,
		TotalPages:          Pages(in.Books),
		AverageRating:       roundTo(AverageRating(in.Books), 1),
		RatedBooks:          RatedCount(in.Books),
		FavoriteGenre:       FavoriteGenre(in.Books),
		Monthly:             MonthlyHistogram(in.Books, in.Now, opts.MonthWindow),
		ThisMonthBooks:      ThisMonthCount(in.Books, in.Now),
		FinishedThisYear:    FinishedInYear(in.Books, in.Now),
		TotalReadingMinutes: TotalReadingMinutes(in.Sessions),
		AverageDailyMinutes: int(math.Round(AverageDailyMinutes(in.Sessions, in.Now, opts.AverageWindowDays))),
		CurrentStreak:       CurrentStreak(in.Sessions, in.Now),
		LongestStreak:       LongestStreak(in.Sessions),
		MaxPagesInADay:      MaxPagesInADay(in.Sessions),
		Week:                WeekActivity(in.Sessions, in.Now),
		Daily: DailyGoalStatus{
			Goal:     goals.DailyMinutes,
			Minutes:  today,
			Percent:  dailyPct,
			Complete: dailyDone,
		},
		Yearly: YearlyGoalStatus{
			Goal:     goals.YearlyBooks,
			Finished: counts.Finished,
			Percent:  YearlyProgress(counts.Finished, goals.YearlyBooks),
		},
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
