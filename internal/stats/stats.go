package stats

import (
	"math"
	"time"

	"github.com/desertthunder/bookmedia/internal/models"
)

// NoGenre is returned by [FavoriteGenre] when no book carries a genre.
const NoGenre = ""

const (
	DefaultMonthWindow       = 6
	DefaultAverageWindowDays = 30
)

// ShelfCounts partitions books by status.
type ShelfCounts struct {
	Total      int `json:"total"`
	Reading    int `json:"reading"`
	WantToRead int `json:"wantToRead"`
	Finished   int `json:"finished"`
}

// MonthCount is one bar of the monthly completion histogram.
type MonthCount struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Label string     `json:"label"`
	Count int        `json:"count"`
}

// Key returns the month as "2006-01".
func (m MonthCount) Key() string {
	return models.NewDate(m.Year, m.Month, 1).Time().Format("2006-01")
}

// DayActivity is the reading done on one calendar day.
type DayActivity struct {
	Date    models.Date `json:"date"`
	Minutes int         `json:"minutes"`
	Pages   int         `json:"pages"`
}

// Active reports whether anything was read that day.
func (d DayActivity) Active() bool { return d.Minutes > 0 }

// Counts partitions books by status. Books with an unknown status count towards no shelf and not towards Total,
// so Total always equals Reading+WantToRead+Finished.
func Counts(books []models.Book) ShelfCounts {
	var c ShelfCounts
	for _, b := range books {
		switch b.Status {
		case models.StatusReading:
			c.Reading++
		case models.StatusWantToRead:
			c.WantToRead++
		case models.StatusFinished:
			c.Finished++
		default:
			continue
		}
		c.Total++
	}
	return c
}

// Pages sums total pages over finished books. Unfinished books never contribute, whatever their current page.
func Pages(books []models.Book) int {
	total := 0
	for _, b := range books {
		if b.Status == models.StatusFinished {
			total += b.TotalPages
		}
	}
	return total
}

// AverageRating is the mean rating of finished books rated above zero, or 0 when there are none.
func AverageRating(books []models.Book) float64 {
	sum, n := 0, 0
	for _, b := range books {
		if b.Status == models.StatusFinished && b.Rating > 0 {
			sum += b.Rating
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// RatedCount counts books of any status with a rating above zero.
func RatedCount(books []models.Book) int {
	n := 0
	for _, b := range books {
		if b.Rating > 0 {
			n++
		}
	}
	return n
}

// FavoriteGenre returns the most frequent non-empty genre across all books. Ties go to the genre that appears
// first in input order. Returns [NoGenre] when no book has a genre.
func FavoriteGenre(books []models.Book) string {
	counts := make(map[string]int)
	var order []string
	for _, b := range books {
		if b.Genre == "" {
			continue
		}
		if counts[b.Genre] == 0 {
			order = append(order, b.Genre)
		}
		counts[b.Genre]++
	}

	best, bestCount := NoGenre, 0
	for _, g := range order {
		if counts[g] > bestCount {
			best, bestCount = g, counts[g]
		}
	}
	return best
}

// MonthlyHistogram counts finished books per calendar month for the window months ending at now's month,
// oldest first. Months without completions are present with a zero count; window <= 0 yields an empty slice.
func MonthlyHistogram(books []models.Book, now time.Time, window int) []MonthCount {
	if window <= 0 {
		return []MonthCount{}
	}

	current := models.DateOf(now)
	first := models.NewDate(current.Year(), current.Month()-time.Month(window-1), 1)

	hist := make([]MonthCount, window)
	for i := range hist {
		m := models.NewDate(first.Year(), first.Month()+time.Month(i), 1)
		hist[i] = MonthCount{
			Year:  m.Year(),
			Month: m.Month(),
			Label: m.Month().String()[:3],
		}
	}

	for _, b := range books {
		if b.Status != models.StatusFinished || b.FinishDate.IsZero() {
			continue
		}
		offset := (b.FinishDate.Year()-first.Year())*12 + int(b.FinishDate.Month()-first.Month())
		if offset >= 0 && offset < window {
			hist[offset].Count++
		}
	}

	return hist
}

// ThisMonthCount counts finished books whose finish date shares month and year with now.
func ThisMonthCount(books []models.Book, now time.Time) int {
	today := models.DateOf(now)
	n := 0
	for _, b := range books {
		if b.Status == models.StatusFinished && !b.FinishDate.IsZero() && b.FinishDate.SameMonth(today) {
			n++
		}
	}
	return n
}

// FinishedInYear counts finished books whose finish date falls in now's calendar year.
func FinishedInYear(books []models.Book, now time.Time) int {
	year := now.Year()
	n := 0
	for _, b := range books {
		if b.Status == models.StatusFinished && !b.FinishDate.IsZero() && b.FinishDate.Year() == year {
			n++
		}
	}
	return n
}

// TotalReadingMinutes sums minutes over all sessions, regardless of date.
func TotalReadingMinutes(sessions []models.ReadingSession) int {
	total := 0
	for _, s := range sessions {
		total += s.Minutes
	}
	return total
}

// AverageDailyMinutes sums minutes of sessions dated within [now-windowDays, now] and divides by windowDays.
// The divisor is fixed, so days without reading pull the average down. windowDays <= 0 yields 0.
func AverageDailyMinutes(sessions []models.ReadingSession, now time.Time, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}

	today := models.DateOf(now)
	start := today.AddDays(-windowDays)
	sum := 0
	for _, s := range sessions {
		if s.Date.Before(start) || s.Date.After(today) {
			continue
		}
		sum += s.Minutes
	}
	return float64(sum) / float64(windowDays)
}

// TodayMinutes sums minutes of sessions dated on now's calendar day.
func TodayMinutes(sessions []models.ReadingSession, now time.Time) int {
	today := models.DateOf(now)
	total := 0
	for _, s := range sessions {
		if s.Date.Equal(today) {
			total += s.Minutes
		}
	}
	return total
}

// YearlyProgress is round(finished/goal*100). It is not clamped: surpassing the goal yields more than 100.
// A non-positive goal yields 0.
func YearlyProgress(finished, goal int) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Round(float64(finished) / float64(goal) * 100))
}

// DailyGoalProgress returns min(round(today/goal*100), 100) and whether the goal is met.
// A non-positive goal yields 0 progress and is never met.
func DailyGoalProgress(todayMinutes, goal int) (int, bool) {
	if goal <= 0 {
		return 0, false
	}
	pct := int(math.Round(float64(todayMinutes) / float64(goal) * 100))
	return ClampPercent(pct), todayMinutes >= goal
}

// ClampPercent bounds a percentage to 0..100 for display.
func ClampPercent(pct int) int {
	return max(0, min(pct, 100))
}

// dayKey identifies a calendar day for map lookups.
func dayKey(d models.Date) int64 {
	return d.Time().Unix()
}

// dailyTotals buckets sessions by calendar day.
func dailyTotals(sessions []models.ReadingSession) map[int64]DayActivity {
	days := make(map[int64]DayActivity)
	for _, s := range sessions {
		if s.Date.IsZero() {
			continue
		}
		k := dayKey(s.Date)
		d := days[k]
		d.Date = s.Date
		d.Minutes += s.Minutes
		d.Pages += s.Pages
		days[k] = d
	}
	return days
}

// CurrentStreak counts consecutive days with at least one session, ending today. A streak that ended
// yesterday is still current, since today may not have been read yet.
func CurrentStreak(sessions []models.ReadingSession, now time.Time) int {
	days := dailyTotals(sessions)
	day := models.DateOf(now)
	if _, ok := days[dayKey(day)]; !ok {
		day = day.AddDays(-1)
	}

	streak := 0
	for {
		if _, ok := days[dayKey(day)]; !ok {
			return streak
		}
		streak++
		day = day.AddDays(-1)
	}
}

// LongestStreak is the longest run of consecutive reading days ever recorded.
func LongestStreak(sessions []models.ReadingSession) int {
	days := dailyTotals(sessions)

	longest := 0
	for _, d := range days {
		if _, ok := days[dayKey(d.Date.AddDays(-1))]; ok {
			continue
		}
		run := 1
		for next := d.Date.AddDays(1); ; next = next.AddDays(1) {
			if _, ok := days[dayKey(next)]; !ok {
				break
			}
			run++
		}
		longest = max(longest, run)
	}
	return longest
}

// MaxPagesInADay is the most pages recorded across all sessions of a single day.
func MaxPagesInADay(sessions []models.ReadingSession) int {
	best := 0
	for _, d := range dailyTotals(sessions) {
		best = max(best, d.Pages)
	}
	return best
}

// WeekActivity returns the seven days ending today, oldest first.
func WeekActivity(sessions []models.ReadingSession, now time.Time) []DayActivity {
	days := dailyTotals(sessions)
	today := models.DateOf(now)

	week := make([]DayActivity, 7)
	for i := range week {
		day := today.AddDays(i - 6)
		week[i] = days[dayKey(day)]
		week[i].Date = day
	}
	return week
}
