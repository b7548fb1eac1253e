package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/desertthunder/bookmedia/internal/achievements"
	"github.com/desertthunder/bookmedia/internal/stats"
)

// barWidth is the width of the longest histogram bar in text output.
const barWidth = 20

// Bar draws a proportional bar of at most width cells.
func Bar(value, peak, width int) string {
	if peak <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	n := max(1, value*width/peak)
	return strings.Repeat("█", min(n, width))
}

// ProgressBar draws a percentage as a fixed-width bar, clamping to 0..100.
func ProgressBar(percent, width int) string {
	filled := stats.ClampPercent(percent) * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Rating formats an average rating, or "-" when nothing has been rated.
func Rating(avg float64) string {
	if avg <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f/5", avg)
}

// Minutes formats a minute count as "1h 25m" or "25m".
func Minutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%sh", humanize.Comma(int64(m/60)))
	}
	return fmt.Sprintf("%sh %dm", humanize.Comma(int64(m/60)), m%60)
}

func favoriteGenre(s stats.Snapshot) string {
	if !s.HasFavoriteGenre() {
		return "-"
	}
	return s.FavoriteGenre
}

// SnapshotToText renders the dashboard for a terminal.
func SnapshotToText(s stats.Snapshot) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Reading statistics as of %s\n\n", s.AsOf))

	buf.WriteString(fmt.Sprintf("Books:          %d (%d reading, %d want to read, %d finished)\n",
		s.Counts.Total, s.Counts.Reading, s.Counts.WantToRead, s.Counts.Finished))
	buf.WriteString(fmt.Sprintf("Pages read:     %s\n", humanize.Comma(int64(s.TotalPages))))
	buf.WriteString(fmt.Sprintf("Average rating: %s (%d rated)\n", Rating(s.AverageRating), s.RatedBooks))
	buf.WriteString(fmt.Sprintf("Favorite genre: %s\n", favoriteGenre(s)))
	buf.WriteString(fmt.Sprintf("Reading time:   %s total, %s a day on average\n",
		Minutes(s.TotalReadingMinutes), Minutes(s.AverageDailyMinutes)))
	buf.WriteString(fmt.Sprintf("Streak:         %d days (longest %d)\n", s.CurrentStreak, s.LongestStreak))

	buf.WriteString("\nGoals\n")
	buf.WriteString(fmt.Sprintf("  Today  %s %3d%%  %d/%d min\n",
		ProgressBar(s.Daily.Percent, barWidth), s.Daily.Percent, s.Daily.Minutes, s.Daily.Goal))
	buf.WriteString(fmt.Sprintf("  Year   %s %3d%%  %d/%d books\n",
		ProgressBar(s.Yearly.Percent, barWidth), s.Yearly.Percent, s.Yearly.Finished, s.Yearly.Goal))

	buf.WriteString(fmt.Sprintf("\nFinished per month (%d this month)\n", s.ThisMonthBooks))
	peak := s.MaxMonthly()
	for _, m := range s.Monthly {
		buf.WriteString(fmt.Sprintf("  %s %d %-*s %d\n", m.Label, m.Year, barWidth, Bar(m.Count, peak, barWidth), m.Count))
	}

	buf.WriteString("\nLast 7 days\n")
	weekPeak := 1
	for _, d := range s.Week {
		weekPeak = max(weekPeak, d.Minutes)
	}
	for _, d := range s.Week {
		buf.WriteString(fmt.Sprintf("  %s %s %-*s %s\n",
			d.Date.Time().Weekday().String()[:3], d.Date, barWidth, Bar(d.Minutes, weekPeak, barWidth), Minutes(d.Minutes)))
	}

	return buf.Bytes()
}

// SnapshotToMarkdown renders the dashboard as a Markdown report.
func SnapshotToMarkdown(s stats.Snapshot) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Reading statistics (%s)\n\n", s.AsOf))

	buf.WriteString("| Metric | Value |\n| --- | --- |\n")
	rows := [][2]string{
		{"Books", fmt.Sprintf("%d", s.Counts.Total)},
		{"Currently reading", fmt.Sprintf("%d", s.Counts.Reading)},
		{"Want to read", fmt.Sprintf("%d", s.Counts.WantToRead)},
		{"Finished", fmt.Sprintf("%d", s.Counts.Finished)},
		{"Pages read", humanize.Comma(int64(s.TotalPages))},
		{"Average rating", Rating(s.AverageRating)},
		{"Favorite genre", favoriteGenre(s)},
		{"Total reading time", Minutes(s.TotalReadingMinutes)},
		{"Daily average", Minutes(s.AverageDailyMinutes)},
		{"Current streak", fmt.Sprintf("%d days", s.CurrentStreak)},
		{"Longest streak", fmt.Sprintf("%d days", s.LongestStreak)},
	}
	for _, r := range rows {
		buf.WriteString(fmt.Sprintf("| %s | %s |\n", r[0], r[1]))
	}

	buf.WriteString("\n## Goals\n\n")
	buf.WriteString(fmt.Sprintf("- Today: %d of %d minutes (%d%%)", s.Daily.Minutes, s.Daily.Goal, s.Daily.Percent))
	if s.Daily.Complete {
		buf.WriteString(" ✓")
	}
	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf("- This year: %d of %d books (%d%%)\n", s.Yearly.Finished, s.Yearly.Goal, s.Yearly.Percent))

	buf.WriteString("\n## Finished per month\n\n| Month | Books |\n| --- | --- |\n")
	for _, m := range s.Monthly {
		buf.WriteString(fmt.Sprintf("| %s %d | %d |\n", m.Label, m.Year, m.Count))
	}

	return buf.Bytes()
}

// AchievementsToText renders the achievement list with the level header.
func AchievementsToText(sum achievements.Summary) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Level %d  %s  %s points (next level at %s)\n",
		sum.Level, ProgressBar(sum.LevelProgress(), barWidth),
		humanize.Comma(int64(sum.Points)), humanize.Comma(int64(sum.NextLevelAt))))
	buf.WriteString(fmt.Sprintf("%d of %d unlocked\n\n", sum.Unlocked, sum.Total))

	for _, p := range sum.Achievements {
		mark := "·"
		if p.Unlocked {
			mark = "✓"
		}
		buf.WriteString(fmt.Sprintf("%s %-14s %-9s %3d pts  %s (%d/%d)\n",
			mark, p.Title, p.Rarity, p.Points, p.Description, p.Current, p.Target))
	}

	return buf.Bytes()
}
