package achievements

import (
	"fmt"
	"strings"

	"github.com/desertthunder/bookmedia/internal/stats"
)

// PointsPerLevel is the number of points between two levels.
const PointsPerLevel = 100

type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Metric selects the snapshot figure an achievement is measured against.
type Metric string

const (
	MetricFinishedBooks Metric = "finished_books"
	MetricBestStreak    Metric = "best_streak" // longer of the current and longest streak
	MetricPagesInADay   Metric = "pages_in_a_day"
	MetricRatedBooks    Metric = "rated_books"
)

func (m Metric) value(s stats.Snapshot) int {
	switch m {
	case MetricFinishedBooks:
		return s.Counts.Finished
	case MetricBestStreak:
		return max(s.CurrentStreak, s.LongestStreak)
	case MetricPagesInADay:
		return s.MaxPagesInADay
	case MetricRatedBooks:
		return s.RatedBooks
	default:
		return 0
	}
}

// Achievement is a catalog entry.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Metric      Metric `json:"metric"`
	Target      int    `json:"target"`
	Points      int    `json:"points"`
	Rarity      Rarity `json:"rarity"`
}

var catalog = []Achievement{
	{ID: "first_book", Title: "First Chapter", Description: "Finish your first book", Metric: MetricFinishedBooks, Target: 1, Points: 10, Rarity: Common},
	{ID: "week_streak", Title: "Week Warrior", Description: "Read for 7 days in a row", Metric: MetricBestStreak, Target: 7, Points: 25, Rarity: Rare},
	{ID: "book_5", Title: "Bookworm", Description: "Finish 5 books", Metric: MetricFinishedBooks, Target: 5, Points: 30, Rarity: Rare},
	{ID: "book_10", Title: "Avid Reader", Description: "Finish 10 books", Metric: MetricFinishedBooks, Target: 10, Points: 50, Rarity: Epic},
	{ID: "month_streak", Title: "Unstoppable", Description: "Read for 30 days in a row", Metric: MetricBestStreak, Target: 30, Points: 100, Rarity: Legendary},
	{ID: "fast_reader", Title: "Speed Reader", Description: "Read 100 pages in a single day", Metric: MetricPagesInADay, Target: 100, Points: 20, Rarity: Rare},
	{ID: "review_master", Title: "Critic", Description: "Rate 10 books", Metric: MetricRatedBooks, Target: 10, Points: 15, Rarity: Common},
}

// Catalog returns a copy of every known achievement in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a catalog entry by ID.
func Lookup(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Progress is one achievement evaluated against a snapshot.
type Progress struct {
	Achievement
	Current  int  `json:"current"`
	Unlocked bool `json:"unlocked"`
}

// Percent is Current/Target as a 0..100 integer.
func (p Progress) Percent() int {
	if p.Target <= 0 {
		return 0
	}
	return stats.ClampPercent(p.Current * 100 / p.Target)
}

func (p Progress) String() string {
	mark := " "
	if p.Unlocked {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s (%d/%d, %d pts, %s)", mark, p.Title, p.Current, p.Target, p.Points, p.Rarity)
}

// Evaluate measures every catalog entry against s. Current never exceeds Target.
func Evaluate(s stats.Snapshot) []Progress {
	out := make([]Progress, 0, len(catalog))
	for _, a := range catalog {
		v := a.Metric.value(s)
		out = append(out, Progress{
			Achievement: a,
			Current:     min(v, a.Target),
			Unlocked:    v >= a.Target,
		})
	}
	return out
}

// Summary totals the unlocked achievements.
type Summary struct {
	Points       int        `json:"points"`
	Level        int        `json:"level"`
	NextLevelAt  int        `json:"nextLevelAt"`
	Unlocked     int        `json:"unlocked"`
	Total        int        `json:"total"`
	Achievements []Progress `json:"achievements"`
}

// LevelProgress is how far the reader is through the current level, 0..100.
func (s Summary) LevelProgress() int {
	return (s.Points % PointsPerLevel) * 100 / PointsPerLevel
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level %d (%d pts, next at %d)\n", s.Level, s.Points, s.NextLevelAt)
	fmt.Fprintf(&b, "%d of %d achievements unlocked\n", s.Unlocked, s.Total)
	for _, p := range s.Achievements {
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Level is points/100 + 1.
func Level(points int) int {
	return max(points, 0)/PointsPerLevel + 1
}

// Summarize evaluates s and totals points and level.
func Summarize(s stats.Snapshot) Summary {
	progress := Evaluate(s)
	sum := Summary{Total: len(progress), Achievements: progress}
	for _, p := range progress {
		if p.Unlocked {
			sum.Points += p.Points
			sum.Unlocked++
		}
	}
	sum.Level = Level(sum.Points)
	sum.NextLevelAt = sum.Level * PointsPerLevel
	return sum
}
