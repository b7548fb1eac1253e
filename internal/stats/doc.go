// Package stats derives reading statistics from books, reading sessions and goals.
//
// Every function is pure: inputs are never mutated, nothing is read from the clock or the store, and empty
// input yields zero values rather than errors. Time-windowed figures take an explicit "now" so that the same
// inputs always produce the same [Snapshot].
//
// [Compute] assembles a full [Snapshot]; the individual functions ([Counts], [Pages], [AverageRating],
// [FavoriteGenre], [MonthlyHistogram], [AverageDailyMinutes], [YearlyProgress], [DailyGoalProgress], ...)
// are exported for callers that need a single figure, such as the planner.
//
// Percentages from [YearlyProgress] are deliberately unclamped; use [ClampPercent] when rendering.
package stats
