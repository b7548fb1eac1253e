// Package achievements scores a [stats.Snapshot] against a fixed catalog of reading milestones.
//
// Each achievement tracks one snapshot metric (finished books, current streak, pages in a day or rated books)
// against a target. Unlocked achievements award points, and points determine the reader's level.
package achievements
