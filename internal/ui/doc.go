// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The dashboard has four tabs:
//  1. [LibraryView] : Browse shelves, advance a book's status, add progress and rate
//  2. [PlannerView] : Today's reading against the daily goal, the last seven days, and session logging
//  3. [StatsView] : The statistics snapshot
//  4. [AchievementsView] : Unlocked achievements, points and level
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving results of
// service calls via the Msg union type. Every mutation reloads the shelf, planner and dashboard so the tabs
// always agree.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, esc, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
