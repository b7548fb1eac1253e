// Package services implements the application workflows on top of the repositories and the stats engine.
//
// # Library
//
// [Library] is the shelf manager: adding books, moving them through want-to-read, reading and finished,
// recording progress, ratings and notes, and filtering shelves by status and free-text query.
//
// # Planner
//
// [Planner] logs reading sessions for today and reports progress towards the daily minutes goal.
//
// # Profile
//
// [Profile] handles the mock signup and login, the four-step [Onboarding] wizard and goal settings.
// Passwords are validated but never stored: login only selects the local profile.
//
// # Dashboard
//
// [Dashboard] loads everything, hands it to [stats.ComputeWith] with an explicit now, and scores the
// resulting snapshot with the achievements catalog. Unreadable stored data is logged and treated as empty.
//
// # Time
//
// Every service reads the current time from an injected [Clock] so windowed statistics are reproducible.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingArgument] : a required field was empty
//   - [shared.ErrInvalidInput] : a field was out of range
//   - [shared.ErrInvalidTransition] : a book cannot move to the requested shelf
//   - [shared.ErrNotAuthenticated] : no profile has been created yet
//   - [shared.ErrNotFound] : no book matched the given reference
package services
