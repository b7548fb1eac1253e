// Package models defines domain entities and persistence interfaces for BookMedia.
//
// The package contains three groups of types:
//
// 1. Shelf entities
//   - [Book] : A tracked book with its [Status] lifecycle (want-to-read → reading → finished)
//   - [ReadingSession] : An append-only record of minutes and pages read on a calendar day
//
// 2. Profile entities
//   - [User] : The single local profile with [Preferences] collected during onboarding
//   - [Goals] : Daily minute and yearly book targets derived from preferences
//
// 3. Value types
//   - [Status] : Shelf bucket enum
//   - [Date] : Calendar day without time of day, serialized as "2006-01-02"
//
// Book enforces its lifecycle invariants through methods ([Book.Start], [Book.SetProgress], [Book.Finish],
// [Book.SetStatus]) rather than direct field writes; [Book.Validate] re-checks them after decoding stored data.
//
// All persistent entities implement [Model]. The [Repository] interface defines standard CRUD operations.
package models
