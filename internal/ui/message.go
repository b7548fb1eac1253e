package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/services"
	"github.com/desertthunder/bookmedia/internal/stats"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgShelfLoaded MsgKind = iota
	MsgPlannerLoaded
	MsgDashboardLoaded
	MsgBookUpdated
	MsgSessionLogged
)

type shelfLoaded struct {
	shelf string
	books []*models.Book
	err   error
}

type plannerLoaded struct {
	today *services.TodaySummary
	week  []stats.DayActivity
	err   error
}

type dashboardLoaded struct {
	view *services.DashboardView
	err  error
}

type bookUpdated struct {
	action string
	book   *models.Book
	err    error
}

type sessionLogged struct {
	session *models.ReadingSession
	err     error
}

// shelfLoadedMsg is the constructor for [MsgShelfLoaded]
func shelfLoadedMsg(shelf string, books []*models.Book, err error) Msg {
	return Msg{kind: MsgShelfLoaded, data: shelfLoaded{shelf, books, err}}
}

// plannerLoadedMsg is the constructor for [MsgPlannerLoaded]
func plannerLoadedMsg(today *services.TodaySummary, week []stats.DayActivity, err error) Msg {
	return Msg{kind: MsgPlannerLoaded, data: plannerLoaded{today, week, err}}
}

// dashboardLoadedMsg is the constructor for [MsgDashboardLoaded]
func dashboardLoadedMsg(view *services.DashboardView, err error) Msg {
	return Msg{kind: MsgDashboardLoaded, data: dashboardLoaded{view, err}}
}

// bookUpdatedMsg is the constructor for [MsgBookUpdated]
func bookUpdatedMsg(action string, book *models.Book, err error) Msg {
	return Msg{kind: MsgBookUpdated, data: bookUpdated{action, book, err}}
}

// sessionLoggedMsg is the constructor for [MsgSessionLogged]
func sessionLoggedMsg(session *models.ReadingSession, err error) Msg {
	return Msg{kind: MsgSessionLogged, data: sessionLogged{session, err}}
}
