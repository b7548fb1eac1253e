package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/bookmedia/internal/shared"
)

// ReadingSession records minutes and pages read on one day. Sessions are append-only.
//
// BookTitle is free text, not a reference to a [Book].
type ReadingSession struct {
	ID        string `json:"id" yaml:"id"`
	Date      Date   `json:"date" yaml:"date"`
	Minutes   int    `json:"minutes" yaml:"minutes"`
	Pages     int    `json:"pages" yaml:"pages"`
	BookTitle string `json:"bookTitle" yaml:"book_title"`
}

var _ Model = (*ReadingSession)(nil)

// NewReadingSession creates a session for the given day.
func NewReadingSession(date Date, minutes, pages int, bookTitle string) *ReadingSession {
	return &ReadingSession{
		Date:      date,
		Minutes:   minutes,
		Pages:     pages,
		BookTitle: strings.TrimSpace(bookTitle),
	}
}

func (s *ReadingSession) Identifier() string { return s.ID }

func (s *ReadingSession) Validate() error {
	switch {
	case s.Date.IsZero():
		return fmt.Errorf("%w: date is required", shared.ErrInvalidSession)
	case s.Minutes <= 0:
		return fmt.Errorf("%w: minutes must be positive, got %d", shared.ErrInvalidSession, s.Minutes)
	case s.Pages < 0:
		return fmt.Errorf("%w: pages must not be negative, got %d", shared.ErrInvalidSession, s.Pages)
	case s.BookTitle == "":
		return fmt.Errorf("%w: book title is required", shared.ErrInvalidSession)
	}
	return nil
}
