package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/desertthunder/bookmedia/internal/shared"
)

// Status is the shelf a book sits on.
type Status string

const (
	StatusWantToRead Status = "want-to-read"
	StatusReading    Status = "reading"
	StatusFinished   Status = "finished"
)

// Statuses lists every shelf in lifecycle order.
var Statuses = []Status{StatusWantToRead, StatusReading, StatusFinished}

// ParseStatus accepts the wire names plus a few spellings that are convenient on the command line.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "want-to-read", "want_to_read", "want", "tbr":
		return StatusWantToRead, nil
	case "reading", "current":
		return StatusReading, nil
	case "finished", "done", "read":
		return StatusFinished, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", shared.ErrInvalidArgument, s)
}

func (s Status) Valid() bool {
	return s == StatusWantToRead || s == StatusReading || s == StatusFinished
}

func (s Status) String() string { return string(s) }

// rank orders statuses along the lifecycle; transitions may only move forward.
func (s Status) rank() int {
	switch s {
	case StatusWantToRead:
		return 0
	case StatusReading:
		return 1
	case StatusFinished:
		return 2
	}
	return -1
}

// MaxRating is the top of the 0..5 rating scale; 0 means unrated.
const MaxRating = 5

// Book is a tracked book. Field names follow the stored JSON document.
type Book struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Author      string `json:"author" yaml:"author"`
	Cover       string `json:"cover,omitempty" yaml:"cover,omitempty"`
	Genre       string `json:"genre,omitempty" yaml:"genre,omitempty"`
	Status      Status `json:"status" yaml:"status"`
	TotalPages  int    `json:"totalPages" yaml:"total_pages"`
	CurrentPage int    `json:"currentPage" yaml:"current_page"`
	Rating      int    `json:"rating" yaml:"rating"`
	StartDate   Date   `json:"startDate" yaml:"start_date,omitempty"`
	FinishDate  Date   `json:"finishDate" yaml:"finish_date,omitempty"`
	Notes       string `json:"notes" yaml:"notes,omitempty"`
}

var _ Model = (*Book)(nil)

// NewBook creates a book on the want-to-read shelf.
func NewBook(title, author string, totalPages int, genre string) *Book {
	return &Book{
		Title:      strings.TrimSpace(title),
		Author:     strings.TrimSpace(author),
		Genre:      strings.TrimSpace(genre),
		Status:     StatusWantToRead,
		TotalPages: totalPages,
	}
}

func (b *Book) Identifier() string { return b.ID }

// Progress is the percentage of pages read, rounded to the nearest integer.
func (b *Book) Progress() int {
	if b.TotalPages <= 0 {
		return 0
	}
	return int(math.Round(float64(b.CurrentPage) / float64(b.TotalPages) * 100))
}

// Validate checks field ranges and the lifecycle invariants:
// finished implies currentPage == totalPages with a finish date; reading implies a start date.
func (b *Book) Validate() error {
	switch {
	case strings.TrimSpace(b.Title) == "":
		return fmt.Errorf("%w: title is required", shared.ErrInvalidBook)
	case strings.TrimSpace(b.Author) == "":
		return fmt.Errorf("%w: author is required", shared.ErrInvalidBook)
	case b.TotalPages <= 0:
		return fmt.Errorf("%w: total pages must be positive, got %d", shared.ErrInvalidBook, b.TotalPages)
	case b.CurrentPage < 0 || b.CurrentPage > b.TotalPages:
		return fmt.Errorf("%w: current page %d outside 0..%d", shared.ErrInvalidBook, b.CurrentPage, b.TotalPages)
	case b.Rating < 0 || b.Rating > MaxRating:
		return fmt.Errorf("%w: rating %d outside 0..%d", shared.ErrInvalidBook, b.Rating, MaxRating)
	case !b.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidBook, b.Status)
	}

	switch b.Status {
	case StatusFinished:
		if b.CurrentPage != b.TotalPages {
			return fmt.Errorf("%w: finished book must be on its last page", shared.ErrInvalidBook)
		}
		if b.FinishDate.IsZero() {
			return fmt.Errorf("%w: finished book needs a finish date", shared.ErrInvalidBook)
		}
	case StatusReading:
		if b.StartDate.IsZero() {
			return fmt.Errorf("%w: book being read needs a start date", shared.ErrInvalidBook)
		}
	}

	return nil
}

// Start moves a want-to-read book onto the reading shelf, stamping the start date if unset.
func (b *Book) Start(today Date) error {
	switch b.Status {
	case StatusReading:
		return nil
	case StatusFinished:
		return fmt.Errorf("%w: %s is already finished", shared.ErrInvalidTransition, b.Title)
	}

	b.Status = StatusReading
	if b.StartDate.IsZero() {
		b.StartDate = today
	}
	return nil
}

// Finish stamps the finish date and jumps to the last page.
func (b *Book) Finish(today Date) error {
	if b.Status == StatusFinished {
		return nil
	}

	b.Status = StatusFinished
	b.FinishDate = today
	b.CurrentPage = b.TotalPages
	return nil
}

// SetStatus performs the transition to s. Moving backwards along the lifecycle is rejected.
func (b *Book) SetStatus(s Status, today Date) error {
	if !s.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidArgument, s)
	}
	if s.rank() < b.Status.rank() {
		return fmt.Errorf("%w: %s → %s", shared.ErrInvalidTransition, b.Status, s)
	}

	switch s {
	case StatusReading:
		return b.Start(today)
	case StatusFinished:
		return b.Finish(today)
	}
	return nil
}

// SetProgress records the current page. Pages past the end are clamped; reaching the last page finishes the
// book and any progress on a want-to-read book starts it.
func (b *Book) SetProgress(page int, today Date) error {
	if page < 0 {
		return fmt.Errorf("%w: page must not be negative", shared.ErrInvalidArgument)
	}
	if page > b.TotalPages {
		page = b.TotalPages
	}

	if b.Status == StatusFinished {
		if page < b.TotalPages {
			return fmt.Errorf("%w: %s is already finished", shared.ErrInvalidTransition, b.Title)
		}
		return nil
	}

	b.CurrentPage = page
	if page > 0 && b.Status == StatusWantToRead {
		if err := b.Start(today); err != nil {
			return err
		}
	}
	if page == b.TotalPages {
		return b.Finish(today)
	}
	return nil
}

// Rate sets the rating; choosing the current rating again clears it.
func (b *Book) Rate(rating int) error {
	if rating < 0 || rating > MaxRating {
		return fmt.Errorf("%w: rating must be between 0 and %d", shared.ErrInvalidArgument, MaxRating)
	}
	if rating == b.Rating {
		rating = 0
	}
	b.Rating = rating
	return nil
}

// Matches reports whether query is a case-insensitive substring of the title or author.
func (b *Book) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q)
}
