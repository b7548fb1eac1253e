package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
	"github.com/desertthunder/bookmedia/internal/stats"
)

// ShelfAll selects every book regardless of status.
const ShelfAll = "all"

// minRefPrefix is the shortest ID prefix accepted by [Library.Resolve].
const minRefPrefix = 4

// AddBookInput holds the fields of the add-book form.
type AddBookInput struct {
	Title  string
	Author string
	Pages  int
	Genre  string
	Cover  string
	Status models.Status // defaults to want-to-read
}

// Library manages the book shelf.
type Library struct {
	books  BookStore
	now    Clock
	logger *log.Logger
}

func NewLibrary(books BookStore, opts Options) *Library {
	opts = opts.withDefaults()
	return &Library{books: books, now: opts.Clock, logger: opts.Logger}
}

// Add creates a book. A book added as reading gets today's start date; one added as finished jumps to its
// last page with today's finish date.
func (l *Library) Add(ctx context.Context, in AddBookInput) (*models.Book, error) {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return nil, fmt.Errorf("%w: title", shared.ErrMissingArgument)
	case strings.TrimSpace(in.Author) == "":
		return nil, fmt.Errorf("%w: author", shared.ErrMissingArgument)
	case in.Pages <= 0:
		return nil, fmt.Errorf("%w: page count must be positive", shared.ErrInvalidInput)
	}

	book := models.NewBook(in.Title, in.Author, in.Pages, in.Genre)
	book.Cover = strings.TrimSpace(in.Cover)
	if in.Status != "" {
		if err := book.SetStatus(in.Status, today(l.now)); err != nil {
			return nil, err
		}
	}

	if err := l.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to add book: %w", err)
	}

	l.logger.Debug("book added", "id", book.ID, "title", book.Title, "status", book.Status)
	return book, nil
}

// Get retrieves a book by exact ID.
func (l *Library) Get(ctx context.Context, id string) (*models.Book, error) {
	return l.books.Get(ctx, id)
}

// Resolve finds a book by ID, unique ID prefix, or case-insensitive exact title.
func (l *Library) Resolve(ctx context.Context, ref string) (*models.Book, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: book", shared.ErrMissingArgument)
	}

	if book, err := l.books.Get(ctx, ref); err == nil {
		return book, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	books, err := l.books.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	var matches []*models.Book
	for _, b := range books {
		if (len(ref) >= minRefPrefix && strings.HasPrefix(b.ID, ref)) || strings.EqualFold(b.Title, ref) {
			matches = append(matches, b)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no book matches %q", shared.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d books", shared.ErrInvalidArgument, ref, len(matches))
	}
}

// update resolves ref, applies fn and saves the result.
func (l *Library) update(ctx context.Context, ref string, fn func(*models.Book) error) (*models.Book, error) {
	book, err := l.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := fn(book); err != nil {
		return nil, err
	}
	if err := l.books.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save book: %w", err)
	}
	return book, nil
}

// Patch applies fn to the book and saves it once. Nothing is stored when fn fails.
func (l *Library) Patch(ctx context.Context, ref string, fn func(b *models.Book, today models.Date) error) (*models.Book, error) {
	return l.update(ctx, ref, func(b *models.Book) error {
		return fn(b, today(l.now))
	})
}

// SetProgress records the current page, starting or finishing the book as needed.
func (l *Library) SetProgress(ctx context.Context, ref string, page int) (*models.Book, error) {
	return l.update(ctx, ref, func(b *models.Book) error {
		return b.SetProgress(page, today(l.now))
	})
}

// SetStatus moves a book to another shelf. Finished books cannot be reopened.
func (l *Library) SetStatus(ctx context.Context, ref string, status models.Status) (*models.Book, error) {
	return l.update(ctx, ref, func(b *models.Book) error {
		return b.SetStatus(status, today(l.now))
	})
}

// Rate sets a 1..5 rating, or clears it when rating is 0 or repeats the current rating.
func (l *Library) Rate(ctx context.Context, ref string, rating int) (*models.Book, error) {
	return l.update(ctx, ref, func(b *models.Book) error {
		return b.Rate(rating)
	})
}

func (l *Library) SetNotes(ctx context.Context, ref, notes string) (*models.Book, error) {
	return l.update(ctx, ref, func(b *models.Book) error {
		b.Notes = strings.TrimSpace(notes)
		return nil
	})
}

// Delete removes a book and returns what was removed.
func (l *Library) Delete(ctx context.Context, ref string) (*models.Book, error) {
	book, err := l.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := l.books.Delete(ctx, book.ID); err != nil {
		return nil, fmt.Errorf("failed to delete book: %w", err)
	}
	l.logger.Debug("book deleted", "id", book.ID, "title", book.Title)
	return book, nil
}

// Shelf lists books on shelf ("all", empty, or a status name) whose title or author contains query.
func (l *Library) Shelf(ctx context.Context, shelf, query string) ([]*models.Book, error) {
	criteria := map[string]any{"query": query}
	if shelf != "" && !strings.EqualFold(shelf, ShelfAll) {
		status, err := models.ParseStatus(shelf)
		if err != nil {
			return nil, err
		}
		criteria["status"] = status
	}
	return l.books.List(ctx, criteria)
}

// ShelfCounts returns the per-status counts shown on the shelf tabs.
func (l *Library) ShelfCounts(ctx context.Context) (stats.ShelfCounts, error) {
	books, err := l.books.All(ctx)
	if err != nil {
		return stats.ShelfCounts{}, err
	}
	return stats.Counts(books), nil
}
