package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/bookmedia/internal/formatter"
	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/services"
)

var (
	_ list.Item = bookItem{}
)

// bookItem wraps [models.Book] to implement [list.Item].
type bookItem struct {
	book *models.Book
}

func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.Author }
func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.book.Author, formatter.ShelfTitle(i.book.Status))
	switch i.book.Status {
	case models.StatusReading:
		desc = fmt.Sprintf("%s • %d/%d (%d%%)", desc, i.book.CurrentPage, i.book.TotalPages, i.book.Progress())
	case models.StatusFinished:
		if i.book.Rating > 0 {
			desc = fmt.Sprintf("%s • %s", desc, formatter.Stars(i.book.Rating))
		}
	}
	if i.book.Genre != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.book.Genre)
	}
	return desc
}

func bookItems(books []*models.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	return items
}

// shelves is the order the shelf key cycles through.
var shelves = []string{
	services.ShelfAll,
	string(models.StatusReading),
	string(models.StatusWantToRead),
	string(models.StatusFinished),
}

func shelfTitle(shelf string) string {
	if shelf == services.ShelfAll {
		return "All Books"
	}
	return formatter.ShelfTitle(models.Status(shelf))
}
