package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bookmedia/internal/formatter"
	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/services"
	"github.com/desertthunder/bookmedia/internal/shared"
)

func bookRef(cmd *cli.Command) (string, error) {
	ref := cmd.StringArg("book")
	if ref == "" {
		return "", fmt.Errorf("%w: book ID or title", shared.ErrMissingArgument)
	}
	return ref, nil
}

// BookAdd adds a book to the library.
func (r *Runner) BookAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	status, err := models.ParseStatus(cmd.String("status"))
	if err != nil {
		return err
	}

	book, err := r.library.Add(ctx, services.AddBookInput{
		Title:  cmd.String("title"),
		Author: cmd.String("author"),
		Pages:  int(cmd.Int("pages")),
		Genre:  cmd.String("genre"),
		Cover:  cmd.String("cover"),
		Status: status,
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Added %s\n", formatter.BookLine(*book))
	r.writePlain("ID: %s\n", book.ID)
	return nil
}

// BookList lists the books on a shelf, optionally filtered by title or author.
func (r *Runner) BookList(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	shelf := cmd.String("shelf")
	books, err := r.library.Shelf(ctx, shelf, cmd.String("query"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, true)
	}

	counts, err := r.library.ShelfCounts(ctx)
	if err != nil {
		return err
	}

	r.writePlain("All: %d | Want to Read: %d | Reading: %d | Finished: %d\n\n",
		counts.Total, counts.WantToRead, counts.Reading, counts.Finished)

	if len(books) == 0 {
		r.writePlain("No books on this shelf.\n")
		return nil
	}

	for _, b := range books {
		r.writePlain("%s  %s\n", shortID(b.ID), formatter.BookLine(*b))
	}
	return nil
}

// BookShow prints every field of one book.
func (r *Runner) BookShow(ctx context.Context, cmd *cli.Command) error {
	ref, err := bookRef(cmd)
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	book, err := r.library.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(book, true)
	}

	r.writePlainHeader(book.Title)
	r.writePlain("ID:       %s\n", book.ID)
	r.writePlain("Author:   %s\n", book.Author)
	if book.Genre != "" {
		r.writePlain("Genre:    %s\n", book.Genre)
	}
	r.writePlain("Shelf:    %s\n", formatter.ShelfTitle(book.Status))
	r.writePlain("Progress: %d/%d pages (%d%%)\n", book.CurrentPage, book.TotalPages, book.Progress())
	if book.Rating > 0 {
		r.writePlain("Rating:   %s\n", formatter.Stars(book.Rating))
	}
	if !book.StartDate.IsZero() {
		r.writePlain("Started:  %s (%s)\n", book.StartDate, r.since(book.StartDate))
	}
	if !book.FinishDate.IsZero() {
		r.writePlain("Finished: %s (%s)\n", book.FinishDate, r.since(book.FinishDate))
	}
	if book.Notes != "" {
		r.writePlainln("%s", book.Notes)
	}
	return nil
}

// BookProgress sets the current page.
func (r *Runner) BookProgress(ctx context.Context, cmd *cli.Command) error {
	ref, err := bookRef(cmd)
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	book, err := r.library.SetProgress(ctx, ref, int(cmd.Int("page")))
	if err != nil {
		return err
	}

	r.writePlain("✓ %s\n", formatter.BookLine(*book))
	if book.Status == models.StatusFinished {
		r.writePlain("Finished on %s. Rate it with 'bookmedia book rate'\n", book.FinishDate)
	}
	return nil
}

// BookStatus moves a book to another shelf.
func (r *Runner) BookStatus(ctx context.Context, cmd *cli.Command) error {
	ref, err := bookRef(cmd)
	if err != nil {
		return err
	}

	status, err := models.ParseStatus(cmd.String("to"))
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	book, err := r.library.SetStatus(ctx, ref, status)
	if err != nil {
		return err
	}

	r.writePlain("✓ Moved to %s: %s\n", formatter.ShelfTitle(book.Status), formatter.BookLine(*book))
	return nil
}

// BookRate rates a book.
func (r *Runner) BookRate(ctx context.Context, cmd *cli.Command) error {
	ref, err := bookRef(cmd)
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	book, err := r.library.Rate(ctx, ref, int(cmd.Int("stars")))
	if err != nil {
		return err
	}

	if book.Rating == 0 {
		r.writePlain("✓ Rating cleared for %s\n", book.Title)
		return nil
	}
	r.writePlain("✓ %s %s\n", book.Title, formatter.Stars(book.Rating))
	return nil
}

// BookNote replaces a book's notes.
func (r *Runner) BookNote(ctx context.Context, cmd *cli.Command) error {
	ref, err := bookRef(cmd)
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	book, err := r.library.SetNotes(ctx, ref, cmd.String("text"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Notes saved for %s\n", book.Title)
	return nil
}

// BookDelete removes a book.
func (r *Runner) BookDelete(ctx context.Context, cmd *cli.Command) error {
	ref, err := bookRef(cmd)
	if err != nil {
		return err
	}
	if err := r.open(ctx); err != nil {
		return err
	}

	book, err := r.library.Delete(ctx, ref)
	if err != nil {
		return err
	}

	r.writePlain("✓ Deleted %s\n", book.Title)
	return nil
}

func (r *Runner) since(d models.Date) string {
	return humanize.RelTime(d.Time(), r.clock(), "ago", "from now")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
