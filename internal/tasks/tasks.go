package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/formatter"
	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/services"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// FormatExportResult describes what one format wrote.
type FormatExportResult struct {
	Format   formatter.Format `json:"format"`
	Files    []string         `json:"files"`
	Warnings []string         `json:"warnings,omitempty"`
	Success  bool             `json:"success"`
	Error    error            `json:"-"`
}

// ExportEngine loads the stored library and writes it out.
type ExportEngine struct {
	books    services.BookStore
	sessions services.SessionStore
	users    services.ProfileStore
	clock    services.Clock
	client   *http.Client
	logger   *log.Logger
}

// NewExportEngine creates an engine over the given stores. client is used for cover downloads; nil uses a
// client with a 30 second timeout.
func NewExportEngine(books services.BookStore, sessions services.SessionStore, users services.ProfileStore, opts services.Options, client *http.Client) *ExportEngine {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &ExportEngine{
		books:    books,
		sessions: sessions,
		users:    users,
		clock:    opts.Clock,
		client:   client,
		logger:   shared.WithLogger(opts.Logger, "component", "export"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Load reads everything an export contains. A missing profile is left out; unreadable data is an error.
func (e *ExportEngine) Load(ctx context.Context) (*formatter.LibraryExport, error) {
	books, err := e.books.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	sessions, err := e.sessions.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	user, err := e.users.Get(ctx)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		user = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return &formatter.LibraryExport{
		ExportedAt: models.DateOf(e.clock()),
		User:       user,
		Books:      books,
		Sessions:   sessions,
	}, nil
}

// Export loads the library and writes format to target: a file for yaml, json and txt, a base path for csv
// and a directory for markdown.
func (e *ExportEngine) Export(ctx context.Context, format formatter.Format, target string) (*FormatExportResult, error) {
	export, err := e.Load(ctx)
	if err != nil {
		return nil, err
	}
	res := e.exportFormat(ctx, export, format, target)
	if !res.Success {
		return &res, res.Error
	}
	return &res, nil
}

// defaultTarget is where a format lands inside a bulk export directory.
func defaultTarget(dir string, format formatter.Format) string {
	switch format {
	case formatter.FormatCSV:
		return filepath.Join(dir, "library")
	case formatter.FormatMarkdown:
		return filepath.Join(dir, "markdown")
	}
	return filepath.Join(dir, "library."+string(format))
}

// exportFormat writes a single format, never returning a partial success.
func (e *ExportEngine) exportFormat(ctx context.Context, export *formatter.LibraryExport, format formatter.Format, target string) FormatExportResult {
	result := FormatExportResult{Format: format, Files: []string{}}

	switch format {
	case formatter.FormatCSV:
		csvRes, err := formatter.WriteCSVExport(export, target)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.BooksFile, csvRes.SessionsFile}

	case formatter.FormatMarkdown:
		mdRes, err := formatter.WriteMarkdownExport(ctx, export, target, e.client)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		for _, w := range mdRes.Warnings {
			e.logger.Warn("cover skipped", "err", w)
			result.Warnings = append(result.Warnings, w.Error())
		}

	case formatter.FormatYAML, formatter.FormatJSON, formatter.FormatText:
		if err := formatter.WriteFile(export, format, target); err != nil {
			result.Error = fmt.Errorf("%s export failed: %w", format, err)
			return result
		}
		result.Files = []string{target}

	default:
		result.Error = fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
		return result
	}

	result.Success = true
	e.logger.Debug("format exported", "format", format, "files", len(result.Files))
	return result
}
