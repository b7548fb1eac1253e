// package formatter renders the library and its statistics to CSV, YAML, JSON, Markdown and plain text
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatYAML, FormatJSON, FormatMarkdown, FormatText}

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json", "":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (csv, yaml, json, markdown, txt)", shared.ErrInvalidFlag, s)
}

// LibraryExport is the full library as written by the export command.
type LibraryExport struct {
	ExportedAt models.Date             `json:"exportedAt" yaml:"exported_at"`
	User       *models.User            `json:"user,omitempty" yaml:"user,omitempty"`
	Books      []models.Book           `json:"books" yaml:"books"`
	Sessions   []models.ReadingSession `json:"sessions" yaml:"sessions"`
}

// BooksToCSV writes one row per book.
func BooksToCSV(books []models.Book) ([]byte, error) {
	headers := []string{"ID", "Title", "Author", "Genre", "Status", "TotalPages", "CurrentPage", "Progress", "Rating", "StartDate", "FinishDate", "Notes"}
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			b.ID,
			b.Title,
			b.Author,
			b.Genre,
			string(b.Status),
			strconv.Itoa(b.TotalPages),
			strconv.Itoa(b.CurrentPage),
			strconv.Itoa(b.Progress()),
			strconv.Itoa(b.Rating),
			b.StartDate.String(),
			b.FinishDate.String(),
			b.Notes,
		})
	}
	return writeCSV(headers, rows)
}

// SessionsToCSV writes one row per reading session.
func SessionsToCSV(sessions []models.ReadingSession) ([]byte, error) {
	headers := []string{"ID", "Date", "Minutes", "Pages", "BookTitle"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.Date.String(),
			strconv.Itoa(s.Minutes),
			strconv.Itoa(s.Pages),
			s.BookTitle,
		})
	}
	return writeCSV(headers, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// LibraryToYAML encodes the export as a YAML document.
func LibraryToYAML(export *LibraryExport) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(export); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// LibraryFromYAML decodes a document produced by [LibraryToYAML].
func LibraryFromYAML(data []byte) (*LibraryExport, error) {
	var export LibraryExport
	if err := yaml.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedData, err)
	}
	return &export, nil
}

// LibraryToJSON encodes the export as indented JSON.
func LibraryToJSON(export *LibraryExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// LibraryToMarkdown renders the shelves as a Markdown document. covers maps book IDs to local image paths.
func LibraryToMarkdown(export *LibraryExport, covers map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	title := "My Library"
	if export.User != nil && export.User.Name != "" {
		title = export.User.Name + "'s Library"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n", export.ExportedAt))
	buf.WriteString(fmt.Sprintf("**Books**: %d\n", len(export.Books)))
	buf.WriteString(fmt.Sprintf("**Sessions**: %d\n", len(export.Sessions)))

	for _, status := range []models.Status{models.StatusReading, models.StatusWantToRead, models.StatusFinished} {
		var shelf []models.Book
		for _, b := range export.Books {
			if b.Status == status {
				shelf = append(shelf, b)
			}
		}
		if len(shelf) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("\n## %s (%d)\n\n", ShelfTitle(status), len(shelf)))
		for i, b := range shelf {
			buf.WriteString(fmt.Sprintf("%d. **%s** by %s", i+1, b.Title, b.Author))
			switch b.Status {
			case models.StatusReading:
				buf.WriteString(fmt.Sprintf(" (%d/%d pages, %d%%)", b.CurrentPage, b.TotalPages, b.Progress()))
			case models.StatusFinished:
				buf.WriteString(fmt.Sprintf(" (finished %s)", b.FinishDate))
			default:
				buf.WriteString(fmt.Sprintf(" (%d pages)", b.TotalPages))
			}
			if b.Rating > 0 {
				buf.WriteString(" " + Stars(b.Rating))
			}
			buf.WriteString("\n")
			if path, ok := covers[b.ID]; ok {
				buf.WriteString(fmt.Sprintf("   ![%s](%s)\n", b.Title, path))
			}
			if b.Notes != "" {
				buf.WriteString(fmt.Sprintf("   > %s\n", b.Notes))
			}
		}
	}

	return buf.Bytes(), nil
}

// LibraryToText lists every book on one line.
func LibraryToText(export *LibraryExport) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Books: %d\n\n", len(export.Books)))
	for i, b := range export.Books {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, BookLine(b)))
	}
	return buf.Bytes(), nil
}

// ShelfTitle is the display name of a status.
func ShelfTitle(s models.Status) string {
	switch s {
	case models.StatusWantToRead:
		return "Want to Read"
	case models.StatusReading:
		return "Currently Reading"
	case models.StatusFinished:
		return "Finished"
	}
	return string(s)
}

// Stars renders a 0..5 rating as filled and empty stars.
func Stars(rating int) string {
	rating = max(0, min(rating, models.MaxRating))
	return strings.Repeat("★", rating) + strings.Repeat("☆", models.MaxRating-rating)
}

// BookLine is a one-line summary such as "Dune - Frank Herbert [reading 40%]".
func BookLine(b models.Book) string {
	line := fmt.Sprintf("%s - %s [%s", b.Title, b.Author, b.Status)
	if b.Status == models.StatusReading {
		line += fmt.Sprintf(" %d%%", b.Progress())
	}
	line += "]"
	if b.Rating > 0 {
		line += " " + Stars(b.Rating)
	}
	return line
}

// MaxImageBytes caps a downloaded cover.
const MaxImageBytes = 10 << 20

// DownloadImage downloads an image from the given URL and returns the raw bytes.
// A nil client uses a client with a 30 second timeout.
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if len(imageData) > MaxImageBytes {
		return nil, fmt.Errorf("failed to download image: larger than %d bytes", MaxImageBytes)
	}
	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	BooksFile    string
	SessionsFile string
}

// WriteCSVExport writes {base}_books.csv and {base}_sessions.csv.
func WriteCSVExport(export *LibraryExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "bookmedia"
	}

	booksCSV, err := BooksToCSV(export.Books)
	if err != nil {
		return nil, fmt.Errorf("failed to generate books CSV: %w", err)
	}
	booksFile := baseFilepath + "_books.csv"
	if err := os.WriteFile(booksFile, booksCSV, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	sessionsCSV, err := SessionsToCSV(export.Sessions)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sessions CSV: %w", err)
	}
	sessionsFile := baseFilepath + "_sessions.csv"
	if err := os.WriteFile(sessionsFile, sessionsCSV, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	return &CSVExportResult{BooksFile: booksFile, SessionsFile: sessionsFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Covers    []string
	Warnings  []error
}

// WriteMarkdownExport writes {dir}/README.md and downloads book covers into {dir}/covers.
// Cover failures are collected as warnings and do not fail the export.
func WriteMarkdownExport(ctx context.Context, export *LibraryExport, outputDir string, client *http.Client) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "bookmedia_library"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}
	covers := make(map[string]string)

	for _, b := range export.Books {
		if b.Cover == "" || !strings.HasPrefix(b.Cover, "http") {
			continue
		}
		name, err := coverName(b.ID)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("%s: %w", b.Title, err))
			continue
		}
		data, err := DownloadImage(ctx, client, b.Cover)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("%s: %w", b.Title, err))
			continue
		}

		rel := filepath.Join("covers", name)
		path := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create covers directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("%s: failed to save cover: %w", b.Title, err))
			continue
		}
		covers[b.ID] = filepath.ToSlash(rel)
		result.Covers = append(result.Covers, path)
		result.Files = append(result.Files, path)
	}

	mdData, err := LibraryToMarkdown(export, covers)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}
	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// coverName is the file name for a book's cover. IDs that could leave the covers directory are rejected.
func coverName(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return "", fmt.Errorf("%w: unsafe book id %q for a cover file", shared.ErrInvalidBook, id)
	}
	return id + ".jpg", nil
}

// WriteFile renders export in a single-file format (yaml, json, txt) and writes it to path.
func WriteFile(export *LibraryExport, format Format, path string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = LibraryToYAML(export)
	case FormatJSON:
		data, err = LibraryToJSON(export)
	case FormatText:
		data, err = LibraryToText(export)
	case FormatMarkdown:
		data, err = LibraryToMarkdown(export, nil)
	default:
		return fmt.Errorf("%w: %s is not a single-file format", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
