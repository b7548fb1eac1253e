// package testing contains shared testing utilities and a small sample library
package testing

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/bookmedia/internal/models"
)

// Now is the reference time used by fixtures: mid-afternoon on 15 March 2024.
var Now = time.Date(2024, time.March, 15, 15, 0, 0, 0, time.UTC)

// SampleBooks returns a fresh library covering every shelf.
//
// Two finished books (300 pages rated 4, 200 pages unrated), one book being read and one waiting.
func SampleBooks() []models.Book {
	return []models.Book{
		{
			ID: "book-dune", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction",
			Status: models.StatusFinished, TotalPages: 300, CurrentPage: 300, Rating: 4,
			StartDate:  models.MustParseDate("2024-02-01"),
			FinishDate: models.MustParseDate("2024-03-02"),
			Notes:      "The spice must flow",
		},
		{
			ID: "book-emma", Title: "Emma", Author: "Jane Austen", Genre: "Classics",
			Status: models.StatusFinished, TotalPages: 200, CurrentPage: 200,
			StartDate:  models.MustParseDate("2024-01-05"),
			FinishDate: models.MustParseDate("2024-01-28"),
		},
		{
			ID: "book-persuasion", Title: "Persuasion", Author: "Jane Austen", Genre: "Classics",
			Status: models.StatusReading, TotalPages: 100, CurrentPage: 40,
			StartDate: models.MustParseDate("2024-03-10"),
		},
		{
			ID: "book-sapiens", Title: "Sapiens", Author: "Yuval Noah Harari", Genre: "History",
			Status: models.StatusWantToRead, TotalPages: 443,
		},
	}
}

// SampleSessions returns three days of reading ending on [Now], with 35 minutes today.
func SampleSessions() []models.ReadingSession {
	return []models.ReadingSession{
		{ID: "s1", Date: models.MustParseDate("2024-03-13"), Minutes: 40, Pages: 30, BookTitle: "Dune"},
		{ID: "s2", Date: models.MustParseDate("2024-03-14"), Minutes: 25, Pages: 20, BookTitle: "Persuasion"},
		{ID: "s3", Date: models.MustParseDate("2024-03-15"), Minutes: 20, Pages: 12, BookTitle: "Persuasion"},
		{ID: "s4", Date: models.MustParseDate("2024-03-15"), Minutes: 15, Pages: 8, BookTitle: "Persuasion"},
	}
}

// NewResponse builds an HTTP response with the given status and body for [MockRoundTripper].
func NewResponse(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
