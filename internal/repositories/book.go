package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// BookRepository implements [models.Repository] for [models.Book] persistence.
type BookRepository struct {
	mu    sync.Mutex
	books collection[models.Book]
}

var _ models.Repository[*models.Book] = (*BookRepository)(nil)

// NewBookRepository creates a new [BookRepository] over store
func NewBookRepository(store Store) *BookRepository {
	return &BookRepository{books: collection[models.Book]{store: store, key: BooksKey}}
}

// Create validates and appends a book, generating an ID when it has none
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == "" {
		book.ID = shared.GenerateID()
	}
	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	books, err := r.books.load(ctx)
	if err != nil {
		return err
	}
	if indexOf(books, book.ID) >= 0 {
		return fmt.Errorf("%w: book %s", shared.ErrDuplicateID, book.ID)
	}

	return r.books.save(ctx, append(books, *book))
}

// Get retrieves a book by ID
func (r *BookRepository) Get(ctx context.Context, id string) (*models.Book, error) {
	books, err := r.books.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(books, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: book %s", shared.ErrNotFound, id)
	}
	book := books[i]
	return &book, nil
}

// Update replaces a stored book with the same ID
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	books, err := r.books.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(books, book.ID)
	if i < 0 {
		return fmt.Errorf("%w: book %s", shared.ErrNotFound, book.ID)
	}
	books[i] = *book

	return r.books.save(ctx, books)
}

// Delete removes a book by ID
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	books, err := r.books.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(books, id)
	if i < 0 {
		return fmt.Errorf("%w: book %s", shared.ErrNotFound, id)
	}

	return r.books.save(ctx, slices.Delete(books, i, i+1))
}

// List retrieves books in insertion order matching the given criteria.
//
// Supported criteria:
//   - "status": a [models.Status] or its string form, restricting to one shelf
//   - "query": case-insensitive substring of title or author
func (r *BookRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Book, error) {
	books, err := r.books.load(ctx)
	if err != nil {
		return nil, err
	}

	var status models.Status
	switch v := criteria["status"].(type) {
	case models.Status:
		status = v
	case string:
		if v != "" {
			if status, err = models.ParseStatus(v); err != nil {
				return nil, err
			}
		}
	}
	query, _ := criteria["query"].(string)

	out := make([]*models.Book, 0, len(books))
	for i := range books {
		b := books[i]
		if status != "" && b.Status != status {
			continue
		}
		if !b.Matches(query) {
			continue
		}
		out = append(out, &b)
	}
	return out, nil
}

// All returns every stored book by value, as consumed by the stats engine
func (r *BookRepository) All(ctx context.Context) ([]models.Book, error) {
	return r.books.load(ctx)
}

func indexOf(books []models.Book, id string) int {
	return slices.IndexFunc(books, func(b models.Book) bool { return b.ID == id })
}
