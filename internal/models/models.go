// package models defines the data model for the book tracking application
package models

import "context"

// Model defines the base interface for all persistent models.
// Implementations include Book, ReadingSession and User.
type Model interface {
	Identifier() string // Identifier returns the unique identifier for this model
	Validate() error    // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle store interactions for specific model types.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error                      // Create inserts a new model into the store
	Get(ctx context.Context, id string) (T, error)                  // Get retrieves a model by its ID
	Update(ctx context.Context, model T) error                      // Update modifies an existing model in the store
	Delete(ctx context.Context, id string) error                    // Delete removes a model from the store by its ID
	List(ctx context.Context, criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}
