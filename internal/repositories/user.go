package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// UserRepository persists the single local [models.User] profile.
type UserRepository struct {
	store Store
}

// NewUserRepository creates a new [UserRepository] over store
func NewUserRepository(store Store) *UserRepository {
	return &UserRepository{store: store}
}

// Get loads the stored profile. It returns [shared.ErrNotFound] when nobody has signed up or logged in.
func (r *UserRepository) Get(ctx context.Context) (*models.User, error) {
	raw, err := r.store.Get(ctx, UserKey)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: no user profile", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrMalformedData, UserKey, err)
	}
	return &user, nil
}

// Save validates and stores the profile, replacing any previous one
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = shared.GenerateID()
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := r.store.Set(ctx, UserKey, raw); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Delete removes the stored profile. Books and sessions are left untouched.
func (r *UserRepository) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, UserKey); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
