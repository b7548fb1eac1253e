package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Profile errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrNotOnboarded     = fmt.Errorf("onboarding not completed")

	// Storage errors
	ErrKeyNotFound   = fmt.Errorf("key not found")
	ErrNotFound      = fmt.Errorf("record not found")
	ErrMalformedData = fmt.Errorf("malformed stored data")
	ErrImmutable     = fmt.Errorf("record is immutable")
	ErrDuplicateID   = fmt.Errorf("duplicate record id")

	// Domain errors
	ErrInvalidTransition = fmt.Errorf("invalid status transition")
	ErrInvalidBook       = fmt.Errorf("invalid book")
	ErrInvalidSession    = fmt.Errorf("invalid reading session")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
