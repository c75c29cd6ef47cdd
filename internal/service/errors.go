package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for outcomes the handlers map directly to a status code.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("invalid password")
	ErrNotFound         = errors.New("recipe not found")
	ErrStoreUnavailable = errors.New("recipe store is not configured")
)

// UpstreamFetchError reports a failed fetch of a user-supplied URL.
type UpstreamFetchError struct {
	URL     string
	Status  int
	Details string
}

func (e *UpstreamFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to fetch URL %s: status %d: %s", e.URL, e.Status, e.Details)
	}
	return fmt.Sprintf("failed to fetch URL %s: %s", e.URL, e.Details)
}

// ExtractionError reports a failure from the completion provider.
type ExtractionError struct {
	Details string
}

func (e *ExtractionError) Error() string {
	return "completion provider error: " + e.Details
}

// StoreError reports a failure from the backing recipe store.
type StoreError struct {
	Op      string
	Details string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("recipe store %s failed: %s", e.Op, e.Details)
}
