package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the catalog.
type Metrics struct {
	// BookCount is the number of books in the store
	BookCount int64 `json:"book_count"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting catalog metrics.
type Collector interface {
	// Collect gathers current metrics from the store
	Collect(ctx context.Context) (Metrics, error)

	// GetBookCount returns the number of books in the store
	GetBookCount(ctx context.Context) (int64, error)
}
