package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/library-catalog/book"
)

// CatalogCollector implements Collector on top of any book store
type CatalogCollector struct {
	reader book.Reader
}

// NewCatalogCollector creates a collector reading from the given store
func NewCatalogCollector(reader book.Reader) *CatalogCollector {
	return &CatalogCollector{
		reader: reader,
	}
}

// Collect gathers all metrics from the store
func (c *CatalogCollector) Collect(ctx context.Context) (Metrics, error) {
	count, err := c.GetBookCount(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("getting book count: %w", err)
	}

	return Metrics{
		BookCount: count,
		Timestamp: time.Now(),
	}, nil
}

// GetBookCount asks the store for a one-book page and keeps only its total
func (c *CatalogCollector) GetBookCount(ctx context.Context) (int64, error) {
	_, total, err := c.reader.SelectPage(ctx, 1, 0)
	if err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return int64(total), nil
}
