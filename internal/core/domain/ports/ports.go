package ports

import (
	"context"
	"io"
	"storyshelf/internal/core/domain/models"
)

// FeedFetcher retrieves a raw feed document. Implementations return an error
// for transport failures and non-success responses.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// CatalogSource produces the full normalized catalog.
type CatalogSource interface {
	FetchAllBooks(ctx context.Context) ([]models.Book, error)
}
