package service

import (
	"context"
	"fmt"
	"log/slog"
	"storyshelf/internal/core/domain/models"
	"storyshelf/internal/core/domain/ports"
	"storyshelf/internal/core/filter"
	"storyshelf/internal/core/search"
	"strings"
	"time"
)

// QueryResult is the outcome of one catalog query. Results is only set when
// the query carried a search string; Books holds the filtered catalog either way.
type QueryResult struct {
	Books   []models.Book         `json:"books" yaml:"books"`
	Results []models.SearchResult `json:"results,omitempty" yaml:"results,omitempty"`
	Total   int                   `json:"total" yaml:"total"`
	Search  bool                  `json:"-" yaml:"-"`
}

// CatalogService runs the fetch, filter and search pipeline over a cached
// catalog snapshot.
type CatalogService struct {
	src      ports.CatalogSource
	cache    *CatalogCache
	filter   *filter.Engine
	searcher *search.Searcher
}

func NewCatalogService(src ports.CatalogSource, cache *CatalogCache, engine *filter.Engine, searcher *search.Searcher) *CatalogService {
	if engine == nil {
		engine = filter.NewEngine()
	}
	if searcher == nil {
		searcher = search.NewSearcher()
	}
	return &CatalogService{
		src:      src,
		cache:    cache,
		filter:   engine,
		searcher: searcher,
	}
}

// Books returns the whole catalog, fetching it when the cache is cold or
// stale. Errors wrap models.ErrCatalogUnavailable for root-level failures.
func (s *CatalogService) Books(ctx context.Context) ([]models.Book, error) {
	books, err := s.cache.GetOrRefresh(ctx, s.refresh)
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (s *CatalogService) refresh(ctx context.Context) ([]models.Book, error) {
	start := time.Now()
	slog.Info("Fetching catalog")

	books, err := s.src.FetchAllBooks(ctx)
	if err != nil {
		slog.Error("Catalog fetch failed", "error", err)
		return nil, err
	}

	slog.Info("Catalog fetched", "books", len(books), "elapsed", time.Since(start))
	return books, nil
}

// Query filters the catalog by state and, when state carries a search string,
// ranks the survivors. Zero matches is an empty result, not an error.
func (s *CatalogService) Query(ctx context.Context, state models.FilterState) (QueryResult, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return QueryResult{}, fmt.Errorf("query catalog: %w", err)
	}

	filtered := s.filter.FilterBooks(books, state)
	if strings.TrimSpace(state.SearchQuery) == "" {
		return QueryResult{Books: filtered, Total: len(filtered)}, nil
	}

	results := s.searcher.Search(filtered, state.SearchQuery)
	ranked := make([]models.Book, 0, len(results))
	for _, r := range results {
		ranked = append(ranked, r.Book)
	}
	return QueryResult{Books: ranked, Results: results, Total: len(results), Search: true}, nil
}

// Options derives the selectable facet values from the catalog.
func (s *CatalogService) Options(ctx context.Context) (models.FilterOptions, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return models.FilterOptions{}, fmt.Errorf("load filter options: %w", err)
	}
	return s.filter.Options(books), nil
}

// ClearCache drops the cached snapshot; the next call refetches.
func (s *CatalogService) ClearCache() {
	s.cache.Invalidate()
	slog.Info("Catalog cache cleared")
}
