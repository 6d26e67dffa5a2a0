package service

import (
	"storyshelf/internal/adapters/source"
	"storyshelf/internal/adapters/util"
	"storyshelf/internal/config"
	"storyshelf/internal/core/domain/ports"
	"storyshelf/internal/core/filter"
	"storyshelf/internal/core/search"
	"time"
)

func CreateCatalogSource(cfg *config.Config) ports.CatalogSource {
	fetcher := util.NewHTTPFetcher(cfg.HTTPTimeout, cfg.UserAgent)
	adapter := source.NewOPDSAdapter(cfg.OPDSRootURL, fetcher, cfg.FetchConcurrency, cfg.MaxSectionPages)
	adapter.EntryNavigation = cfg.EntryNavigation
	return adapter
}

func CreateCatalogService(cfg *config.Config) *CatalogService {
	searcher := search.NewSearcher()
	searcher.MaxResults = cfg.SearchMaxResults
	searcher.MinQueryLength = cfg.SearchMinQueryLength

	return NewCatalogService(
		CreateCatalogSource(cfg),
		NewCatalogCache(cfg.CacheTTL, time.Now),
		filter.NewEngine(),
		searcher,
	)
}
