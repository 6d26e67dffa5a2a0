// Package api exposes the catalog over a small JSON HTTP API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"storyshelf/internal/core/domain/models"
	"storyshelf/internal/core/service"
	"strings"

	"github.com/gin-gonic/gin"
)

// Catalog is the part of service.CatalogService the handlers need.
type Catalog interface {
	Query(ctx context.Context, state models.FilterState) (service.QueryResult, error)
	Options(ctx context.Context) (models.FilterOptions, error)
	ClearCache()
}

type Handler struct {
	Catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{Catalog: catalog}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/books", h.listBooks)     // GET /api/books
	rg.GET("/filters", h.filters)     // GET /api/filters
	rg.DELETE("/cache", h.clearCache) // DELETE /api/cache
}

// NewRouter builds the gin engine with the API group and a health probe.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func (h *Handler) listBooks(c *gin.Context) {
	state := FilterStateFromQuery(c)

	res, err := h.Catalog.Query(c.Request.Context(), state)
	if err != nil {
		writeError(c, err)
		return
	}

	if res.Search {
		results := res.Results
		if results == nil {
			results = []models.SearchResult{}
		}
		c.JSON(http.StatusOK, gin.H{"results": results, "total": res.Total})
		return
	}

	books := res.Books
	if books == nil {
		books = []models.Book{}
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "total": res.Total})
}

func (h *Handler) filters(c *gin.Context) {
	opts, err := h.Catalog.Options(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *Handler) clearCache(c *gin.Context) {
	h.Catalog.ClearCache()
	c.Status(http.StatusNoContent)
}

// FilterStateFromQuery reads facets from repeatable or comma-separated query
// parameters: language, level, category, publisher, date and q.
func FilterStateFromQuery(c *gin.Context) models.FilterState {
	return models.FilterState{
		Languages:   queryValues(c, "language"),
		Levels:      queryValues(c, "level"),
		Categories:  queryValues(c, "category"),
		Publishers:  queryValues(c, "publisher"),
		Date:        models.ParseDateFilter(c.Query("date")),
		SearchQuery: strings.TrimSpace(c.Query("q")),
	}
}

// queryValues accepts language=English&language=Hindi as well as
// language=English,Hindi. Commas inside values are not supported.
func queryValues(c *gin.Context, key string) models.Selection {
	sel := models.NewSelection()
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			sel.Add(part)
		}
	}
	return sel
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrCatalogUnavailable) {
		slog.Warn("Catalog unavailable", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	slog.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
