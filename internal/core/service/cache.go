package service

import (
	"context"
	"log/slog"
	"storyshelf/internal/core/domain/models"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CatalogCache holds one catalog snapshot for a fixed TTL. Reads never see a
// partially written entry: a refresh swaps the whole entry under the lock.
type CatalogCache struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	books     []models.Book
	fetchedAt time.Time
	valid     bool
	// generation advances on every Invalidate; a refresh started under an
	// older generation does not store its result.
	generation uint64

	group singleflight.Group
}

func NewCatalogCache(ttl time.Duration, now func() time.Time) *CatalogCache {
	if now == nil {
		now = time.Now
	}
	return &CatalogCache{ttl: ttl, now: now}
}

// Get returns the snapshot if it is still fresh.
func (c *CatalogCache) Get() ([]models.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return append([]models.Book(nil), c.books...), true
}

// GetOrRefresh returns the fresh snapshot or runs refresh to replace it.
// Concurrent callers share a single refresh, which runs detached from any one
// caller's cancellation; each caller stops waiting when its own ctx is done.
// A failed refresh leaves the previous entry untouched.
func (c *CatalogCache) GetOrRefresh(ctx context.Context, refresh func(context.Context) ([]models.Book, error)) ([]models.Book, error) {
	if books, ok := c.Get(); ok {
		return books, nil
	}

	gen := c.currentGeneration()
	key := "catalog/" + strconv.FormatUint(gen, 10)
	shared := context.WithoutCancel(ctx)

	ch := c.group.DoChan(key, func() (interface{}, error) {
		if books, ok := c.Get(); ok {
			return books, nil
		}
		books, err := refresh(shared)
		if err != nil {
			return nil, err
		}
		if !c.storeAt(gen, books) {
			slog.Debug("Discarding catalog refresh started before invalidation", "books", len(books))
		}
		return books, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return append([]models.Book(nil), res.Val.([]models.Book)...), nil
	}
}

// Invalidate empties the cache unconditionally.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.books = nil
	c.fetchedAt = time.Time{}
	c.valid = false
	c.generation++
}

// FetchedAt reports when the current entry was stored.
func (c *CatalogCache) FetchedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt, c.valid
}

func (c *CatalogCache) currentGeneration() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// storeAt replaces the entry unless the cache was invalidated since gen.
func (c *CatalogCache) storeAt(gen uint64, books []models.Book) bool {
	snapshot := append([]models.Book(nil), books...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return false
	}
	c.books = snapshot
	c.fetchedAt = c.now()
	c.valid = true
	return true
}
