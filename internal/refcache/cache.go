// Package refcache memoizes the reference lists (countries, genres, types, networks)
// for the lifetime of the process.
package refcache

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/alvarorichard/gokino/internal/api"
	"github.com/alvarorichard/gokino/internal/models"
	"github.com/alvarorichard/gokino/internal/query"
	"github.com/alvarorichard/gokino/internal/util"
)

// Loader fetches one reference list from the API
type Loader interface {
	PossibleValues(ctx context.Context, category query.Category) ([]models.ReferenceEntry, error)
}

// Cache holds reference lists. Entries never expire and failures are never stored.
type Cache struct {
	loader Loader
	group  singleflight.Group

	mu      sync.RWMutex
	entries map[query.Category][]models.ReferenceEntry
}

// New returns an empty cache backed by loader
func New(loader Loader) *Cache {
	return &Cache{
		loader:  loader,
		entries: make(map[query.Category][]models.ReferenceEntry),
	}
}

// Get returns the list for category, loading it on first use. Concurrent callers share
// one in-flight load. A caller giving up through ctx does not cancel the load for the others.
func (c *Cache) Get(ctx context.Context, category query.Category) ([]models.ReferenceEntry, error) {
	if !category.Valid() {
		return nil, &api.Error{Op: api.CategoryOp(category), Err: errors.Wrapf(api.ErrUnknownCategory, "%q", category)}
	}
	if entries, ok := c.Cached(category); ok {
		return entries, nil
	}

	ch := c.group.DoChan(string(category), func() (interface{}, error) {
		if entries, ok := c.Cached(category); ok {
			return entries, nil
		}
		entries, err := c.loader.PossibleValues(context.WithoutCancel(ctx), category)
		if err != nil {
			util.Warn("reference list failed", "category", category, "error", err)
			return nil, err
		}
		if entries == nil {
			entries = []models.ReferenceEntry{}
		}
		c.mu.Lock()
		c.entries[category] = entries
		c.mu.Unlock()
		util.Debug("reference list cached", "category", category, "entries", len(entries))
		return entries, nil
	})

	select {
	case <-ctx.Done():
		return nil, &api.Error{Op: api.CategoryOp(category), Err: errors.WithStack(ctx.Err())}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]models.ReferenceEntry)), nil
	}
}

// Cached returns the stored list without loading
func (c *Cache) Cached(category query.Category) ([]models.ReferenceEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries, ok := c.entries[category]
	if !ok {
		return nil, false
	}
	return clone(entries), true
}

// Names returns the entry names of a cached list in server order
func (c *Cache) Names(category query.Category) []string {
	entries, _ := c.Cached(category)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// Prefetch loads every category in parallel and returns the failures by category
func (c *Cache) Prefetch(ctx context.Context, categories ...query.Category) map[query.Category]error {
	if len(categories) == 0 {
		categories = query.Categories
	}

	var mu sync.Mutex
	failures := make(map[query.Category]error)
	tasks := make([]func(), 0, len(categories))
	for _, category := range categories {
		category := category
		tasks = append(tasks, func() {
			if _, err := c.Get(ctx, category); err != nil {
				mu.Lock()
				failures[category] = err
				mu.Unlock()
			}
		})
	}
	util.ParallelExecute(len(tasks), tasks...)
	return failures
}

func clone(entries []models.ReferenceEntry) []models.ReferenceEntry {
	return append([]models.ReferenceEntry(nil), entries...)
}
