// Package cache keeps fetched item content so reviewing the same block twice
// costs one backend round trip.
package cache

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/crimson-sun/winnow/internal/connector"
	"github.com/crimson-sun/winnow/internal/model"
)

// Store persists content by item id.
type Store interface {
	Get(ctx context.Context, id int) (model.Content, bool, error)
	Put(ctx context.Context, c model.Content) error
	Close() error
}

// Content serves item content from a Store, falling back to the catalog.
// Concurrent misses for the same id share one fetch.
type Content struct {
	catalog connector.Catalog
	store   Store
	group   singleflight.Group
}

// New creates a content cache over catalog.
func New(catalog connector.Catalog, store Store) *Content {
	return &Content{catalog: catalog, store: store}
}

// Get returns the content of id. Code is NFC-normalised before it is stored.
func (c *Content) Get(ctx context.Context, id int) (model.Content, error) {
	if got, ok, err := c.store.Get(ctx, id); err != nil {
		return model.Content{}, fmt.Errorf("content cache: get %d: %w", id, err)
	} else if ok {
		return got, nil
	}

	v, err, _ := c.group.Do(strconv.Itoa(id), func() (any, error) {
		if got, ok, err := c.store.Get(ctx, id); err == nil && ok {
			return got, nil
		}
		fetched, err := c.catalog.FetchContent(ctx, id)
		if err != nil {
			return nil, err
		}
		fetched.ID = id
		fetched.Code = norm.NFC.String(fetched.Code)
		if err := c.store.Put(ctx, fetched); err != nil {
			return nil, fmt.Errorf("content cache: put %d: %w", id, err)
		}
		return fetched, nil
	})
	if err != nil {
		return model.Content{}, err
	}
	got, ok := v.(model.Content)
	if !ok {
		return model.Content{}, fmt.Errorf("content cache: unexpected value %T", v)
	}
	return got, nil
}

// Close closes the underlying store.
func (c *Content) Close() error {
	return c.store.Close()
}
