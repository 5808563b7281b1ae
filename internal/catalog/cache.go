package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkandthread/printshop-backend/pkg/db/models"
)

// GarmentCache is a read-through TTL cache in front of garment lookups. It
// exists as an explicit component with an injected clock so staleness is
// testable and tunable per deployment.
type GarmentCache struct {
	source Service
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	byID    map[uuid.UUID]cachedGarment
	listing *cachedListing
}

type cachedGarment struct {
	garment  models.Garment
	loadedAt time.Time
}

type cachedListing struct {
	garments []models.Garment
	loadedAt time.Time
}

// NewGarmentCache wraps source with a TTL cache. A nil clock defaults to
// time.Now.
func NewGarmentCache(source Service, ttl time.Duration, now func() time.Time) *GarmentCache {
	if now == nil {
		now = time.Now
	}
	return &GarmentCache{
		source: source,
		ttl:    ttl,
		now:    now,
		byID:   make(map[uuid.UUID]cachedGarment),
	}
}

// GetGarment returns the cached garment when fresh, loading through on miss
// or expiry.
func (c *GarmentCache) GetGarment(ctx context.Context, id uuid.UUID) (*models.Garment, error) {
	c.mu.RLock()
	entry, ok := c.byID[id]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.loadedAt) < c.ttl {
		garment := entry.garment
		return &garment, nil
	}

	garment, err := c.source.GetGarment(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.byID[id] = cachedGarment{garment: *garment, loadedAt: c.now()}
	c.mu.Unlock()
	return garment, nil
}

// GetGarments loads a batch straight through. Campaign reads want one
// consistent snapshot rather than entries of mixed cache age.
func (c *GarmentCache) GetGarments(ctx context.Context, ids []uuid.UUID) ([]models.Garment, error) {
	return c.source.GetGarments(ctx, ids)
}

// ListGarments returns the cached active listing when fresh.
func (c *GarmentCache) ListGarments(ctx context.Context) ([]models.Garment, error) {
	c.mu.RLock()
	listing := c.listing
	c.mu.RUnlock()
	if listing != nil && c.now().Sub(listing.loadedAt) < c.ttl {
		return listing.garments, nil
	}

	garments, err := c.source.ListGarments(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.listing = &cachedListing{garments: garments, loadedAt: c.now()}
	c.mu.Unlock()
	return garments, nil
}

// Invalidate drops cached state for one garment and the listing. Admin
// writes call this so edits show up before the TTL lapses.
func (c *GarmentCache) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	delete(c.byID, id)
	c.listing = nil
	c.mu.Unlock()
}
