package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
)

// currentCacheVersion defines the version of the cached row schema
const currentCacheVersion = 1

// cacheTTL is how long a cached row stays fresh.
const cacheTTL = 7 * 24 * time.Hour

// cachedRow is the stored value. Absent rows are cached with Found=false.
type cachedRow struct {
	Found bool                 `json:"found"`
	Row   *schema.RawMetricRow `json:"row,omitempty"`
}

// CachedSource decorates a DataSource with a key/value cache.
type CachedSource struct {
	source contract.DataSource
	store  contract.CacheStore
	now    func() time.Time
}

var _ contract.DataSource = &CachedSource{} // Compile-time check

// NewCachedSource wraps source with store. A nil store returns the source itself.
func NewCachedSource(source contract.DataSource, store contract.CacheStore) contract.DataSource {
	if store == nil {
		return source
	}
	return &CachedSource{source: source, store: store, now: time.Now}
}

// FetchMetricRow serves from cache when a fresh entry exists, otherwise fetches
// and stores the result. Fetch errors are never cached.
func (c *CachedSource) FetchMetricRow(ctx context.Context, family schema.MetricKey, taxID string, fiscalYear int) (*schema.RawMetricRow, error) {
	key := generateCacheKey(family, taxID, fiscalYear)
	if entry, ok := c.checkCacheHit(key); ok {
		return entry.Row, nil
	}

	row, err := c.source.FetchMetricRow(ctx, family, taxID, fiscalYear)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(cachedRow{Found: row != nil, Row: row}); err == nil {
		_ = c.store.Set(key, data, currentCacheVersion, c.now().Unix())
	}
	return row, nil
}

// checkCacheHit attempts to retrieve and validate a cached row
func (c *CachedSource) checkCacheHit(key string) (cachedRow, bool) {
	data, version, ts, err := c.store.Get(key)
	if err != nil || version != currentCacheVersion {
		return cachedRow{}, false
	}
	if c.now().Sub(time.Unix(ts, 0)) > cacheTTL {
		return cachedRow{}, false
	}
	var entry cachedRow
	if err := json.Unmarshal(data, &entry); err != nil {
		return cachedRow{}, false
	}
	if !entry.Found {
		entry.Row = nil
	}
	return entry, true
}

// generateCacheKey creates the key of one metric family of one company-year
func generateCacheKey(family schema.MetricKey, taxID string, fiscalYear int) string {
	return fmt.Sprintf("%s:%s:%d", family, taxID, fiscalYear)
}
