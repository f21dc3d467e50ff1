// Package cache provides a two-level market data cache: an in-memory
// layer with a TTL plus CSV files that survive restarts.
package cache

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/coincortex/coincortex/internal/models"
	"github.com/coincortex/coincortex/internal/utils"
)

const (
	memoryTTL = 15 * time.Minute
	fileTTL   = 24 * time.Hour
)

type cacheEntry struct {
	bars      []*models.MarketData
	fetchedAt time.Time
}

// MarketDataCache caches price bars per symbol. Lookups are served from
// memory when fresh, then from the newest CSV file on disk.
type MarketDataCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	csv     *utils.CSVManager
}

func NewMarketDataCache(basePath string) *MarketDataCache {
	return &MarketDataCache{
		entries: make(map[string]cacheEntry),
		csv:     utils.NewCSVManager(basePath),
	}
}

var (
	sharedOnce  sync.Once
	sharedCache *MarketDataCache
)

// Shared returns the process-wide cache rooted at basePath. The path is
// fixed on first call.
func Shared(basePath string) *MarketDataCache {
	sharedOnce.Do(func() {
		sharedCache = NewMarketDataCache(basePath)
	})
	return sharedCache
}

// Get returns cached bars covering [startDate, endDate]. It reports a
// miss when the cache is stale or the cached range is too narrow.
func (c *MarketDataCache) Get(symbol, startDate, endDate string) ([]*models.MarketData, bool) {
	key := strings.ToUpper(symbol)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && time.Since(entry.fetchedAt) < memoryTTL {
		if bars, covered := sliceRange(entry.bars, startDate, endDate); covered {
			return bars, true
		}
	}

	path, err := c.csv.FindLatestCSV(key)
	if err != nil {
		return nil, false
	}
	bars, modTime, err := c.csv.ReadMarketDataFromCSV(path)
	if err != nil {
		slog.Warn("failed to read cached bars", "symbol", key, "error", err)
		return nil, false
	}
	if time.Since(modTime) > fileTTL {
		return nil, false
	}

	ranged, covered := sliceRange(bars, startDate, endDate)
	if !covered {
		return nil, false
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{bars: bars, fetchedAt: modTime}
	c.mu.Unlock()

	return ranged, true
}

// Set stores bars in memory and persists them to CSV.
func (c *MarketDataCache) Set(symbol string, bars []*models.MarketData) {
	if len(bars) == 0 {
		return
	}
	key := strings.ToUpper(symbol)

	c.mu.Lock()
	c.entries[key] = cacheEntry{bars: bars, fetchedAt: time.Now()}
	c.mu.Unlock()

	if err := c.csv.WriteMarketDataToCSV(key, bars); err != nil {
		slog.Warn("failed to persist bars", "symbol", key, "error", err)
	}
}

// Clear drops the in-memory entries. Files on disk are untouched.
func (c *MarketDataCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// CleanExpiredFiles deletes CSV files older than the file TTL.
func (c *MarketDataCache) CleanExpiredFiles() error {
	return c.csv.CleanOldCSVFiles(fileTTL)
}

// Stats reports the number of symbols held in memory.
func (c *MarketDataCache) Stats() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// sliceRange returns the bars within [startDate, endDate] and whether
// the cached set actually spans the requested start. Dates compare
// lexically in YYYY-MM-DD form.
func sliceRange(bars []*models.MarketData, startDate, endDate string) ([]*models.MarketData, bool) {
	if len(bars) == 0 {
		return nil, false
	}
	if bars[0].Date > startDate {
		// Trading gaps mean the first bar rarely lands exactly on the
		// requested start. Allow a week of slack before declaring the
		// cached range too narrow.
		start, err1 := time.Parse("2006-01-02", startDate)
		first, err2 := time.Parse("2006-01-02", bars[0].Date)
		if err1 != nil || err2 != nil || first.Sub(start) > 7*24*time.Hour {
			return nil, false
		}
	}
	if bars[len(bars)-1].Date < endDate {
		end, err1 := time.Parse("2006-01-02", endDate)
		last, err2 := time.Parse("2006-01-02", bars[len(bars)-1].Date)
		if err1 != nil || err2 != nil || end.Sub(last) > 4*24*time.Hour {
			return nil, false
		}
	}

	out := make([]*models.MarketData, 0, len(bars))
	for _, bar := range bars {
		if bar.Date >= startDate && bar.Date <= endDate {
			out = append(out, bar)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
