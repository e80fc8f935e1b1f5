package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/physiotrack/internal/telemetry/metrics"

	"github.com/coocood/freecache"
)

// SummaryCache keeps the reports of closed sessions readable for a while.
type SummaryCache struct {
	cache   *freecache.Cache
	ttl     time.Duration
	metrics *metrics.Manager
}

func NewSummaryCache(sizeMB int, ttl time.Duration, metricsManager *metrics.Manager) *SummaryCache {
	return &SummaryCache{
		// freecache enforces a 512KB minimum on its own
		cache:   freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:     ttl,
		metrics: metricsManager,
	}
}

func (c *SummaryCache) Set(report Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", report.SessionID, err)
	}
	if err := c.cache.Set([]byte(report.SessionID), raw, int(c.ttl.Seconds())); err != nil {
		return fmt.Errorf("cache report %s: %w", report.SessionID, err)
	}
	return nil
}

// Get returns ErrNotFound for unknown or expired sessions.
func (c *SummaryCache) Get(sessionID string) (Report, error) {
	raw, err := c.cache.Get([]byte(sessionID))
	if errors.Is(err, freecache.ErrNotFound) {
		c.lookup("miss")
		return Report{}, ErrNotFound
	}
	if err != nil {
		c.lookup("error")
		return Report{}, fmt.Errorf("get cached report %s: %w", sessionID, err)
	}

	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		c.lookup("error")
		return Report{}, fmt.Errorf("unmarshal cached report %s: %w", sessionID, err)
	}
	c.lookup("hit")
	return report, nil
}

func (c *SummaryCache) Len() int64 {
	return c.cache.EntryCount()
}

func (c *SummaryCache) lookup(result string) {
	if c.metrics != nil {
		c.metrics.CounterSummaryCacheLookups.WithLabelValues(result).Inc()
	}
}
