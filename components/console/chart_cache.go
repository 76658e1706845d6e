package console

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart HTML so repeated overview fetches skip
// re-rendering unchanged data.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache keeps the latest render per chart slot for a TTL. Keys built by
// ChartKey carry a data fingerprint after the slot; a render for a new
// fingerprint replaces the slot's previous entry, so the cache never holds
// more than one render per chart.
type ChartCache struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	slots map[string]chartRender
}

type chartRender struct {
	fingerprint string
	html        string
	renderedAt  time.Time
}

// NewChartCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{ttl: ttl, now: time.Now, slots: map[string]chartRender{}}
}

// ChartKey joins a chart slot and the fingerprint of the data it renders.
func ChartKey(slot string, data any) string {
	return slot + "#" + fingerprint(data)
}

// GetOrRender returns the cached HTML for key or renders it. Failed renders
// leave the slot untouched.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	slot, fp := splitChartKey(key)
	if html, ok := c.lookup(slot, fp); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.slots[slot] = chartRender{fingerprint: fp, html: html, renderedAt: c.now()}
	c.mu.Unlock()
	return html, nil
}

// Len returns the number of occupied slots, expired ones included.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}

func (c *ChartCache) lookup(slot, fp string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.slots[slot]
	if !ok || entry.fingerprint != fp {
		return "", false
	}
	if c.now().Sub(entry.renderedAt) > c.ttl {
		delete(c.slots, slot)
		return "", false
	}
	return entry.html, true
}

func splitChartKey(key string) (slot, fp string) {
	if idx := strings.LastIndexByte(key, '#'); idx >= 0 {
		return key[:idx], key[idx+1:]
	}
	return key, ""
}

func fingerprint(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
