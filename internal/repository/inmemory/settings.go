package inmemory

import (
	"sync"
	"time"

	settingsdomain "finance-app-go/internal/domain/settings"
)

// SettingsCache keeps the single settings row for a short TTL; it is read on every registration
// and history request.
type SettingsCache struct {
	mu        sync.RWMutex
	value     *settingsdomain.Settings
	expiresAt time.Time
}

func NewSettingsCache() *SettingsCache {
	return &SettingsCache{}
}

func (c *SettingsCache) Get() (*settingsdomain.Settings, bool) {
	now := time.Now()

	c.mu.RLock()
	value := c.value
	expiresAt := c.expiresAt
	c.mu.RUnlock()
	if value == nil {
		return nil, false
	}

	if !expiresAt.After(now) {
		c.mu.Lock()
		if c.value != nil && !c.expiresAt.After(now) {
			c.value = nil
		}
		c.mu.Unlock()
		return nil, false
	}

	copied := *value
	return &copied, true
}

func (c *SettingsCache) Set(settings *settingsdomain.Settings, ttl time.Duration) {
	if settings == nil || ttl <= 0 {
		c.Clear()
		return
	}

	copied := *settings
	c.mu.Lock()
	c.value = &copied
	c.expiresAt = time.Now().Add(ttl)
	c.mu.Unlock()
}

func (c *SettingsCache) Clear() {
	c.mu.Lock()
	c.value = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}
