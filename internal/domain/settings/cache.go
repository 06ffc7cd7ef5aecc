package settings

import "time"

type Cache interface {
	Get() (*Settings, bool)
	Set(settings *Settings, ttl time.Duration)
	Clear()
}

type noopCache struct{}

func (noopCache) Get() (*Settings, bool) {
	return nil, false
}

func (noopCache) Set(*Settings, time.Duration) {}

func (noopCache) Clear() {}
