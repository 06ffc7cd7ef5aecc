package settings

import (
	"context"
	"testing"
	"time"
)

type fakeSettingsRepo struct {
	stored *Settings
	reads  int
}

func (r *fakeSettingsRepo) Get(ctx context.Context) (*Settings, error) {
	r.reads++
	if r.stored == nil {
		return nil, ErrSettingsNotFound
	}
	copied := *r.stored
	return &copied, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, settings *Settings) error {
	copied := *settings
	r.stored = &copied
	return nil
}

type mapCache struct {
	value *Settings
}

func (c *mapCache) Get() (*Settings, bool) {
	if c.value == nil {
		return nil, false
	}
	copied := *c.value
	return &copied, true
}

func (c *mapCache) Set(settings *Settings, ttl time.Duration) {
	copied := *settings
	c.value = &copied
}

func (c *mapCache) Clear() {
	c.value = nil
}

func TestGetFallsBackToDefaults(t *testing.T) {
	service := NewService(&fakeSettingsRepo{}, nil, time.Minute)

	current, err := service.Get(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !current.AllowRegistration || !current.EnableBalanceHistory {
		t.Fatalf("expected defaults, got %+v", current)
	}
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := &fakeSettingsRepo{}
	service := NewService(repo, &mapCache{}, time.Minute)

	_, _ = service.Get(context.Background())
	_, _ = service.Get(context.Background())
	if repo.reads != 1 {
		t.Fatalf("expected cached read, got %d reads", repo.reads)
	}

	disabled := false
	updated, err := service.Update(context.Background(), UpdateInput{AllowRegistration: &disabled})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.AllowRegistration || !updated.EnableBalanceHistory {
		t.Fatalf("expected partial update, got %+v", updated)
	}

	current, _ := service.Get(context.Background())
	if current.AllowRegistration {
		t.Fatalf("expected fresh value after update")
	}
}
