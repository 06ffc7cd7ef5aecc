package settings

import (
	"context"
	"errors"
	"time"
)

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, cache Cache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

// Get returns the stored settings, or the defaults when none were saved yet.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}

	current, err := s.repo.Get(ctx)
	if errors.Is(err, ErrSettingsNotFound) {
		defaults := Defaults()
		current = &defaults
	} else if err != nil {
		return nil, err
	}

	s.cache.Set(current, s.cacheTTL)
	return current, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Settings, error) {
	current, err := s.repo.Get(ctx)
	if errors.Is(err, ErrSettingsNotFound) {
		defaults := Defaults()
		current = &defaults
	} else if err != nil {
		return nil, err
	}

	if input.AllowRegistration != nil {
		current.AllowRegistration = *input.AllowRegistration
	}
	if input.EnableBalanceHistory != nil {
		current.EnableBalanceHistory = *input.EnableBalanceHistory
	}

	if err := s.repo.Save(ctx, current); err != nil {
		return nil, err
	}

	s.cache.Clear()
	return current, nil
}
