package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"
)

const settingsKey = "settings:v1"

// Fetcher loads the public settings payload from the backend.
type Fetcher func(ctx context.Context) (json.RawMessage, error)

// Settings serves the public settings from Store, refetching after TTL. A
// failing store never fails the request; the backend is asked directly.
type Settings struct {
	store Store
	fetch Fetcher
	ttl   time.Duration
}

func NewSettings(store Store, fetch Fetcher, ttl time.Duration) *Settings {
	return &Settings{store: store, fetch: fetch, ttl: ttl}
}

func (s *Settings) Get(ctx context.Context) (json.RawMessage, error) {
	if s.store == nil {
		return s.fetch(ctx)
	}

	cached, err := s.store.Get(ctx, settingsKey)
	if err == nil {
		return json.RawMessage(cached), nil
	}
	if !errors.Is(err, ErrMiss) {
		log.Printf("⚠️ settings cache read: %v", err)
	}

	data, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, settingsKey, string(data), s.ttl); err != nil {
		log.Printf("⚠️ settings cache write: %v", err)
	}
	return data, nil
}
