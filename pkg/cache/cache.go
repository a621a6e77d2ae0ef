package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Store persists named JSON snapshots with their save time, so callers
// can decide whether a cached payload is still fresh enough to reuse.
type Store interface {
	SaveJSON(ctx context.Context, key string, v any) error
	LoadJSON(ctx context.Context, key string, dest any) (bool, error)
	Fresh(ctx context.Context, key string, maxAge time.Duration) bool
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// envelope wraps a stored payload with its save time.
type envelope struct {
	SavedAt time.Time       `json:"saved_at"`
	Payload json.RawMessage `json:"payload"`
}

func wrap(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{SavedAt: time.Now().UTC(), Payload: payload})
}

func unwrap(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, err
	}
	return env, nil
}
