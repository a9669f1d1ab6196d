package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Read decodes the JSON value stored under key into a T.
// A missing, null or malformed value yields def; storage is never allowed to
// fail a load.
func Read[T any](kv KV, key string, def T) T {
	raw, err := kv.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("failed to read stored value", "key", key, "error", err)
		}
		return def
	}

	if raw == "null" {
		return def
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		slog.Warn("discarding malformed stored value", "key", key, "error", err)
		return def
	}
	return v
}

// Write serializes the full value and stores it under key.
func Write[T any](kv KV, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return kv.Set(key, string(data))
}
