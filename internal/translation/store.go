package translation

import (
	"context"
	"time"
)

//go:generate mockery --name Store --filename store.go
//go:generate mockery --name Provider --filename provider.go

// Store is a networked key-value store with per-entry expiration.
type Store interface {
	// Connect establishes connection to the store.
	Connect(ctx context.Context) error
	// Close releases connection.
	Close() error
	Get(ctx context.Context, key string) (value string, found bool, err error)
	SetWithExpiry(ctx context.Context, key string, ttl time.Duration, value string) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	// KeysMatching returns keys matching glob pattern, oldest written first.
	KeysMatching(ctx context.Context, pattern string) ([]string, error)
	// GetMultiple returns values in keys order, nil for missing keys.
	GetMultiple(ctx context.Context, keys []string) ([]*string, error)
	// MultiSetWithExpiry stores all entries in one round trip.
	MultiSetWithExpiry(ctx context.Context, entries map[string]string, ttl time.Duration) error
}

// Provider is an upstream machine translation service.
type Provider interface {
	// Translate translates texts from source to target language.
	// Returned slice has texts order.
	Translate(ctx context.Context, texts []string, from, to string) ([]string, error)
}
