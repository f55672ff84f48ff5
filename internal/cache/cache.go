// Package cache implements the two outer tiers of the repository's 3-tier
// store: an in-process layer in front of a shared, process-external cache.
// It mirrors the teacher's internal/cache.go GetTiered/SetTiered pair, with
// the shared backend narrowed to an interface so the durable store is the
// only thing a failure ever has to fall back to.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Shared is the narrow interface the repository's Redis-backed shared tier
// satisfies. A nil Shared degrades the Tiered cache to the in-process layer
// only, matching the "tolerate absence or failure of the cache" contract.
type Shared interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// localExpiration is how long an entry survives in the in-process tier
// before it must be re-validated against the shared tier, mirroring the
// teacher's 10s memoryDataExpiration.
const localExpiration = 10 * time.Second

// Tiered is a read-through/write-through cache: local memory, then shared,
// then whatever calls it (the repository, which falls back to the durable
// backend). Every method tolerates a nil or failing Shared by behaving as
// if the shared tier had simply missed.
type Tiered struct {
	local  *gocache.Cache
	shared Shared
}

// NewTiered builds a Tiered cache in front of the given Shared backend.
// shared may be nil to run in-process-only (e.g. in tests, or when the
// shared cache is unreachable at startup — per CacheUnavailable policy this
// is never fatal).
func NewTiered(shared Shared) *Tiered {
	return &Tiered{
		local:  gocache.New(localExpiration, 2*localExpiration),
		shared: shared,
	}
}

// Get attempts the local tier first, then the shared tier, repopulating the
// local tier on a shared hit. A miss at both tiers, or any shared-tier
// error, reports found=false — CacheUnavailable is swallowed here per the
// error-handling design; it is never surfaced to the caller.
func (t *Tiered) Get(ctx context.Context, key string) (value []byte, found bool) {
	if v, ok := t.local.Get(key); ok {
		if b, ok := v.([]byte); ok {
			return b, true
		}
	}

	if t.shared == nil {
		return nil, false
	}

	value, found, err := t.shared.Get(ctx, key)
	if err != nil {
		zap.S().Debugw("shared cache get failed, degrading to durable backend", "key", key, "error", err)
		return nil, false
	}
	if found {
		t.local.SetDefault(key, value)
	}
	return value, found
}

// Set writes through both tiers. A shared-tier failure is logged and
// swallowed; the local write always succeeds since it is in-process.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	t.local.SetDefault(key, value)
	if t.shared == nil {
		return
	}
	if err := t.shared.Set(ctx, key, value, ttl); err != nil {
		zap.S().Debugw("shared cache set failed", "key", key, "error", err)
	}
}

// Available reports whether the shared tier is reachable. It never blocks
// correctness — callers use it only for diagnostics/health checks.
func (t *Tiered) Available(ctx context.Context) bool {
	if t.shared == nil {
		return false
	}
	if err := t.shared.Ping(ctx); err != nil {
		zap.S().Warnw("shared cache unavailable", "error", err)
		return false
	}
	return true
}
