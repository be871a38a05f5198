/*
Package cache provides a short-lived response cache for compute endpoints.

PURPOSE:
  The same loan is often computed many times in a row (a form re-submitted,
  a page refreshed). Responses are cached for a short TTL keyed by a hash
  of the normalized request. Entries expire on their own; nothing here is
  a system of record.

IMPLEMENTATIONS:
  Memory: map with per-entry expiry; expired keys are dropped on Get
          and swept on Set as the map grows or once a minute
  Redis:  github.com/redis/go-redis/v9, TTL handled by Redis

KEYS:
  Key("calculate", "1000000", "12", "12") -> "loan:<xxhash hex>"

SEE ALSO:
  - api/handlers.go: cachedJSON wraps compute endpoints
*/
package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache stores opaque byte values for a limited time.
type Cache interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const keyPrefix = "loan:"

// Key hashes parts into a fixed-length cache key.
func Key(parts ...string) string {
	h := xxhash.Sum64String(strings.Join(parts, "\x1f"))
	return keyPrefix + strconv.FormatUint(h, 16)
}
