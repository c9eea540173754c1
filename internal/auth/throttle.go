package auth

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// Throttle limits failed admin attempts per client key. Only failures consume
// tokens, so a client that knows the secret is never slowed down.
type Throttle struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters *lru.Cache
}

// NewThrottle allows perMinute failures per client with an equal burst.
// At most maxClients limiters are retained; the least recently seen client is
// forgotten first.
func NewThrottle(perMinute int, maxClients int) (*Throttle, error) {
	if perMinute <= 0 {
		return nil, fmt.Errorf("failed attempts per minute must be positive, got %d", perMinute)
	}

	cache, err := lru.New(maxClients)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}

	return &Throttle{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		limiters: cache,
	}, nil
}

// Blocked reports whether key has exhausted its failure budget at now.
func (t *Throttle) Blocked(key string, now time.Time) bool {
	l := t.limiter(key)
	return l.TokensAt(now) < 1
}

// Failure records a failed attempt for key at now.
func (t *Throttle) Failure(key string, now time.Time) {
	t.limiter(key).AllowN(now, 1)
}

func (t *Throttle) limiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.limiters.Get(key); ok {
		return v.(*rate.Limiter)
	}

	l := rate.NewLimiter(t.limit, t.burst)
	t.limiters.Add(key, l)
	return l
}
