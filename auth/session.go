package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session token.
const CookieName = "admin_session"

// SessionTTL is how long a freshly minted session stays valid.
const SessionTTL = 24 * time.Hour

type (
	// Registry is the process-wide token to session mapping. It is safe
	// for concurrent use from multiple request goroutines; operations
	// on the same token are linearizable through the underlying cache
	// shard lock.
	Registry struct {
		cache *bigcache.BigCache
		ttl   time.Duration
	}

	session struct {
		Username  string `json:"username"`
		ExpiresAt int64  `json:"expiresAt"`
	}
)

// NewRegistry builds an empty registry whose sessions expire after ttl.
// Expiry is enforced on the stored ExpiresAt; the cache life window is
// only a backstop that eventually reclaims memory of tokens nobody
// presents again.
func NewRegistry(ttl time.Duration) *Registry {
	life := ttl
	if life < time.Minute {
		life = time.Minute
	}
	cache, _ := bigcache.NewBigCache(bigcache.DefaultConfig(life))
	return &Registry{cache: cache, ttl: ttl}
}

// Create mints a random token for username and registers it until the
// registry TTL elapses.
func (r *Registry) Create(username string) string {
	token := uuid.NewString()
	buf, _ := json.Marshal(session{
		Username:  username,
		ExpiresAt: time.Now().Add(r.ttl).UnixMilli(),
	})
	r.cache.Set(token, buf)
	return token
}

// Validate resolves a token back to its username. An expired entry is
// removed on observation and reported as absent, so later lookups of
// the same token are plain misses.
func (r *Registry) Validate(token string) (string, bool) {
	buf, err := r.cache.Get(token)
	if err != nil {
		return "", false
	}
	var s session
	if err := json.Unmarshal(buf, &s); err != nil {
		r.cache.Delete(token)
		return "", false
	}
	if time.Now().UnixMilli() > s.ExpiresAt {
		r.cache.Delete(token)
		return "", false
	}
	return s.Username, true
}

// Destroy removes a token. Removing an absent token is a no-op.
func (r *Registry) Destroy(token string) {
	r.cache.Delete(token)
}

// Authenticate extracts the session cookie from req and validates it.
// A missing cookie behaves exactly like an invalid token.
func (r *Registry) Authenticate(req *http.Request) (string, bool) {
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return r.Validate(cookie.Value)
}
