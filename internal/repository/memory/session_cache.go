package memory

import (
	"time"

	"ai-legalchat-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionCache keeps recently verified auth sessions in memory so the
// guard does not hit the database on every request. Entries expire after
// an hour; logout and deactivation must call Delete explicitly.
type SessionCache struct {
	cache *cache.Cache
}

func NewSessionCache() *SessionCache {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionCache{
		cache: c,
	}
}

func (r *SessionCache) Save(session *entity.AuthSession) {
	r.cache.Set(session.Id.String(), session, cache.DefaultExpiration)
}

func (r *SessionCache) Get(sessionID string) (*entity.AuthSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.AuthSession), true
	}
	return nil, false
}

func (r *SessionCache) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
