package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"honnylove_storefront/internal/auth"

	"github.com/redis/go-redis/v9"
)

// SessionTTL : durée de vie d'une session visiteur persistée, prolongée à chaque écriture.
const SessionTTL = 30 * 24 * time.Hour

// SessionStore persiste les sessions visiteur dans Redis sous "session:<visitorID>".
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(visitorID string) string {
	return "session:" + visitorID
}

// Load renvoie (nil, nil) si le visiteur n'a pas de session enregistrée.
func (s *SessionStore) Load(ctx context.Context, visitorID string) (*auth.Snapshot, error) {
	data, err := s.rdb.Get(ctx, sessionKey(visitorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap auth.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *SessionStore) Save(ctx context.Context, visitorID string, snap auth.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(visitorID), data, s.ttl).Err()
}

func (s *SessionStore) Delete(ctx context.Context, visitorID string) error {
	return s.rdb.Del(ctx, sessionKey(visitorID)).Err()
}
