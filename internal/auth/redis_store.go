package auth

import (
	"context"
	"strconv"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// RedisStore keeps one hash per token under auth:token:<token> with the
// session TTL as the key expiry.
type RedisStore struct{ rdb *rd.Client }

func NewRedisStore(rdb *rd.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func tokenKey(token string) string { return "auth:token:" + token }

func (s *RedisStore) Save(ctx context.Context, token string, p Principal, ttl time.Duration) error {
	key := tokenKey(token)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "user_id", p.UserID, "role", string(p.Role))
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (Principal, bool, error) {
	m, err := s.rdb.HGetAll(ctx, tokenKey(token)).Result()
	if err != nil {
		return Principal{}, false, err
	}
	if len(m) == 0 {
		return Principal{}, false, nil
	}
	userID, err := strconv.ParseInt(m["user_id"], 10, 64)
	if err != nil {
		return Principal{}, false, nil
	}
	return Principal{UserID: userID, Role: Role(m["role"])}, true, nil
}
