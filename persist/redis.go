package persist

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisPersist stores values in a redis instance, letting several hosts
// share one ACME account. Values are written without expiry; account
// keys have no natural TTL.
type RedisPersist struct {
	client *redis.Client
	prefix string
}

var _ Persist = (*RedisPersist)(nil)

// NewRedisPersist connects to addr (host:port). The optional prefix
// namespaces all keys, for shared instances.
func NewRedisPersist(addr, password string, db int, prefix string) (*RedisPersist, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisPersist{client: client, prefix: prefix}, nil
}

func (p *RedisPersist) redisKey(key Key) string {
	if p.prefix == "" {
		return key.String()
	}
	return p.prefix + ":" + key.String()
}

func (p *RedisPersist) Get(key Key) ([]byte, bool, error) {
	value, err := p.client.Get(context.Background(), p.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *RedisPersist) Put(key Key, value []byte) error {
	return p.client.Set(context.Background(), p.redisKey(key), value, 0).Err()
}
