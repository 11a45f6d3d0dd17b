package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

// RedisStore keeps sessions in a Redis server as JSON strings.
type RedisStore struct {
	client redis.UniversalClient
	opts   storeOptions
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisStore(client redis.UniversalClient, opts ...StoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: client, opts: o}, nil
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	key, err := sessionKey(r.opts.keyPrefix, sessionID)
	if err != nil {
		return nil, err
	}
	payload, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrStoreUnavailable, key, err)
	}
	return decodeSession(payload)
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	payload, err := prepareSave(s)
	if err != nil {
		return err
	}
	key, err := sessionKey(r.opts.keyPrefix, s.ID)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, payload, r.opts.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := sessionKey(r.opts.keyPrefix, sessionID)
	if err != nil {
		return err
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}
