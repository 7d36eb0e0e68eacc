package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/stockctl/internal/application/ports"
	"github.com/jhoicas/stockctl/pkg/config"
)

// DefaultRedisKey clave usada si la configuración no trae una.
const DefaultRedisKey = "stockctl:session"

type redisBackend struct {
	rdb *redis.Client
	key string
}

// NewRedis sesión guardada como JSON en una clave de Redis (sin TTL: la
// expiración la decide el backend de la API, no el almacenamiento).
func NewRedis(rdb *redis.Client, key string) *Store {
	if key == "" {
		key = DefaultRedisKey
	}
	return newStore(&redisBackend{rdb: rdb, key: key})
}

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar a Redis %s: %w", cfg.Addr(), err)
	}
	return rdb, nil
}

func (r *redisBackend) load(ctx context.Context) (ports.Session, error) {
	var sess ports.Session
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return sess, nil
	}
	if err != nil {
		return sess, err
	}
	if err := json.Unmarshal(data, &sess); err != nil {
		return ports.Session{}, fmt.Errorf("sesión corrupta en %s: %w", r.key, err)
	}
	return sess, nil
}

func (r *redisBackend) save(ctx context.Context, s ports.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key, data, 0).Err()
}

func (r *redisBackend) clear(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}
