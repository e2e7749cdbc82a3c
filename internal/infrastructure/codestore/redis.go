package codestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/myshop-api/internal/application/auth"
	"github.com/jhoicas/myshop-api/pkg/config"
)

var _ auth.CodeStore = (*RedisStore)(nil)

const keyPrefix = "auth:code:"

// RedisStore comparte los códigos entre réplicas. El TTL de la clave es la expiración más Retention.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// NewRedisClient abre y verifica la conexión a Redis.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Put(ctx context.Context, phone string, code auth.PendingCode) error {
	data, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("marshal code: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+phone, data, s.keyTTL(code.ExpiresAt)).Err(); err != nil {
		return fmt.Errorf("guardar código en Redis: %w", err)
	}
	return nil
}

// keyTTL alinea la clave con la purga de MemoryStore: expiración más Retention.
// Si ese instante ya pasó se usa Retention completo: con TTL cero la clave no vencería nunca.
func (s *RedisStore) keyTTL(expiresAt time.Time) time.Duration {
	ttl := expiresAt.Sub(s.now()) + Retention
	if ttl <= 0 {
		return Retention
	}
	return ttl
}

func (s *RedisStore) Get(ctx context.Context, phone string) (*auth.PendingCode, error) {
	val, err := s.client.Get(ctx, keyPrefix+phone).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer código de Redis: %w", err)
	}
	var code auth.PendingCode
	if err := json.Unmarshal(val, &code); err != nil {
		return nil, fmt.Errorf("unmarshal code: %w", err)
	}
	return &code, nil
}

func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, keyPrefix+phone).Err(); err != nil {
		return fmt.Errorf("borrar código de Redis: %w", err)
	}
	return nil
}
