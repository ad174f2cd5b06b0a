// Package redisstore guarda las revocaciones de JWT en Redis con TTL igual a la vida restante del token.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/ecosystem-api/internal/domain/repository"
	"github.com/jhoicas/ecosystem-api/pkg/config"
)

var _ repository.TokenRevocationStore = (*RevocationStore)(nil)

const keyPrefix = "auth:revoked:"

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

// RevocationStore implementa repository.TokenRevocationStore.
type RevocationStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevocationStore construye el store sobre un cliente ya conectado.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke guarda el jti hasta expiresAt. Un token ya expirado no necesita revocarse.
func (s *RevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+jti, expiresAt.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("redis: revoke: %w", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis: is revoked: %w", err)
	}
	return n > 0, nil
}

// PurgeExpired no hace nada: Redis expira las claves por TTL.
func (s *RevocationStore) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
