package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const monitoredWalletsKey = "tigertrust:monitored_wallets"

// RedisRegistry persists the monitored-wallet set in a Redis SET so the
// watch list survives restarts. Callers fall back to InMemoryRegistry when
// the connection cannot be established.
type RedisRegistry struct {
	client *redis.Client
}

var _ WalletRegistry = (*RedisRegistry)(nil)

func NewRedisRegistry(addr, password string) (*RedisRegistry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisRegistry{client: client}, nil
}

func (r *RedisRegistry) Add(ctx context.Context, wallet string) error {
	return r.client.SAdd(ctx, monitoredWalletsKey, wallet).Err()
}

func (r *RedisRegistry) Remove(ctx context.Context, wallet string) error {
	return r.client.SRem(ctx, monitoredWalletsKey, wallet).Err()
}

func (r *RedisRegistry) Contains(ctx context.Context, wallet string) (bool, error) {
	return r.client.SIsMember(ctx, monitoredWalletsKey, wallet).Result()
}

func (r *RedisRegistry) List(ctx context.Context) ([]string, error) {
	wallets, err := r.client.SMembers(ctx, monitoredWalletsKey).Result()
	if err != nil {
		return nil, err
	}
	return wallets, nil
}

func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
