package protected

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/crm-retention/internal/retention"
)

// Store holds the protected set currently in effect.
type Store interface {
	Set(ctx context.Context) (retention.ProtectedSet, error)
	Replace(ctx context.Context, set retention.ProtectedSet) error
	Count(ctx context.Context) (int, error)
}

// MemoryStore keeps the set in process. It is safe for concurrent use.
type MemoryStore struct {
	mu  sync.RWMutex
	set retention.ProtectedSet
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Set(_ context.Context) (retention.ProtectedSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set, nil
}

func (m *MemoryStore) Replace(_ context.Context, set retention.ProtectedSet) error {
	m.mu.Lock()
	m.set = set
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.Len(), nil
}

// replaceBatch bounds the size of a single SADD.
const replaceBatch = 1000

// RedisStore keeps the set in a Redis SET shared by all instances.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a store under "<prefix>:gdpr:protected".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, key: prefix + ":gdpr:protected"}
}

func (r *RedisStore) Set(ctx context.Context) (retention.ProtectedSet, error) {
	emails, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return retention.ProtectedSet{}, fmt.Errorf("read protected set: %w", err)
	}
	return retention.NewProtectedSet(emails...), nil
}

// Replace swaps the whole set atomically: members are written to a staging
// key which is then renamed over the live one.
func (r *RedisStore) Replace(ctx context.Context, set retention.ProtectedSet) error {
	emails := set.Emails()
	if len(emails) == 0 {
		if err := r.client.Del(ctx, r.key).Err(); err != nil {
			return fmt.Errorf("clear protected set: %w", err)
		}
		return nil
	}

	staging := r.key + ":staging"
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, staging)
		for start := 0; start < len(emails); start += replaceBatch {
			end := start + replaceBatch
			if end > len(emails) {
				end = len(emails)
			}
			members := make([]interface{}, 0, end-start)
			for _, e := range emails[start:end] {
				members = append(members, e)
			}
			pipe.SAdd(ctx, staging, members...)
		}
		pipe.Rename(ctx, staging, r.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace protected set: %w", err)
	}
	return nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := r.client.SCard(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("count protected set: %w", err)
	}
	return int(n), nil
}
