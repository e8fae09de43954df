// Package distlock serializes work that must not run twice at once across
// server instances, such as a retention pass over all contacts.
package distlock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/crm-retention/internal/pkg/logger"
)

var (
	// ErrHeld is returned by Do when another holder owns the lock.
	ErrHeld = errors.New("lock held by another process")

	// ErrLost means an expiring lock ran out before it was refreshed.
	ErrLost = errors.New("lock expired or taken over")
)

// DistLock is the interface for distributed locking. A lock value is used
// by one goroutine; create one per attempt through a Factory.
type DistLock interface {
	// Acquire tries to acquire the lock. Returns true if successful.
	Acquire(ctx context.Context) (bool, error)
	// Release releases the lock if we still own it.
	Release(ctx context.Context) error
}

// Refresher is implemented by locks that expire on their own.
type Refresher interface {
	Refresh(ctx context.Context) error
	TTL() time.Duration
}

// Factory creates a fresh lock for a key.
type Factory func(key string) DistLock

// NewFactory returns a Factory using Redis when a client is given and
// PostgreSQL advisory locks otherwise.
func NewFactory(redisClient *redis.Client, db *sql.DB, ttl time.Duration) Factory {
	return func(key string) DistLock {
		if redisClient != nil {
			return NewRedisLock(redisClient, key, ttl)
		}
		return NewPGAdvisoryLock(db, key)
	}
}

// Do runs fn while holding lock. It does not wait: if the lock is taken it
// returns ErrHeld without calling fn. Expiring locks are refreshed at a third
// of their TTL until fn returns.
func Do(ctx context.Context, lock DistLock, fn func(ctx context.Context) error) error {
	ok, err := lock.Acquire(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrHeld
	}
	defer func() {
		// release even if ctx was cancelled while fn ran
		_ = lock.Release(context.WithoutCancel(ctx))
	}()

	if r, ok := lock.(Refresher); ok && r.TTL() > 0 {
		stop := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			keepAlive(ctx, r, stop)
		}()
		defer func() {
			close(stop)
			<-done
		}()
	}
	return fn(ctx)
}

func keepAlive(ctx context.Context, r Refresher, stop <-chan struct{}) {
	ticker := time.NewTicker(r.TTL() / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				logger.Warn("lock refresh failed", "error", err)
				if errors.Is(err, ErrLost) {
					return
				}
			}
		}
	}
}

// PGAdvisoryLock implements DistLock with a session-scoped PostgreSQL
// advisory lock. The lock belongs to one connection, so it pins a *sql.Conn
// from Acquire until Release.
type PGAdvisoryLock struct {
	db     *sql.DB
	conn   *sql.Conn
	lockID int64
}

// NewPGAdvisoryLock creates a PG advisory lock with a deterministic lock ID
// derived from the given key string.
func NewPGAdvisoryLock(db *sql.DB, key string) *PGAdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))
	return &PGAdvisoryLock{
		db:     db,
		lockID: int64(h.Sum64()),
	}
}

// Acquire tries to acquire the advisory lock without blocking.
func (l *PGAdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("advisory lock %d: %w", l.lockID, err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired); err != nil {
		conn.Close()
		return false, fmt.Errorf("advisory lock %d: %w", l.lockID, err)
	}
	if !acquired {
		conn.Close()
		return false, nil
	}
	l.conn = conn
	return true, nil
}

// Release unlocks on the pinned connection and returns it to the pool.
func (l *PGAdvisoryLock) Release(ctx context.Context) error {
	if l.conn == nil {
		return nil
	}
	defer func() {
		l.conn.Close()
		l.conn = nil
	}()
	if _, err := l.conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID); err != nil {
		return fmt.Errorf("advisory unlock %d: %w", l.lockID, err)
	}
	return nil
}
