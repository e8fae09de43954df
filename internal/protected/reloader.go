package protected

import (
	"context"

	"github.com/ignite/crm-retention/internal/pkg/logger"
	"github.com/ignite/crm-retention/internal/retention"
)

// Reloader copies the list from its Source into a Store.
type Reloader struct {
	source Source
	store  Store
}

func NewReloader(source Source, store Store) *Reloader {
	return &Reloader{source: source, store: store}
}

// Reload reads the source and replaces the stored set. It returns the number
// of protected addresses now in effect.
func (r *Reloader) Reload(ctx context.Context) (int, error) {
	set, err := r.source.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.store.Replace(ctx, set); err != nil {
		return 0, err
	}
	logger.Info("protected emails loaded", "source", r.source.Location(), "count", set.Len())
	return set.Len(), nil
}

// Set returns the protected set currently in effect.
func (r *Reloader) Set(ctx context.Context) (retention.ProtectedSet, error) {
	return r.store.Set(ctx)
}

// Count returns the number of protected addresses currently in effect.
func (r *Reloader) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx)
}
