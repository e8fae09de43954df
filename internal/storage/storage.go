// Package storage archives retention plans and, on AWS, records run
// summaries in DynamoDB.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ignite/crm-retention/internal/config"
	"github.com/ignite/crm-retention/internal/service/retention"
)

// Archive keeps a copy of every computed plan.
type Archive interface {
	SavePlan(ctx context.Context, plan *retention.Plan) error
}

// New returns the archive for cfg, or nil when archiving is off.
func New(ctx context.Context, cfg config.StorageConfig) (Archive, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "local":
		return NewLocalStorage(cfg.LocalPath), nil
	case "aws":
		s, err := NewAWSStorage(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing AWS storage: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
}

// planKey is the archive path of a plan: YYYY/MM/DD/<run id>.json.
func planKey(plan *retention.Plan) string {
	return fmt.Sprintf("%s/%s.json", plan.Today.UTC().Format("2006/01/02"), plan.RunID)
}

// LocalStorage writes archived plans as JSON files under a directory.
type LocalStorage struct {
	dir string
}

// NewLocalStorage archives under dir.
func NewLocalStorage(dir string) *LocalStorage { return &LocalStorage{dir: dir} }

// SavePlan writes plan to <dir>/YYYY/MM/DD/<run id>.json.
func (s *LocalStorage) SavePlan(_ context.Context, plan *retention.Plan) error {
	path := filepath.Join(s.dir, filepath.FromSlash(planKey(plan)))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	// plans hold contact PII
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	return nil
}
