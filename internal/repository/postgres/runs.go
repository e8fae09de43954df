package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/crm-retention/internal/domain"
)

// RunRepo implements retention.RunStore against PostgreSQL.
type RunRepo struct{ db *sql.DB }

// NewRunRepo creates a Postgres-backed run store.
func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{db: db} }

func (r *RunRepo) SaveRun(ctx context.Context, run *domain.RetentionRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO crm_retention_runs
			(id, action, filter, evaluated, kept, candidates, protected, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, run.ID, run.Action, run.Filter, run.Evaluated, run.Kept, run.Candidates, run.Protected,
		run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("save retention run: %w", err)
	}
	return nil
}

func (r *RunRepo) ListRuns(ctx context.Context, limit int) ([]domain.RetentionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, filter, evaluated, kept, candidates, protected, started_at, finished_at
		FROM crm_retention_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list retention runs: %w", err)
	}
	defer rows.Close()

	out := []domain.RetentionRun{}
	for rows.Next() {
		var run domain.RetentionRun
		if err := rows.Scan(&run.ID, &run.Action, &run.Filter, &run.Evaluated, &run.Kept,
			&run.Candidates, &run.Protected, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan retention run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
