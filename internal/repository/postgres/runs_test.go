package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/crm-retention/internal/domain"
)

func TestRunRepo_SaveRun_AssignsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec("INSERT INTO crm_retention_runs").
		WithArgs(sqlmock.AnyArg(), domain.GDPRFullyDelete, "acme", 10, 7, 2, 1, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	run := &domain.RetentionRun{
		Action:     domain.GDPRFullyDelete,
		Filter:     "acme",
		Evaluated:  10,
		Kept:       7,
		Candidates: 2,
		Protected:  1,
		StartedAt:  now,
		FinishedAt: now,
	}
	require.NoError(t, NewRunRepo(db).SaveRun(context.Background(), run))
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRepo_ListRuns_DefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM crm_retention_runs").
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "action", "filter", "evaluated", "kept",
			"candidates", "protected", "started_at", "finished_at"}).
			AddRow("r1", "anonymize", "", 5, 3, 2, 0, now, now))

	runs, err := NewRunRepo(db).ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.GDPRAnonymize, runs[0].Action)
	assert.Equal(t, 2, runs[0].Candidates)
	assert.NoError(t, mock.ExpectationsWereMet())
}
