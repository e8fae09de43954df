package worker

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deleteRunsQuery = regexp.QuoteMeta("DELETE FROM crm_retention_runs")

func newCleanupWorker(t *testing.T) (*DataCleanupWorker, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	dc := NewDataCleanupWorker(db, 30*24*time.Hour)
	dc.now = func() time.Time { return now }
	dc.pause = 0
	return dc, mock, now.Add(-30 * 24 * time.Hour)
}

func TestDataCleanup_DeletesInBatches(t *testing.T) {
	dc, mock, cutoff := newCleanupWorker(t)

	mock.ExpectExec(deleteRunsQuery).
		WithArgs(cutoff, cleanupBatchSize).
		WillReturnResult(sqlmock.NewResult(0, cleanupBatchSize))
	mock.ExpectExec(deleteRunsQuery).
		WithArgs(cutoff, cleanupBatchSize).
		WillReturnResult(sqlmock.NewResult(0, 12))

	assert.Equal(t, int64(cleanupBatchSize+12), dc.cleanup(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDataCleanup_NothingToDelete(t *testing.T) {
	dc, mock, cutoff := newCleanupWorker(t)

	mock.ExpectExec(deleteRunsQuery).
		WithArgs(cutoff, cleanupBatchSize).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Equal(t, int64(0), dc.cleanup(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDataCleanup_MissingTable(t *testing.T) {
	dc, mock, _ := newCleanupWorker(t)

	mock.ExpectExec(deleteRunsQuery).
		WillReturnError(errors.New(`pq: relation "crm_retention_runs" does not exist`))

	assert.Equal(t, int64(0), dc.cleanup(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewDataCleanupWorker_DefaultHistory(t *testing.T) {
	dc := NewDataCleanupWorker(nil, 0)
	assert.Equal(t, DefaultRunHistory, dc.keep)
	assert.Equal(t, DefaultCleanupInterval, dc.interval)
}

func TestIsTableNotExistsError(t *testing.T) {
	assert.False(t, isTableNotExistsError(nil))
	assert.False(t, isTableNotExistsError(errors.New("connection refused")))
	assert.True(t, isTableNotExistsError(errors.New(`pq: relation "x" does not exist`)))
}
