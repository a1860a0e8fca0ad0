package partitions

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsurePartition_CreatesOnce(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, nopLogger())
	ctx := context.Background()

	p, err := r.EnsurePartition(ctx, 2023)
	require.NoError(t, err)
	assert.Equal(t, Partition{Year: 2023, Table: "outings_2023"}, p)

	ok, err := r.HasPartition(ctx, 2023)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.EnsurePartition(ctx, 2023)
	require.NoError(t, err)
}

func TestEnsurePartition_AlreadyExistsIsBenign(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Two registries over one database model two processes racing.
	_, err := NewRegistry(db, nopLogger()).EnsurePartition(ctx, 2022)
	require.NoError(t, err)

	p, err := NewRegistry(db, nopLogger()).EnsurePartition(ctx, 2022)
	require.NoError(t, err)
	assert.Equal(t, "outings_2022", p.Table)
}

func TestEnsurePartition_ConcurrentCallers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := NewRegistry(db, nopLogger()).EnsurePartition(ctx, 2024)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestEnsurePartition_InvalidYear(t *testing.T) {
	r := NewRegistry(newTestDB(t), nopLogger())
	_, err := r.EnsurePartition(context.Background(), 12)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestEnsurePartition_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE outings_2023`).WillReturnError(errors.New("disk full"))

	r := NewRegistry(db, nopLogger())
	_, err = r.EnsurePartition(context.Background(), 2023)

	var se *common.StorageError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsurePartition_SwallowsAlreadyExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE outings_2023`).WillReturnError(errors.New("table outings_2023 already exists"))
	mock.ExpectExec(`CREATE INDEX IF NOT EXISTS outings_2023_day_time`).WillReturnResult(sqlmock.NewResult(0, 0))

	r := NewRegistry(db, nopLogger())
	_, err = r.EnsurePartition(context.Background(), 2023)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPartitionYears(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	r := NewRegistry(db, nopLogger())

	years, err := r.ListPartitionYears(ctx)
	require.NoError(t, err)
	assert.Empty(t, years)

	for _, y := range []int{2023, 2019, 2021} {
		_, err := r.EnsurePartition(ctx, y)
		require.NoError(t, err)
	}
	_, err = db.Exec(`CREATE TABLE outings_backup (id TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE members (id INTEGER)`)
	require.NoError(t, err)

	years, err = NewRegistry(db, nopLogger()).ListPartitionYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2019, 2021, 2023}, years)
}

func TestHasPartition_Missing(t *testing.T) {
	r := NewRegistry(newTestDB(t), nopLogger())

	ok, err := r.HasPartition(context.Background(), 1999)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.HasPartition(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}
