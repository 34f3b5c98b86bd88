package duck_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/tableagent/tableagent/duck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, opts ...duck.Option) (*duck.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return duck.New(db, opts...), mock
}

func TestStore_Query(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT AVG(salary) FROM ds_salaries").
		WillReturnRows(sqlmock.NewRows([]string{"avg(salary)"}).AddRow(137570.39))

	res, err := store.Query(context.Background(), "SELECT AVG(salary) FROM ds_salaries;")
	require.NoError(t, err)
	assert.Equal(t, []string{"avg(salary)"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 137570.39, res.Rows[0][0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Query_RowLimitWrap(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t, duck.WithRowLimit(50))
	mock.ExpectQuery("SELECT * FROM (SELECT job_title FROM ds_salaries) AS q LIMIT 50").
		WillReturnRows(sqlmock.NewRows([]string{"job_title"}).
			AddRow([]byte("Data Scientist")).
			AddRow([]byte("ML Engineer")))

	res, err := store.Query(context.Background(), "SELECT job_title FROM ds_salaries;;")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	// []byte values are normalized to strings.
	assert.Equal(t, "Data Scientist", res.Rows[0][0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Query_Empty(t *testing.T) {
	t.Parallel()

	store, _ := newMockStore(t)
	_, err := store.Query(context.Background(), " ;; ")
	assert.Error(t, err)
}

func TestStore_Query_ExecutionError(t *testing.T) {
	t.Parallel()

	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT nope FROM ds_salaries").
		WillReturnError(errors.New(`Binder Error: Referenced column "nope" not found`))

	_, err := store.Query(context.Background(), "SELECT nope FROM ds_salaries")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Binder Error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Tables(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := duck.New(db)

	mock.ExpectQuery("SELECT table_name").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("ds_salaries").
			AddRow("movies"))

	names, err := store.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ds_salaries", "movies"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Describe(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := duck.New(db)

	t.Run("known table", func(t *testing.T) {
		mock.ExpectQuery("SELECT column_name, data_type").
			WithArgs("ds_salaries").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}).
				AddRow("job_title", "VARCHAR").
				AddRow("salary", "BIGINT"))

		cols, err := store.Describe(context.Background(), "ds_salaries")
		require.NoError(t, err)
		require.Len(t, cols, 2)
		assert.Equal(t, "job_title", cols[0].Name)
		assert.Equal(t, "BIGINT", cols[1].Type)
	})

	t.Run("missing table", func(t *testing.T) {
		mock.ExpectQuery("SELECT column_name, data_type").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type"}))

		_, err := store.Describe(context.Background(), "missing")
		assert.ErrorContains(t, err, "not found")
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
