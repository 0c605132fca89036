package logparse

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverLogFile(t *testing.T) {
	ctx := context.Background()

	t.Run("relative logfile joined with data_directory", func(t *testing.T) {
		mock, err := pgxmock.NewConn()
		require.NoError(t, err)
		mock.ExpectQuery("select current_setting").WillReturnRows(
			pgxmock.NewRows([]string{"dd", "lf"}).AddRow("/var/lib/postgresql/17/main", "log/postgresql-1.log"))

		path, err := DiscoverLogFile(ctx, mock)
		assert.NoError(t, err)
		assert.Equal(t, "/var/lib/postgresql/17/main/log/postgresql-1.log", path)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absolute logfile used as is", func(t *testing.T) {
		mock, err := pgxmock.NewConn()
		require.NoError(t, err)
		mock.ExpectQuery("select current_setting").WillReturnRows(
			pgxmock.NewRows([]string{"dd", "lf"}).AddRow("/var/lib/postgresql/17/main", "/var/log/postgresql/postgresql.log"))

		path, err := DiscoverLogFile(ctx, mock)
		assert.NoError(t, err)
		assert.Equal(t, "/var/log/postgresql/postgresql.log", path)
	})

	t.Run("logging_collector disabled", func(t *testing.T) {
		mock, err := pgxmock.NewConn()
		require.NoError(t, err)
		mock.ExpectQuery("select current_setting").WillReturnRows(
			pgxmock.NewRows([]string{"dd", "lf"}).AddRow("/var/lib/postgresql/17/main", ""))

		_, err = DiscoverLogFile(ctx, mock)
		assert.Error(t, err)
	})

	t.Run("query failure", func(t *testing.T) {
		mock, err := pgxmock.NewConn()
		require.NoError(t, err)
		mock.ExpectQuery("select current_setting").WillReturnError(errors.New("no pg_read_server_files"))

		_, err = DiscoverLogFile(ctx, mock)
		assert.Error(t, err)
	})
}
