package infrastructure

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var existsQuery = regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)")

func TestSyncRunsTableAppliesOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(existsQuery).
		WithArgs(BreezSyncRunsMigration).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS breez.sync_runs").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO migrations.migrations")).
		WithArgs(BreezSyncRunsMigration).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, (&SyncRunsTable{}).UpMigration(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreezSchemaSkipsCompletedMigration(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(existsQuery).
		WithArgs(BreezSchemaMigration).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, (&BreezSchema{}).UpMigration(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationFailureIsNotRecorded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(existsQuery).
		WithArgs(BreezSchemaMigration).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS breez").
		WillReturnError(errors.New("permission denied"))

	err = (&BreezSchema{}).UpMigration(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), BreezSchemaMigration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrationsSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE SCHEMA IF NOT EXISTS migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations.migrations").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, (&MigrationsSchema{}).UpMigration(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
