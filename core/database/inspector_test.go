package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT, description TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "text", colMap["description"])

	// PRAGMA table_info returns no rows for an unknown table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "BIGINT UNSIGNED", "NO", "PRI", nil, "auto_increment").
		AddRow("run_id", "VARCHAR(36)", "YES", "UNI", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `sync_runs`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "sync_runs")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "bigint unsigned", columns[0].Type)
	assert.Equal(t, "varchar(36)", columns[1].Type)
}

func TestJournal_MissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	j := NewJournal(db)
	ctx := context.Background()

	missing, err := j.MissingColumns(ctx)
	require.NoError(t, err)
	assert.Len(t, missing, len(journalColumns), "No table yet")

	require.NoError(t, j.Migrate(ctx))
	missing, err = j.MissingColumns(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
