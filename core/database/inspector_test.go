package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE catalog_soundbanks (short_id INTEGER PRIMARY KEY, Name TEXT, path TEXT DEFAULT 'none')").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "catalog_soundbanks")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	byName := make(map[string]ColumnInfo)
	for _, col := range columns {
		byName[col.Field] = col
	}

	assert.Equal(t, "integer", byName["short_id"].Type)
	assert.Equal(t, "text", byName["name"].Type, "field names are lowercased")
	require.NotNil(t, byName["path"].Default)
	assert.Equal(t, "'none'", *byName["path"].Default)
	assert.Nil(t, byName["short_id"].Default)

	// PRAGMA table_info returns no rows for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}
