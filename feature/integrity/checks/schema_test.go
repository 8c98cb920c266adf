package checks

import (
	"testing"

	"audio-loader/feature/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

type untabled struct {
	ID int `gorm:"column:id"`
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil, catalog.Models())
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_ModelWithoutTableName(t *testing.T) {
	db, _ := setupMockDB(t)
	report, err := CheckSchema(db, []any{untabled{}})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "does not implement TableName")
}

func TestCheckSchema_MissingColumn(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment").
		AddRow("short_id", "int unsigned", "YES", "MUL", nil, "").
		AddRow("name", "varchar(191)", "YES", "MUL", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `catalog_soundbanks`").WillReturnRows(rows)

	report, err := CheckSchema(db, []any{&catalog.SoundBankRow{}})
	require.NoError(t, err)
	assert.Equal(t, "mysql", report.Driver)
	assert.False(t, report.Matched)

	tbl, ok := report.Tables["catalog_soundbanks"]
	require.True(t, ok)
	assert.Equal(t, "error", tbl.Status)
	assert.ElementsMatch(t, []string{"language_id", "language_name", "path"}, tbl.MissingColumns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSchema_TypeMismatch(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("short_id", "int unsigned", "NO", "PRI", nil, "").
		AddRow("group_id", "int unsigned", "YES", "MUL", nil, "").
		AddRow("type", "int", "YES", "", nil, "").
		AddRow("name", "varchar(191)", "YES", "MUL", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `catalog_group_values`").WillReturnRows(rows)

	report, err := CheckSchema(db, []any{&catalog.GroupValueRow{}})
	require.NoError(t, err)

	tbl := report.Tables["catalog_group_values"]
	assert.Empty(t, tbl.MissingColumns)
	assert.Equal(t, []string{"type: expected varchar(16), got int"}, tbl.TypeMismatches)
	assert.False(t, report.Matched)
}

func TestCheckSchema_InspectFailureIsReported(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `catalog_media`").WillReturnError(assert.AnError)

	report, err := CheckSchema(db, []any{&catalog.MediaRow{}})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "catalog_media")
}

func TestCheckSchema_MigratedCatalogMatches(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(catalog.Models()...))

	report, err := CheckSchema(db, catalog.Models())
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report)
	assert.Len(t, report.Tables, len(catalog.Models()))
}

func TestParseGormTags(t *testing.T) {
	assert.Equal(t, "id", parseGormColumn("column:id;primaryKey"))
	assert.Equal(t, "type", parseGormColumn("column:type;type:varchar(16)"))
	assert.Equal(t, "varchar(16)", parseGormType("column:type;type:varchar(16)"))
	assert.Equal(t, "", parseGormType("column:id"))
}
