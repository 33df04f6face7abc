package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "biblioteca_backend/internals/databases"
	model "biblioteca_backend/internals/features/library/catalog/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalogo.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCreatesTitlesAndStock(t *testing.T) {
	db := setupTestDB(t)
	path := writeCSV(t, "NOMBRE DEL LIBRO;AUTOR;TEMÁTICA;STOCK\n"+
		"Psicología del aprendizaje;Ana López;psicología;3\n"+
		"Cosmos;Carl Sagan;;2\n"+
		";sin título;;1\n")

	res, err := Run(db, Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 2, res.CreatedTitles)
	assert.Equal(t, 0, res.UpdatedTitles)
	assert.Equal(t, 5, res.CreatedExemplars)
	assert.Equal(t, 1, res.Skipped)
	assert.False(t, res.DryRun)

	var title model.TitleModel
	require.NoError(t, db.Preload("Categories").
		First(&title, "title_name = ?", "Psicología del aprendizaje").Error)
	require.Len(t, title.Categories, 1)
	assert.Equal(t, "Psicología", title.Categories[0].CategoryName)

	var n int64
	db.Model(&model.ExemplarModel{}).
		Where("exemplar_title_id = ?", title.TitleID).Count(&n)
	assert.EqualValues(t, 3, n)

	// No keyword match: sentinel category. Fresh struct, otherwise the
	// previous lookup's primary key leaks into the WHERE clause.
	var cosmos model.TitleModel
	require.NoError(t, db.Preload("Categories").
		First(&cosmos, "title_name = ?", "Cosmos").Error)
	require.Len(t, cosmos.Categories, 1)
	assert.Equal(t, model.DefaultCategoryName, cosmos.Categories[0].CategoryName)
}

func TestRunTopsUpExistingTitle(t *testing.T) {
	db := setupTestDB(t)

	title := model.TitleModel{TitleName: "Cosmos", TitleAuthor: "", TitleKind: model.TitleKindBook}
	require.NoError(t, db.Create(&title).Error)
	require.NoError(t, db.Create(&model.ExemplarModel{
		ExemplarTitleID: title.TitleID,
		ExemplarStatus:  model.ExemplarAvailable,
	}).Error)

	path := writeCSV(t, "titulo,autor,stock\nCosmos,Carl Sagan,3\n")
	res, err := Run(db, Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 0, res.CreatedTitles)
	assert.Equal(t, 1, res.UpdatedTitles)
	assert.Equal(t, 2, res.CreatedExemplars) // 1 existing + 2 new = stock 3

	require.NoError(t, db.First(&title, "title_id = ?", title.TitleID).Error)
	assert.Equal(t, "Carl Sagan", title.TitleAuthor)

	var n int64
	db.Model(&model.ExemplarModel{}).
		Where("exemplar_title_id = ?", title.TitleID).Count(&n)
	assert.EqualValues(t, 3, n)
}

func TestRunDryRunPersistsNothing(t *testing.T) {
	db := setupTestDB(t)
	path := writeCSV(t, "titulo,autor\nRayuela,Julio Cortázar\n")

	res, err := Run(db, Options{Path: path, DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.CreatedTitles)

	var n int64
	db.Model(&model.TitleModel{}).Count(&n)
	assert.Zero(t, n)
}

func TestRunHeaderRowOffset(t *testing.T) {
	db := setupTestDB(t)
	path := writeCSV(t, "Inventario 2026\ntitulo,autor\nFicciones,Borges\n")

	res, err := Run(db, Options{Path: path, HeaderRow: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CreatedTitles)
}

func TestRunColumnOverride(t *testing.T) {
	db := setupTestDB(t)
	path := writeCSV(t, "INVENTARIO,RESPONSABLE\nEl Aleph,Borges\n")

	_, err := Run(db, Options{Path: path})
	require.Error(t, err) // no recognizable title column

	res, err := Run(db, Options{Path: path, ColTitle: "INVENTARIO", ColAuthor: "RESPONSABLE"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.CreatedTitles)

	var title model.TitleModel
	require.NoError(t, db.First(&title, "title_name = ?", "El Aleph").Error)
	assert.Equal(t, "Borges", title.TitleAuthor)
}

func TestRunMissingFile(t *testing.T) {
	db := setupTestDB(t)
	_, err := Run(db, Options{Path: filepath.Join(t.TempDir(), "nope.csv")})
	assert.Error(t, err)
}

func TestRunRejectsNonUTF8(t *testing.T) {
	db := setupTestDB(t)
	path := filepath.Join(t.TempDir(), "latin1.csv")
	// "título" in Latin-1: the 0xED byte is invalid UTF-8.
	require.NoError(t, os.WriteFile(path, []byte{'t', 0xED, 't', 'u', 'l', 'o', '\n'}, 0o644))

	_, err := Run(db, Options{Path: path})
	assert.Error(t, err)
}
