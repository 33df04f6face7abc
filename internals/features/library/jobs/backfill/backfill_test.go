package backfill

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "biblioteca_backend/internals/databases"
	catalogModel "biblioteca_backend/internals/features/library/catalog/model"
	model "biblioteca_backend/internals/features/library/loans/model"
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

func seedTitle(t *testing.T, db *gorm.DB, name string) *catalogModel.TitleModel {
	t.Helper()
	title := catalogModel.TitleModel{TitleName: name, TitleKind: catalogModel.TitleKindBook}
	require.NoError(t, db.Create(&title).Error)
	return &title
}

func legacyLoan(t *testing.T, db *gorm.DB, mutate func(*model.LoanModel)) *model.LoanModel {
	t.Helper()
	loan := model.LoanModel{
		LoanStudentName: "Juana Pérez",
		LoanStudentDNI:  "45123456",
		LoanStatus:      model.LoanActive,
	}
	mutate(&loan)
	require.NoError(t, db.Create(&loan).Error)
	return &loan
}

func TestRunLinksByTitleText(t *testing.T) {
	db := setupTestDB(t)
	title := seedTitle(t, db, "El príncipe")

	// Accent- and case-insensitive match, exemplar created on the fly.
	loan := legacyLoan(t, db, func(l *model.LoanModel) {
		txt := "El Principe"
		l.LoanLegacyTitleText = &txt
	})

	res, err := Run(db, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Assigned)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 0, res.Unmatched)

	var got model.LoanModel
	require.NoError(t, db.First(&got, "loan_id = ?", loan.LoanID).Error)
	require.NotNil(t, got.LoanExemplarID)

	// Open loan: the new exemplar is born LOANED.
	var ej catalogModel.ExemplarModel
	require.NoError(t, db.First(&ej, "exemplar_id = ?", *got.LoanExemplarID).Error)
	assert.Equal(t, title.TitleID, ej.ExemplarTitleID)
	assert.Equal(t, catalogModel.ExemplarLoaned, ej.ExemplarStatus)
}

func TestRunLinksByTitleID(t *testing.T) {
	db := setupTestDB(t)
	title := seedTitle(t, db, "Rayuela")

	existing := catalogModel.ExemplarModel{
		ExemplarTitleID: title.TitleID,
		ExemplarStatus:  catalogModel.ExemplarAvailable,
	}
	require.NoError(t, db.Create(&existing).Error)

	loan := legacyLoan(t, db, func(l *model.LoanModel) {
		l.LoanLegacyTitleID = &title.TitleID
		l.LoanStatus = model.LoanReturned
	})

	res, err := Run(db, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Assigned)
	assert.Equal(t, 0, res.Created) // reused the existing copy

	var got model.LoanModel
	require.NoError(t, db.First(&got, "loan_id = ?", loan.LoanID).Error)
	require.NotNil(t, got.LoanExemplarID)
	assert.Equal(t, existing.ExemplarID, *got.LoanExemplarID)
}

func TestRunReturnedLoanCreatesAvailableExemplar(t *testing.T) {
	db := setupTestDB(t)
	seedTitle(t, db, "Ficciones")

	loan := legacyLoan(t, db, func(l *model.LoanModel) {
		txt := "ficciones"
		l.LoanLegacyBookText = &txt
		l.LoanStatus = model.LoanReturned
	})

	res, err := Run(db, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	var got model.LoanModel
	require.NoError(t, db.First(&got, "loan_id = ?", loan.LoanID).Error)
	require.NotNil(t, got.LoanExemplarID)

	var ej catalogModel.ExemplarModel
	require.NoError(t, db.First(&ej, "exemplar_id = ?", *got.LoanExemplarID).Error)
	assert.Equal(t, catalogModel.ExemplarAvailable, ej.ExemplarStatus)
}

func TestRunUnmatchedRows(t *testing.T) {
	db := setupTestDB(t)

	legacyLoan(t, db, func(l *model.LoanModel) {
		txt := "Un libro que no existe"
		l.LoanLegacyTitleText = &txt
	})
	legacyLoan(t, db, func(l *model.LoanModel) {
		id := uuid.New()
		l.LoanLegacyTitleID = &id
	})
	legacyLoan(t, db, func(l *model.LoanModel) {}) // no legacy data at all

	res, err := Run(db, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Assigned)
	assert.Equal(t, 3, res.Unmatched)

	var n int64
	db.Model(&model.LoanModel{}).Where("loan_exemplar_id IS NULL").Count(&n)
	assert.EqualValues(t, 3, n)
}

func TestRunDryRunPersistsNothing(t *testing.T) {
	db := setupTestDB(t)
	seedTitle(t, db, "El Aleph")

	legacyLoan(t, db, func(l *model.LoanModel) {
		txt := "El Aleph"
		l.LoanLegacyTitleText = &txt
	})

	res, err := Run(db, true)
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Assigned)
	assert.Equal(t, 1, res.Created)

	var n int64
	db.Model(&model.LoanModel{}).Where("loan_exemplar_id IS NULL").Count(&n)
	assert.EqualValues(t, 1, n)
	db.Model(&catalogModel.ExemplarModel{}).Count(&n)
	assert.Zero(t, n)
}

func TestRunIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedTitle(t, db, "Martín Fierro")

	legacyLoan(t, db, func(l *model.LoanModel) {
		txt := "martin fierro"
		l.LoanLegacyTitleText = &txt
	})

	_, err := Run(db, false)
	require.NoError(t, err)

	// Second pass finds nothing left to link.
	res, err := Run(db, false)
	require.NoError(t, err)
	assert.Zero(t, res.Assigned)
	assert.Zero(t, res.Created)
	assert.Zero(t, res.Unmatched)
}
