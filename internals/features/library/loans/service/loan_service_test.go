package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "biblioteca_backend/internals/databases"
	catalogModel "biblioteca_backend/internals/features/library/catalog/model"
	model "biblioteca_backend/internals/features/library/loans/model"
	helper "biblioteca_backend/internals/helpers"
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

func seedExemplar(t *testing.T, db *gorm.DB, titleName string) *catalogModel.ExemplarModel {
	t.Helper()
	title := catalogModel.TitleModel{
		TitleName:   titleName,
		TitleAuthor: "Autor de prueba",
		TitleKind:   catalogModel.TitleKindBook,
	}
	require.NoError(t, db.Create(&title).Error)
	ej := catalogModel.ExemplarModel{
		ExemplarTitleID: title.TitleID,
		ExemplarStatus:  catalogModel.ExemplarAvailable,
	}
	require.NoError(t, db.Create(&ej).Error)
	return &ej
}

// nextDueDate picks the first weekday at least 3 days out, always inside the
// 30-day window.
func nextDueDate() time.Time {
	d := DateOnly(time.Now()).AddDate(0, 0, 3)
	for (int(d.Weekday())+6)%7 >= 5 {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func TestValidateDNI(t *testing.T) {
	cases := []struct {
		name string
		dni  string
		ok   bool
	}{
		{"seven digits", "1234567", true},
		{"eight digits", "45123456", true},
		{"too short", "123456", false},
		{"too long", "123456789", false},
		{"letters", "12a4567", false},
		{"dots", "45.123.456", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDNI(tc.dni)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				var ve *helper.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, "student_dni", ve.Field)
			}
		})
	}
}

func TestValidateDueDate(t *testing.T) {
	// Wednesday.
	today := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		due  time.Time
		ok   bool
	}{
		{"today", today, true},
		{"tomorrow", today.AddDate(0, 0, 1), true},
		{"window edge +30", today.AddDate(0, 0, 30), true}, // Friday
		{"past +31", today.AddDate(0, 0, 31), false},
		{"yesterday", today.AddDate(0, 0, -1), false},
		{"saturday", time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), false},
		{"sunday", time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), false},
		{"next monday", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDueDate(tc.due, today)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				var ve *helper.ValidationError
				assert.ErrorAs(t, err, &ve)
			}
		})
	}
}

func TestCreateLoanFlipsExemplar(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(db)
	ej := seedExemplar(t, db, "El Aleph")

	loan, err := svc.Create(CreateLoanInput{
		StudentName: "Juana Pérez",
		StudentDNI:  "45123456",
		ExemplarID:  ej.ExemplarID,
		DueDate:     nextDueDate(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.LoanActive, loan.LoanStatus)
	assert.Equal(t, time.Now().Format("2006-01-02"), loan.LoanDate.Format("2006-01-02"))

	var got catalogModel.ExemplarModel
	require.NoError(t, db.First(&got, "exemplar_id = ?", ej.ExemplarID).Error)
	assert.Equal(t, catalogModel.ExemplarLoaned, got.ExemplarStatus)
}

func TestCreateLoanUnavailableExemplar(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(db)
	ej := seedExemplar(t, db, "Rayuela")

	in := CreateLoanInput{
		StudentName: "Luca Gómez",
		StudentDNI:  "46234567",
		ExemplarID:  ej.ExemplarID,
		DueDate:     nextDueDate(),
	}
	_, err := svc.Create(in)
	require.NoError(t, err)

	// Same copy again: the conflict path.
	_, err = svc.Create(in)
	assert.ErrorIs(t, err, helper.ErrConflict)
}

func TestCreateLoanExemplarNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(db)

	_, err := svc.Create(CreateLoanInput{
		StudentName: "Mora Fernández",
		StudentDNI:  "47345678",
		ExemplarID:  uuid.New(),
		DueDate:     nextDueDate(),
	})
	assert.ErrorIs(t, err, helper.ErrNotFound)
}

func TestRenewExtendsSevenDays(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(db)
	ej := seedExemplar(t, db, "Martín Fierro")

	due := nextDueDate()
	loan, err := svc.Create(CreateLoanInput{
		StudentName: "Thiago Díaz",
		StudentDNI:  "44456789",
		ExemplarID:  ej.ExemplarID,
		DueDate:     due,
	})
	require.NoError(t, err)

	renewed, err := svc.Renew(loan.LoanID)
	require.NoError(t, err)
	assert.Equal(t, model.LoanRenewed, renewed.LoanStatus)
	assert.Equal(t, due.AddDate(0, 0, 7).Format("2006-01-02"), renewed.LoanDueDate.Format("2006-01-02"))

	// No cap: a second renewal stacks another week.
	again, err := svc.Renew(loan.LoanID)
	require.NoError(t, err)
	assert.Equal(t, due.AddDate(0, 0, 14).Format("2006-01-02"), again.LoanDueDate.Format("2006-01-02"))
}

func TestRenewReturnedLoan(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(db)
	ej := seedExemplar(t, db, "La metamorfosis")

	loan, err := svc.Create(CreateLoanInput{
		StudentName: "Valentina Ruiz",
		StudentDNI:  "45567890",
		ExemplarID:  ej.ExemplarID,
		DueDate:     nextDueDate(),
	})
	require.NoError(t, err)

	_, err = svc.Return(loan.LoanID)
	require.NoError(t, err)

	_, err = svc.Renew(loan.LoanID)
	var ise *helper.InvalidStateError
	require.ErrorAs(t, err, &ise)
}

func TestReturnIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(db)
	ej := seedExemplar(t, db, "El matadero")

	loan, err := svc.Create(CreateLoanInput{
		StudentName: "Benjamín Castro",
		StudentDNI:  "46678901",
		ExemplarID:  ej.ExemplarID,
		DueDate:     nextDueDate(),
	})
	require.NoError(t, err)

	first, err := svc.Return(loan.LoanID)
	require.NoError(t, err)
	assert.False(t, first.AlreadyReturned)

	var got catalogModel.ExemplarModel
	require.NoError(t, db.First(&got, "exemplar_id = ?", ej.ExemplarID).Error)
	assert.Equal(t, catalogModel.ExemplarAvailable, got.ExemplarStatus)

	second, err := svc.Return(loan.LoanID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyReturned)
	assert.Equal(t, model.LoanReturned, second.Loan.LoanStatus)
}

func TestDeleteOpenLoanReleasesExemplar(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(db)
	ej := seedExemplar(t, db, "Mafalda 1")

	loan, err := svc.Create(CreateLoanInput{
		StudentName: "Juana Pérez",
		StudentDNI:  "45123456",
		ExemplarID:  ej.ExemplarID,
		DueDate:     nextDueDate(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(loan.LoanID))

	_, err = svc.Get(loan.LoanID)
	assert.ErrorIs(t, err, helper.ErrNotFound)

	var got catalogModel.ExemplarModel
	require.NoError(t, db.First(&got, "exemplar_id = ?", ej.ExemplarID).Error)
	assert.Equal(t, catalogModel.ExemplarAvailable, got.ExemplarStatus)
}

func TestDeleteMissingLoan(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(db)

	err := svc.Delete(uuid.New())
	assert.ErrorIs(t, err, helper.ErrNotFound)
}

func TestEffectiveStatusComputesOverdue(t *testing.T) {
	today := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	open := model.LoanModel{LoanStatus: model.LoanActive, LoanDueDate: today.AddDate(0, 0, -1)}
	assert.Equal(t, model.LoanOverdue, open.EffectiveStatus(today))

	onTime := model.LoanModel{LoanStatus: model.LoanRenewed, LoanDueDate: today}
	assert.Equal(t, model.LoanRenewed, onTime.EffectiveStatus(today))

	returned := model.LoanModel{LoanStatus: model.LoanReturned, LoanDueDate: today.AddDate(0, 0, -10)}
	assert.Equal(t, model.LoanReturned, returned.EffectiveStatus(today))
}

func TestErrorsKeepSentinelChain(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLoanService(db)

	_, err := svc.Get(uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, helper.ErrNotFound))
}
