// internals/features/library/loans/service/loan_service.go
//
// Loan lifecycle engine. Every operation runs in one transaction and keeps
// the denormalized exemplar status in step with the loan rows: an exemplar is
// LOANED exactly while one open (ACTIVE/RENEWED) loan references it.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogModel "biblioteca_backend/internals/features/library/catalog/model"
	model "biblioteca_backend/internals/features/library/loans/model"
	helper "biblioteca_backend/internals/helpers"
)

const (
	maxLoanDays        = 30
	renewExtensionDays = 7
)

type LoanService struct {
	DB *gorm.DB
}

func NewLoanService(db *gorm.DB) *LoanService {
	return &LoanService{DB: db}
}

type CreateLoanInput struct {
	StudentName string
	StudentDNI  string
	ExemplarID  uuid.UUID
	DueDate     time.Time
}

// ReturnResult distinguishes a real return from the idempotent no-op so the
// controller can answer "ya estaba devuelto" instead of an error.
type ReturnResult struct {
	Loan            *model.LoanModel
	AlreadyReturned bool
}

/* =========================================================
   Validation
========================================================= */

// ValidateDNI: trimmed string of 7–8 ASCII digits.
func ValidateDNI(dni string) error {
	if len(dni) < 7 || len(dni) > 8 {
		return helper.NewValidationError("student_dni", "DNI inválido (solo números, 7–8 dígitos).")
	}
	for _, r := range dni {
		if r < '0' || r > '9' {
			return helper.NewValidationError("student_dni", "DNI inválido (solo números, 7–8 dígitos).")
		}
	}
	return nil
}

// ValidateDueDate: today ≤ due ≤ today+30, and never on a weekend.
func ValidateDueDate(due, today time.Time) error {
	due, today = DateOnly(due), DateOnly(today)
	if due.Before(today) || due.After(today.AddDate(0, 0, maxLoanDays)) {
		return helper.NewValidationError("due_date", "La fecha debe estar entre hoy y 30 días.")
	}
	// Monday=0 week: Saturday=5, Sunday=6.
	if wd := (int(due.Weekday()) + 6) % 7; wd >= 5 {
		return helper.NewValidationError("due_date", "La fecha no puede caer sábado ni domingo.")
	}
	return nil
}

// DateOnly truncates to day granularity; loan dates are DATE columns.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// lockForUpdate takes a row lock so two racing loans on one exemplar
// serialize; the loser sees LOANED and gets the conflict path. SQLite has no
// FOR UPDATE clause, its single-writer transaction covers the same race.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

/* =========================================================
   Lifecycle operations
========================================================= */

// Create validates the request and atomically inserts the loan (ACTIVE,
// loan_date=today) while flipping the exemplar to LOANED.
func (s *LoanService) Create(in CreateLoanInput) (*model.LoanModel, error) {
	today := DateOnly(time.Now())

	if err := ValidateDNI(in.StudentDNI); err != nil {
		return nil, err
	}
	if err := ValidateDueDate(in.DueDate, today); err != nil {
		return nil, err
	}

	var loan *model.LoanModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var ej catalogModel.ExemplarModel
		if err := lockForUpdate(tx).
			First(&ej, "exemplar_id = ?", in.ExemplarID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("ejemplar: %w", helper.ErrNotFound)
			}
			return err
		}
		if ej.ExemplarStatus != catalogModel.ExemplarAvailable {
			return fmt.Errorf("el ejemplar seleccionado no está disponible: %w", helper.ErrConflict)
		}

		loan = &model.LoanModel{
			LoanExemplarID:  &ej.ExemplarID,
			LoanStudentName: in.StudentName,
			LoanStudentDNI:  in.StudentDNI,
			LoanDate:        today,
			LoanDueDate:     DateOnly(in.DueDate),
			LoanStatus:      model.LoanActive,
		}
		if err := tx.Create(loan).Error; err != nil {
			return err
		}

		return tx.Model(&catalogModel.ExemplarModel{}).
			Where("exemplar_id = ?", ej.ExemplarID).
			Update("exemplar_status", catalogModel.ExemplarLoaned).Error
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Renew extends the due date by 7 days and marks the loan RENEWED. A
// returned loan cannot be renewed; there is no cap on renewal count.
func (s *LoanService) Renew(loanID uuid.UUID) (*model.LoanModel, error) {
	var loan model.LoanModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&loan, "loan_id = ?", loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("préstamo: %w", helper.ErrNotFound)
			}
			return err
		}
		if loan.LoanStatus == model.LoanReturned {
			return helper.NewInvalidStateError("No podés renovar un préstamo devuelto.")
		}

		loan.LoanDueDate = loan.LoanDueDate.AddDate(0, 0, renewExtensionDays)
		loan.LoanStatus = model.LoanRenewed
		return tx.Model(&model.LoanModel{}).
			Where("loan_id = ?", loan.LoanID).
			Updates(map[string]any{
				"loan_due_date": loan.LoanDueDate,
				"loan_status":   loan.LoanStatus,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Return marks the loan RETURNED and releases its exemplar. Idempotent:
// returning an already-returned loan mutates nothing.
func (s *LoanService) Return(loanID uuid.UUID) (*ReturnResult, error) {
	res := &ReturnResult{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var loan model.LoanModel
		if err := lockForUpdate(tx).
			First(&loan, "loan_id = ?", loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("préstamo: %w", helper.ErrNotFound)
			}
			return err
		}
		res.Loan = &loan

		if loan.LoanStatus == model.LoanReturned {
			res.AlreadyReturned = true
			return nil
		}

		loan.LoanStatus = model.LoanReturned
		if err := tx.Model(&model.LoanModel{}).
			Where("loan_id = ?", loan.LoanID).
			Update("loan_status", model.LoanReturned).Error; err != nil {
			return err
		}
		return s.releaseExemplar(tx, loan.LoanExemplarID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Delete hard-deletes the loan row. An open loan first releases its
// exemplar; a returned one leaves the exemplar untouched.
func (s *LoanService) Delete(loanID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var loan model.LoanModel
		if err := lockForUpdate(tx).
			First(&loan, "loan_id = ?", loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("préstamo: %w", helper.ErrNotFound)
			}
			return err
		}

		if loan.LoanStatus != model.LoanReturned {
			if err := s.releaseExemplar(tx, loan.LoanExemplarID); err != nil {
				return err
			}
		}
		return tx.Delete(&model.LoanModel{}, "loan_id = ?", loan.LoanID).Error
	})
}

// releaseExemplar sets the exemplar back to AVAILABLE if it is not already.
func (s *LoanService) releaseExemplar(tx *gorm.DB, exemplarID *uuid.UUID) error {
	if exemplarID == nil {
		return nil
	}
	return tx.Model(&catalogModel.ExemplarModel{}).
		Where("exemplar_id = ? AND exemplar_status <> ?", *exemplarID, catalogModel.ExemplarAvailable).
		Update("exemplar_status", catalogModel.ExemplarAvailable).Error
}

// Get loads one loan.
func (s *LoanService) Get(loanID uuid.UUID) (*model.LoanModel, error) {
	var loan model.LoanModel
	if err := s.DB.First(&loan, "loan_id = ?", loanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("préstamo: %w", helper.ErrNotFound)
		}
		return nil, err
	}
	return &loan, nil
}
