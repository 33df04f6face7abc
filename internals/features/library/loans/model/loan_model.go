// internals/features/library/loans/model/loan_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogModel "biblioteca_backend/internals/features/library/catalog/model"
)

// Loan status. The lifecycle only ever writes ACTIVE, RENEWED and RETURNED;
// OVERDUE exists as a reporting label computed on read from the due date;
// no sweep ever persists it.
const (
	LoanActive   = "ACTIVE"
	LoanRenewed  = "RENEWED"
	LoanOverdue  = "OVERDUE"
	LoanReturned = "RETURNED"
)

type LoanModel struct {
	// PK
	LoanID uuid.UUID `json:"loan_id" gorm:"column:loan_id;type:uuid;primaryKey"`

	// FK. Nullable only for rows predating the exemplar model; the backfill
	// job fills it in. RESTRICT: a loan keeps its exemplar row alive.
	LoanExemplarID *uuid.UUID                  `json:"loan_exemplar_id" gorm:"column:loan_exemplar_id;type:uuid;index:idx_loan_exemplar"`
	Exemplar       *catalogModel.ExemplarModel `json:"-" gorm:"foreignKey:LoanExemplarID;references:ExemplarID;constraint:OnDelete:RESTRICT"`

	// Legacy columns kept from the pre-exemplar schema; inputs of the
	// backfill job, never written by the lifecycle.
	LoanLegacyTitleID   *uuid.UUID `json:"-" gorm:"column:loan_legacy_title_id;type:uuid"`
	LoanLegacyTitleText *string    `json:"-" gorm:"column:loan_legacy_title_text;type:varchar(200)"`
	LoanLegacyBookText  *string    `json:"-" gorm:"column:loan_legacy_book_text;type:varchar(200)"`

	LoanStudentName string `json:"loan_student_name" gorm:"column:loan_student_name;type:varchar(200);not null"`
	LoanStudentDNI  string `json:"loan_student_dni" gorm:"column:loan_student_dni;type:varchar(8)"`

	LoanDate    time.Time `json:"loan_date" gorm:"column:loan_date;type:date;not null"`
	LoanDueDate time.Time `json:"loan_due_date" gorm:"column:loan_due_date;type:date;not null"`

	LoanStatus string `json:"loan_status" gorm:"column:loan_status;type:varchar(10);not null;default:ACTIVE;index:idx_loan_status"`

	LoanCreatedAt time.Time `json:"loan_created_at" gorm:"column:loan_created_at;not null;autoCreateTime"`
	LoanUpdatedAt time.Time `json:"loan_updated_at" gorm:"column:loan_updated_at;not null;autoUpdateTime"`
}

func (LoanModel) TableName() string { return "loans" }

func (m *LoanModel) BeforeCreate(tx *gorm.DB) error {
	if m.LoanID == uuid.Nil {
		m.LoanID = uuid.New()
	}
	return nil
}

// IsOpen reports whether the loan still holds its exemplar.
func (m *LoanModel) IsOpen() bool {
	return m.LoanStatus == LoanActive || m.LoanStatus == LoanRenewed
}

// EffectiveStatus is the status shown to users: open loans past their due
// date read as OVERDUE without ever persisting that value.
func (m *LoanModel) EffectiveStatus(today time.Time) string {
	if m.IsOpen() && m.LoanDueDate.Before(today) {
		return LoanOverdue
	}
	return m.LoanStatus
}
