// internals/features/library/loans/dto/loan_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "biblioteca_backend/internals/features/library/loans/model"
)

type LoanCreateRequest struct {
	StudentName string    `json:"student_name" validate:"required,min=2,max=200"`
	StudentDNI  string    `json:"student_dni" validate:"required"`
	ExemplarID  uuid.UUID `json:"exemplar_id" validate:"required"`
	DueDate     string    `json:"due_date" validate:"required"` // YYYY-MM-DD
}

func (r *LoanCreateRequest) Normalize() {
	r.StudentName = strings.TrimSpace(r.StudentName)
	r.StudentDNI = strings.TrimSpace(r.StudentDNI)
	r.DueDate = strings.TrimSpace(r.DueDate)
}

// ParseDueDate parses the form's YYYY-MM-DD value; range/weekday rules are
// enforced by the loan service, not here.
func (r *LoanCreateRequest) ParseDueDate() (time.Time, error) {
	return time.Parse("2006-01-02", r.DueDate)
}

type LoanResponse struct {
	LoanID      uuid.UUID  `json:"loan_id"`
	ExemplarID  *uuid.UUID `json:"exemplar_id"`
	TitleName   string     `json:"title_name,omitempty"`
	StudentName string     `json:"student_name"`
	StudentDNI  string     `json:"student_dni"`
	LoanDate    string     `json:"loan_date"`
	DueDate     string     `json:"due_date"`
	Status      string     `json:"status"`
}

func ToLoanResponse(m *model.LoanModel, titleName string) *LoanResponse {
	return &LoanResponse{
		LoanID:      m.LoanID,
		ExemplarID:  m.LoanExemplarID,
		TitleName:   titleName,
		StudentName: m.LoanStudentName,
		StudentDNI:  m.LoanStudentDNI,
		LoanDate:    m.LoanDate.Format("2006-01-02"),
		DueDate:     m.LoanDueDate.Format("2006-01-02"),
		Status:      m.EffectiveStatus(time.Now()),
	}
}
