// internals/features/library/loans/controller/loan_controller.go
package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "biblioteca_backend/internals/features/library/loans/dto"
	model "biblioteca_backend/internals/features/library/loans/model"
	service "biblioteca_backend/internals/features/library/loans/service"
	helper "biblioteca_backend/internals/helpers"
)

type LoanController struct {
	DB      *gorm.DB
	Service *service.LoanService
}

func NewLoanController(db *gorm.DB) *LoanController {
	return &LoanController{DB: db, Service: service.NewLoanService(db)}
}

var validate = validator.New()

/* =========================================================
   LIST - GET /prestamos
========================================================= */

type loanListRow struct {
	LoanID          uuid.UUID `gorm:"column:loan_id" json:"loan_id"`
	LoanStudentName string    `gorm:"column:loan_student_name" json:"student_name"`
	LoanStudentDNI  string    `gorm:"column:loan_student_dni" json:"student_dni"`
	TitleName       string    `gorm:"column:title_name" json:"title_name"`
	LoanDate        time.Time `gorm:"column:loan_date" json:"-"`
	LoanDueDate     time.Time `gorm:"column:loan_due_date" json:"-"`
	LoanStatus      string    `gorm:"column:loan_status" json:"-"`

	LoanDateStr string `gorm:"-" json:"loan_date"`
	DueDateStr  string `gorm:"-" json:"due_date"`
	Status      string `gorm:"-" json:"status"`
}

func (h *LoanController) List(c *fiber.Ctx) error {
	var rows []loanListRow
	if err := h.DB.Table("loans").
		Select("loans.loan_id, loans.loan_student_name, loans.loan_student_dni, titles.title_name, loans.loan_date, loans.loan_due_date, loans.loan_status").
		Joins("LEFT JOIN exemplars ON exemplars.exemplar_id = loans.loan_exemplar_id").
		Joins("LEFT JOIN titles ON titles.title_id = exemplars.exemplar_title_id").
		Order("loans.loan_date DESC").
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudieron obtener los préstamos")
	}

	today := service.DateOnly(time.Now())
	for i := range rows {
		rows[i].LoanDateStr = rows[i].LoanDate.Format("2006-01-02")
		rows[i].DueDateStr = rows[i].LoanDueDate.Format("2006-01-02")
		m := model.LoanModel{LoanStatus: rows[i].LoanStatus, LoanDueDate: rows[i].LoanDueDate}
		rows[i].Status = m.EffectiveStatus(today)
	}
	return helper.JsonList(c, "", rows, nil)
}

/* =========================================================
   CREATE - POST /prestamos
========================================================= */

func (h *LoanController) Create(c *fiber.Ctx) error {
	var req dto.LoanCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	due, err := req.ParseDueDate()
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"due_date": {"Fecha inválida."}})
	}

	loan, err := h.Service.Create(service.CreateLoanInput{
		StudentName: req.StudentName,
		StudentDNI:  req.StudentDNI,
		ExemplarID:  req.ExemplarID,
		DueDate:     due,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	title := h.titleNameFor(loan)
	return helper.JsonCreated(c,
		fmt.Sprintf("Préstamo registrado para %s · %s.", loan.LoanStudentName, title),
		dto.ToLoanResponse(loan, title))
}

/* =========================================================
   RENEW - POST /prestamos/:id/renovar
========================================================= */

func (h *LoanController) Renew(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	loan, err := h.Service.Renew(id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	title := h.titleNameFor(loan)
	return helper.JsonUpdated(c,
		fmt.Sprintf("Préstamo renovado +7 días para «%s». Nuevo vencimiento: %s.",
			title, loan.LoanDueDate.Format("2006-01-02")),
		dto.ToLoanResponse(loan, title))
}

/* =========================================================
   RETURN - POST /prestamos/:id/devolver
========================================================= */

func (h *LoanController) Return(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	res, err := h.Service.Return(id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	title := h.titleNameFor(res.Loan)
	if res.AlreadyReturned {
		return helper.JsonOK(c, "Ese préstamo ya estaba marcado como devuelto.",
			dto.ToLoanResponse(res.Loan, title))
	}
	return helper.JsonUpdated(c,
		fmt.Sprintf("Se marcó como devuelto: %s.", title),
		dto.ToLoanResponse(res.Loan, title))
}

/* =========================================================
   DELETE - DELETE /prestamos/:id
========================================================= */

func (h *LoanController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}
	if err := h.Service.Delete(id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Préstamo eliminado.", fiber.Map{"loan_id": id})
}

// titleNameFor resolves the loaned title's name for user-facing messages.
func (h *LoanController) titleNameFor(loan *model.LoanModel) string {
	if loan == nil || loan.LoanExemplarID == nil {
		return ""
	}
	var name string
	h.DB.Table("exemplars").
		Select("titles.title_name").
		Joins("JOIN titles ON titles.title_id = exemplars.exemplar_title_id").
		Where("exemplars.exemplar_id = ?", *loan.LoanExemplarID).
		Scan(&name)
	return name
}
