// internals/features/library/loans/controller/dashboard_controller.go
package controller

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	catalogModel "biblioteca_backend/internals/features/library/catalog/model"
	model "biblioteca_backend/internals/features/library/loans/model"
	service "biblioteca_backend/internals/features/library/loans/service"
	helper "biblioteca_backend/internals/helpers"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type dueRow struct {
	StudentName string    `gorm:"column:loan_student_name" json:"student_name"`
	TitleName   string    `gorm:"column:title_name" json:"title_name"`
	DueDate     time.Time `gorm:"column:loan_due_date" json:"-"`
	DueDateStr  string    `gorm:"-" json:"due_date"`
}

// Dashboard - GET /dashboard
// Stock totals, occupancy and the two watchlists: due within 7 days and
// already overdue.
func (h *DashboardController) Dashboard(c *fiber.Ctx) error {
	today := service.DateOnly(time.Now())

	var total, loaned, available int64
	if err := h.DB.Model(&catalogModel.ExemplarModel{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo calcular el stock")
	}
	h.DB.Model(&catalogModel.ExemplarModel{}).
		Where("exemplar_status = ?", catalogModel.ExemplarLoaned).Count(&loaned)
	h.DB.Model(&catalogModel.ExemplarModel{}).
		Where("exemplar_status = ?", catalogModel.ExemplarAvailable).Count(&available)

	occupancy := 0.0
	if total > 0 {
		occupancy = math.Round(float64(loaned)/float64(total)*1000) / 10
	}

	dueSoon, err := h.openLoansDueBetween(today.AddDate(0, 0, 1), today.AddDate(0, 0, 7))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudieron obtener los vencimientos")
	}
	overdue, err := h.openLoansDueBefore(today)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudieron obtener los atrasos")
	}

	return helper.JsonOK(c, "", fiber.Map{
		"total":     total,
		"loaned":    loaned,
		"available": available,
		"occupancy": occupancy,
		"due_7d":    dueSoon,
		"overdue":   overdue,
	})
}

func (h *DashboardController) openLoansDueBetween(from, to time.Time) ([]dueRow, error) {
	return h.openLoans("loans.loan_due_date >= ? AND loans.loan_due_date <= ?", from, to)
}

func (h *DashboardController) openLoansDueBefore(t time.Time) ([]dueRow, error) {
	return h.openLoans("loans.loan_due_date < ?", t)
}

func (h *DashboardController) openLoans(cond string, args ...any) ([]dueRow, error) {
	var rows []dueRow
	err := h.DB.Table("loans").
		Select("loans.loan_student_name, titles.title_name, loans.loan_due_date").
		Joins("LEFT JOIN exemplars ON exemplars.exemplar_id = loans.loan_exemplar_id").
		Joins("LEFT JOIN titles ON titles.title_id = exemplars.exemplar_title_id").
		Where("loans.loan_status IN ?", []string{model.LoanActive, model.LoanRenewed}).
		Where(cond, args...).
		Order("loans.loan_due_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].DueDateStr = rows[i].DueDate.Format("2006-01-02")
	}
	return rows, nil
}
