// internals/features/library/catalog/controller/exemplar_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "biblioteca_backend/internals/features/library/catalog/dto"
	model "biblioteca_backend/internals/features/library/catalog/model"
	service "biblioteca_backend/internals/features/library/catalog/service"
	helper "biblioteca_backend/internals/helpers"
)

type ExemplarController struct {
	DB      *gorm.DB
	Service *service.CatalogService
}

func NewExemplarController(db *gorm.DB) *ExemplarController {
	return &ExemplarController{DB: db, Service: service.NewCatalogService(db)}
}

/* =========================================================
   LIST AVAILABLE - GET /ejemplares/disponibles
   Feeds the loan form: every AVAILABLE copy with its title.
========================================================= */

type availableRow struct {
	ExemplarID   uuid.UUID `gorm:"column:exemplar_id" json:"exemplar_id"`
	ExemplarCode string    `gorm:"column:exemplar_code" json:"exemplar_code"`
	TitleName    string    `gorm:"column:title_name" json:"title_name"`
	TitleAuthor  string    `gorm:"column:title_author" json:"title_author"`
}

func (h *ExemplarController) ListAvailable(c *fiber.Ctx) error {
	var rows []availableRow
	if err := h.DB.Table("exemplars").
		Select("exemplars.exemplar_id, exemplars.exemplar_code, titles.title_name, titles.title_author").
		Joins("JOIN titles ON titles.title_id = exemplars.exemplar_title_id").
		Where("exemplars.exemplar_status = ?", model.ExemplarAvailable).
		Order("titles.title_name, exemplars.exemplar_created_at").
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudieron obtener los ejemplares")
	}
	return helper.JsonList(c, "", rows, nil)
}

// Create - POST /ejemplares (adds one copy to a title)
func (h *ExemplarController) Create(c *fiber.Ctx) error {
	var req dto.ExemplarCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ej, err := h.Service.CreateExemplar(req.ExemplarTitleID, req.ExemplarCode)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Ejemplar agregado.", dto.ToExemplarResponse(ej))
}

// Delete - DELETE /ejemplares/:id
func (h *ExemplarController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}
	if err := h.Service.DeleteExemplar(id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Ejemplar eliminado.", fiber.Map{"exemplar_id": id})
}
