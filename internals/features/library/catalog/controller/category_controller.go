// internals/features/library/catalog/controller/category_controller.go
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

type CategoryController struct {
	DB      *gorm.DB
	Service *service.CatalogService
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db, Service: service.NewCatalogService(db)}
}

// List - GET /categorias
func (h *CategoryController) List(c *fiber.Ctx) error {
	var cats []model.CategoryModel
	if err := h.DB.Order("category_name").Find(&cats).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudieron obtener las categorías")
	}

	out := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		out = append(out, *dto.ToCategoryResponse(&cats[i], false))
	}
	return helper.JsonList(c, "", out, nil)
}

// Create - POST /categorias (get-or-create by name)
func (h *CategoryController) Create(c *fiber.Ctx) error {
	var req dto.CategoryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	cat, created, err := h.Service.CreateCategory(req.CategoryName)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	if !created {
		return helper.JsonOK(c,
			"La categoría «"+cat.CategoryName+"» ya existía.",
			dto.ToCategoryResponse(cat, false))
	}
	return helper.JsonCreated(c,
		"Categoría «"+cat.CategoryName+"» creada.",
		dto.ToCategoryResponse(cat, true))
}

// Delete - DELETE /categorias/:id
// Titles left without a category fall back to the default one.
func (h *CategoryController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}
	if err := h.Service.DeleteCategory(id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Categoría eliminada.", fiber.Map{"category_id": id})
}
