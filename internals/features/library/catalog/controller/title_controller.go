// internals/features/library/catalog/controller/title_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "biblioteca_backend/internals/features/library/catalog/dto"
	model "biblioteca_backend/internals/features/library/catalog/model"
	service "biblioteca_backend/internals/features/library/catalog/service"
	helper "biblioteca_backend/internals/helpers"
)

type TitleController struct {
	DB      *gorm.DB
	Service *service.CatalogService
}

func NewTitleController(db *gorm.DB) *TitleController {
	return &TitleController{DB: db, Service: service.NewCatalogService(db)}
}

var validate = validator.New()

/* =========================================================
   LIST - GET /libros
   Search ?q= over name/author, filter ?cat= by category name,
   paginated, with per-title available/loaned counts.
========================================================= */

type titleListRow struct {
	TitleID     uuid.UUID `gorm:"column:title_id" json:"title_id"`
	TitleName   string    `gorm:"column:title_name" json:"title_name"`
	TitleAuthor string    `gorm:"column:title_author" json:"title_author"`
	TitleKind   string    `gorm:"column:title_kind" json:"title_kind"`
	Available   int64     `gorm:"column:available" json:"available"`
	Loaned      int64     `gorm:"column:loaned" json:"loaned"`

	Categories []string `gorm:"-" json:"categories"`
}

const titleCountSelect = `titles.title_id, titles.title_name, titles.title_author, titles.title_kind,
(SELECT COUNT(*) FROM exemplars e WHERE e.exemplar_title_id = titles.title_id AND e.exemplar_status = 'AVAILABLE') AS available,
(SELECT COUNT(*) FROM exemplars e WHERE e.exemplar_title_id = titles.title_id AND e.exemplar_status = 'LOANED') AS loaned`

// titleListQuery builds the filtered catalog query shared by List and Export.
func titleListQuery(db *gorm.DB, q, cat string) *gorm.DB {
	tx := db.Model(&model.TitleModel{}).Order("titles.title_name")
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("lower(titles.title_name) LIKE ? OR lower(titles.title_author) LIKE ?", like, like)
	}
	if cat != "" {
		tx = tx.
			Joins("JOIN title_categories tc ON tc.title_id = titles.title_id").
			Joins("JOIN categories cg ON cg.category_id = tc.category_id").
			Where("lower(cg.category_name) = lower(?)", cat)
	}
	return tx
}

// attachCategories fills the Categories slice for a page of rows.
func attachCategories(db *gorm.DB, rows []titleListRow) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.TitleID)
	}

	type catRow struct {
		TitleID      uuid.UUID `gorm:"column:title_id"`
		CategoryName string    `gorm:"column:category_name"`
	}
	var cats []catRow
	if err := db.Table("title_categories tc").
		Select("tc.title_id, cg.category_name").
		Joins("JOIN categories cg ON cg.category_id = tc.category_id").
		Where("tc.title_id IN ?", ids).
		Order("cg.category_name").
		Scan(&cats).Error; err != nil {
		return err
	}

	byTitle := map[uuid.UUID][]string{}
	for _, cr := range cats {
		byTitle[cr.TitleID] = append(byTitle[cr.TitleID], cr.CategoryName)
	}
	for i := range rows {
		if names, ok := byTitle[rows[i].TitleID]; ok {
			rows[i].Categories = names
		} else {
			rows[i].Categories = []string{}
		}
	}
	return nil
}

func (h *TitleController) List(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	cat := strings.TrimSpace(c.Query("cat"))
	paging := helper.ResolvePaging(c, 8, 100)

	var total int64
	if err := titleListQuery(h.DB, q, cat).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo obtener el catálogo")
	}

	var rows []titleListRow
	if err := titleListQuery(h.DB, q, cat).
		Select(titleCountSelect).
		Offset(paging.Offset).
		Limit(paging.Limit).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo obtener el catálogo")
	}
	if err := attachCategories(h.DB, rows); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudieron obtener las categorías")
	}

	p := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "", rows, &p)
}

/* =========================================================
   GET - GET /libros/:id
========================================================= */

func (h *TitleController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}
	m, err := h.Service.GetTitle(id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	available, loaned := h.exemplarCounts(m.TitleID)
	return helper.JsonOK(c, "", dto.ToTitleResponse(m, available, loaned))
}

/* =========================================================
   CREATE - POST /libros
========================================================= */

func (h *TitleController) Create(c *fiber.Ctx) error {
	var req dto.TitleCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, err := h.Service.CreateTitle(req.ToModel(), req.CategoryIDs)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	available, loaned := h.exemplarCounts(m.TitleID)
	return helper.JsonCreated(c,
		"Título «"+m.TitleName+"» cargado (stock inicial: 1).",
		dto.ToTitleResponse(m, available, loaned))
}

/* =========================================================
   UPDATE - PUT /libros/:id
========================================================= */

func (h *TitleController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.TitleUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload inválido")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, err := h.Service.GetTitle(id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	req.ApplyToModel(m)

	m, err = h.Service.UpdateTitle(m, req.CategoryIDs)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	available, loaned := h.exemplarCounts(m.TitleID)
	return helper.JsonUpdated(c, "Título actualizado.", dto.ToTitleResponse(m, available, loaned))
}

/* =========================================================
   DELETE - DELETE /libros/:id
========================================================= */

func (h *TitleController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}
	if err := h.Service.DeleteTitle(id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Libro eliminado correctamente.", fiber.Map{"title_id": id})
}

func (h *TitleController) exemplarCounts(titleID uuid.UUID) (available, loaned int64) {
	h.DB.Model(&model.ExemplarModel{}).
		Where("exemplar_title_id = ? AND exemplar_status = ?", titleID, model.ExemplarAvailable).
		Count(&available)
	h.DB.Model(&model.ExemplarModel{}).
		Where("exemplar_title_id = ? AND exemplar_status = ?", titleID, model.ExemplarLoaned).
		Count(&loaned)
	return
}
