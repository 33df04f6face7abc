// internals/features/library/catalog/controller/export_controller.go
package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	helper "biblioteca_backend/internals/helpers"
)

type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

var exportHeaders = []string{"Título", "Autor", "Categorías", "Disponibles", "Prestados", "Stock total"}

// Export - GET /libros/exportar?format=xlsx|csv
// Honors the same ?q= and ?cat= filters as the catalog list.
func (h *ExportController) Export(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	cat := strings.TrimSpace(c.Query("cat"))
	format := strings.ToLower(strings.TrimSpace(c.Query("format", "xlsx")))

	var rows []titleListRow
	if err := titleListQuery(h.DB, q, cat).
		Select(titleCountSelect).
		Scan(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo exportar el catálogo")
	}
	if err := attachCategories(h.DB, rows); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo exportar el catálogo")
	}

	stamp := time.Now().Format("20060102")
	switch format {
	case "csv":
		return h.exportCSV(c, rows, stamp)
	case "xlsx":
		return h.exportXLSX(c, rows, stamp)
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato no soportado (use xlsx o csv)")
	}
}

func (h *ExportController) exportXLSX(c *fiber.Ctx, rows []titleListRow, stamp string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catálogo"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, head := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", head)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.ColumnNumberToName(len(exportHeaders))
		f.SetCellStyle(sheet, "A1", last+"1", style)
	}
	f.SetColWidth(sheet, "A", "A", 40)
	f.SetColWidth(sheet, "B", "C", 28)
	f.SetColWidth(sheet, "D", "F", 12)

	for i, r := range rows {
		rowN := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowN), r.TitleName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowN), r.TitleAuthor)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowN), strings.Join(r.Categories, ", "))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowN), r.Available)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowN), r.Loaned)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowN), r.Available+r.Loaned)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo generar el XLSX")
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="catalogo_%s.xlsx"`, stamp))
	return c.Send(buf.Bytes())
}

func (h *ExportController) exportCSV(c *fiber.Ctx, rows []titleListRow, stamp string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo generar el CSV")
	}
	for _, r := range rows {
		rec := []string{
			r.TitleName,
			r.TitleAuthor,
			strings.Join(r.Categories, ", "),
			fmt.Sprintf("%d", r.Available),
			fmt.Sprintf("%d", r.Loaned),
			fmt.Sprintf("%d", r.Available+r.Loaned),
		}
		if err := w.Write(rec); err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo generar el CSV")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo generar el CSV")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="catalogo_%s.csv"`, stamp))
	return c.Send(buf.Bytes())
}
