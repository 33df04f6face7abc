// internals/features/library/jobs/controller/jobs_controller.go
package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	backfill "biblioteca_backend/internals/features/library/jobs/backfill"
	importer "biblioteca_backend/internals/features/library/jobs/importer"
	helper "biblioteca_backend/internals/helpers"
)

type JobsController struct {
	DB *gorm.DB
}

func NewJobsController(db *gorm.DB) *JobsController {
	return &JobsController{DB: db}
}

/* =========================================================
   IMPORT - POST /jobs/importar  (multipart: file=catalogo.csv)
   Query: dry_run, clear, debug, header_row, delimiter,
          col_titulo, col_autor, col_categoria, col_stock
========================================================= */

func (h *JobsController) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Falta el archivo CSV (campo 'file')")
	}

	tmp := filepath.Join(os.TempDir(),
		fmt.Sprintf("import_%d_%s", time.Now().UnixNano(), filepath.Base(fh.Filename)))
	if err := c.SaveFile(fh, tmp); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "No se pudo guardar el archivo")
	}
	defer os.Remove(tmp)

	opts := importer.Options{
		Path:        tmp,
		DryRun:      queryBool(c, "dry_run"),
		Clear:       queryBool(c, "clear"),
		Debug:       queryBool(c, "debug"),
		ColTitle:    strings.TrimSpace(c.Query("col_titulo")),
		ColAuthor:   strings.TrimSpace(c.Query("col_autor")),
		ColCategory: strings.TrimSpace(c.Query("col_categoria")),
		ColStock:    strings.TrimSpace(c.Query("col_stock")),
	}
	if n, err := strconv.Atoi(c.Query("header_row", "1")); err == nil {
		opts.HeaderRow = n
	}
	if d := c.Query("delimiter"); d != "" {
		opts.Delimiter = []rune(d)[0]
	}

	res, err := importer.Run(h.DB, opts)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	msg := fmt.Sprintf("Import listo: %d títulos creados, %d actualizados, %d ejemplares nuevos.",
		res.CreatedTitles, res.UpdatedTitles, res.CreatedExemplars)
	if res.DryRun {
		msg = "[DRY-RUN] " + msg
	}
	return helper.JsonOK(c, msg, res)
}

/* =========================================================
   BACKFILL - POST /jobs/backfill?dry_run=true
========================================================= */

func (h *JobsController) Backfill(c *fiber.Ctx) error {
	dryRun := queryBool(c, "dry_run")

	res, err := backfill.Run(h.DB, dryRun)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "El backfill falló: "+err.Error())
	}

	msg := fmt.Sprintf("Backfill listo: %d préstamos vinculados, %d ejemplares creados, %d sin resolver.",
		res.Assigned, res.Created, res.Unmatched)
	if res.DryRun {
		msg = "[DRY-RUN] " + msg
	}
	return helper.JsonOK(c, msg, res)
}

func queryBool(c *fiber.Ctx, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key, "false"))
	return v
}
