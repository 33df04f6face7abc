// internals/features/library/jobs/importer/importer.go
//
// Catalog import job: reads a tabular file (CSV-like, delimiter sniffed),
// get-or-creates titles, attaches keyword-resolved categories and tops up
// exemplar stock. One transaction for the whole batch; dry-run rolls it back
// after counting.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	database "biblioteca_backend/internals/databases"
	model "biblioteca_backend/internals/features/library/catalog/model"
	helper "biblioteca_backend/internals/helpers"
)

var sniffCandidates = []rune{',', ';', '|', '\t'}

type Options struct {
	Path      string
	Delimiter rune // 0 = auto-detect
	HeaderRow int  // 1-based; 0/1 = first line
	DryRun    bool
	Clear     bool // wipe titles+exemplars first; ignored under DryRun
	Debug     bool

	// Explicit column overrides; take precedence over alias matching.
	ColTitle    string
	ColAuthor   string
	ColCategory string
	ColStock    string
}

type Result struct {
	CreatedTitles    int  `json:"created_titles"`
	UpdatedTitles    int  `json:"updated_titles"`
	CreatedExemplars int  `json:"created_exemplars"`
	Skipped          int  `json:"skipped"`
	DryRun           bool `json:"dry_run"`
}

// Run executes the import. Only a missing file, non-UTF-8 content or an
// unresolvable title column abort the job; per-row problems are counted.
func Run(db *gorm.DB, opts Options) (*Result, error) {
	raw, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("no existe el archivo: %s", opts.Path)
	}
	if !utf8.Valid(raw) {
		return nil, errors.New("el CSV debe estar en UTF-8 (desde Excel: 'CSV UTF-8')")
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = sniffDelimiter(string(raw[:min(len(raw), 4096)]))
	}

	r := bufio.NewReader(strings.NewReader(string(raw)))
	headerRow := opts.HeaderRow
	if headerRow < 1 {
		headerRow = 1
	}
	for i := 0; i < headerRow-1; i++ {
		if _, err := r.ReadString('\n'); err != nil {
			break
		}
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("no se encontraron encabezados en el CSV")
	}

	mapping := mapHeaders(header)
	colTitle := resolveColumn(header, opts.ColTitle, mapping["titulo"])
	colAuthor := resolveColumn(header, opts.ColAuthor, mapping["autor"])
	colCategory := resolveColumn(header, opts.ColCategory, mapping["categoria"])
	colStock := resolveColumn(header, opts.ColStock, mapping["stock"])

	if opts.Debug {
		log.Printf("[IMPORT] headers=%q delimiter=%q", header, delimiter)
		log.Printf("[IMPORT] columns -> titulo=%d autor=%d categoria=%d stock=%d",
			colTitle, colAuthor, colCategory, colStock)
	}

	if colTitle < 0 {
		return nil, errors.New("no encontré la columna de TÍTULO (ej: 'NOMBRE DEL LIBRO', 'TÍTULO')")
	}

	// Pre-import wipe runs in its own transaction, never under dry-run.
	if opts.Clear && !opts.DryRun {
		err := database.RunTx(db, false, func(tx *gorm.DB) error {
			if err := tx.Exec("DELETE FROM title_categories").Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM exemplars").Error; err != nil {
				return err
			}
			return tx.Exec("DELETE FROM titles").Error
		})
		if err != nil {
			return nil, err
		}
		log.Println("[IMPORT] ⚠️ Se borraron TODOS los títulos y ejemplares (limpieza previa).")
	}

	res := &Result{DryRun: opts.DryRun}
	err = database.RunTx(db, opts.DryRun, func(tx *gorm.DB) error {
		for {
			row, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				// malformed line: count and keep going
				res.Skipped++
				continue
			}

			titleTxt := cell(row, colTitle)
			if titleTxt == "" {
				res.Skipped++
				continue
			}
			authorTxt := cell(row, colAuthor)
			categoryRaw := cell(row, colCategory)
			stockN := 1
			if colStock >= 0 {
				stockN = ParseStock(cell(row, colStock))
			}

			catFinal := ResolveCategory(categoryRaw, titleTxt)

			if err := importRow(tx, res, titleTxt, authorTxt, catFinal, stockN); err != nil {
				return err
			}
		}
	})
	if err != nil {
		return nil, err
	}

	pref := ""
	if res.DryRun {
		pref = "[DRY-RUN] "
	}
	log.Printf("%sImport listo → títulos creados: %d · actualizados: %d · ejemplares nuevos: %d · filas sin título: %d",
		pref, res.CreatedTitles, res.UpdatedTitles, res.CreatedExemplars, res.Skipped)
	return res, nil
}

func importRow(tx *gorm.DB, res *Result, titleTxt, authorTxt, catName string, stockN int) error {
	var title model.TitleModel
	err := tx.Where("title_name = ?", titleTxt).First(&title).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		title = model.TitleModel{
			TitleName:   titleTxt,
			TitleAuthor: authorTxt,
			TitleKind:   model.TitleKindBook,
		}
		if err := tx.Create(&title).Error; err != nil {
			return err
		}
		res.CreatedTitles++
	case err != nil:
		return err
	default:
		if authorTxt != "" && authorTxt != title.TitleAuthor {
			if err := tx.Model(&title).Update("title_author", authorTxt).Error; err != nil {
				return err
			}
		}
		res.UpdatedTitles++
	}

	// Attach the resolved category without dropping existing ones.
	var cat model.CategoryModel
	if err := tx.Where("category_name = ?", catName).
		FirstOrCreate(&cat, model.CategoryModel{CategoryName: catName}).Error; err != nil {
		return err
	}
	if err := tx.Model(&title).Association("Categories").Append(&cat); err != nil {
		return err
	}

	// Top up exemplars to the requested stock; never delete extras.
	var existing int64
	if err := tx.Model(&model.ExemplarModel{}).
		Where("exemplar_title_id = ?", title.TitleID).
		Count(&existing).Error; err != nil {
		return err
	}
	for i := int64(0); i < int64(stockN)-existing; i++ {
		ej := model.ExemplarModel{
			ExemplarTitleID: title.TitleID,
			ExemplarStatus:  model.ExemplarAvailable,
		}
		if err := tx.Create(&ej).Error; err != nil {
			return err
		}
		res.CreatedExemplars++
	}
	return nil
}

// sniffDelimiter counts candidate delimiters in the sample's first non-empty
// line and keeps the most frequent; comma wins ties.
func sniffDelimiter(sample string) rune {
	line := sample
	for _, l := range strings.Split(sample, "\n") {
		if strings.TrimSpace(l) != "" {
			line = l
			break
		}
	}
	best, bestCount := ',', 0
	for _, cand := range sniffCandidates {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

func resolveColumn(header []string, override string, mapped int) int {
	if strings.TrimSpace(override) != "" {
		return findColumn(header, override)
	}
	return mapped
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return helper.NormStr(row[idx])
}
