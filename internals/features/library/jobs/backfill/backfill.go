// internals/features/library/jobs/backfill/backfill.go
//
// One-time migration: loans written before the exemplar model exist with a
// NULL exemplar reference and one of three legacy shapes (a direct title id,
// a free-text title, or the older free-text column). The job links each such
// loan to an exemplar, creating one when the title has none.
package backfill

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "biblioteca_backend/internals/databases"
	catalogModel "biblioteca_backend/internals/features/library/catalog/model"
	model "biblioteca_backend/internals/features/library/loans/model"
	helper "biblioteca_backend/internals/helpers"
)

type Result struct {
	Assigned  int  `json:"assigned"`
	Created   int  `json:"created"`
	Unmatched int  `json:"unmatched"`
	DryRun    bool `json:"dry_run"`
}

// legacyRef is the tagged union of pre-migration loan shapes, decided once
// per row at load time.
type legacyRefKind int

const (
	refUnresolved legacyRefKind = iota
	refTitleID
	refTitleText
	refAltTitleText
)

type legacyRef struct {
	kind    legacyRefKind
	titleID uuid.UUID
	text    string
}

func resolveLegacyRef(l *model.LoanModel) legacyRef {
	if l.LoanLegacyTitleID != nil && *l.LoanLegacyTitleID != uuid.Nil {
		return legacyRef{kind: refTitleID, titleID: *l.LoanLegacyTitleID}
	}
	if l.LoanLegacyTitleText != nil && strings.TrimSpace(*l.LoanLegacyTitleText) != "" {
		return legacyRef{kind: refTitleText, text: strings.TrimSpace(*l.LoanLegacyTitleText)}
	}
	if l.LoanLegacyBookText != nil && strings.TrimSpace(*l.LoanLegacyBookText) != "" {
		return legacyRef{kind: refAltTitleText, text: strings.TrimSpace(*l.LoanLegacyBookText)}
	}
	return legacyRef{kind: refUnresolved}
}

// Run links an exemplar to every loan with a NULL exemplar reference. The
// whole batch is one transaction; dry-run rolls it back while keeping the
// counters a real run would report. Unresolved rows never fail the batch.
func Run(db *gorm.DB, dryRun bool) (*Result, error) {
	res := &Result{DryRun: dryRun}

	err := database.RunTx(db, dryRun, func(tx *gorm.DB) error {
		// Name lookup is case- and accent-insensitive ("El Principe" must
		// find "El príncipe"), so index all titles by normalized name.
		var titles []catalogModel.TitleModel
		if err := tx.Find(&titles).Error; err != nil {
			return err
		}
		byNorm := make(map[string]*catalogModel.TitleModel, len(titles))
		byID := make(map[uuid.UUID]*catalogModel.TitleModel, len(titles))
		for i := range titles {
			byNorm[helper.NormText(titles[i].TitleName)] = &titles[i]
			byID[titles[i].TitleID] = &titles[i]
		}

		var loans []model.LoanModel
		if err := tx.Where("loan_exemplar_id IS NULL").Find(&loans).Error; err != nil {
			return err
		}

		for i := range loans {
			loan := &loans[i]

			var title *catalogModel.TitleModel
			switch ref := resolveLegacyRef(loan); ref.kind {
			case refTitleID:
				title = byID[ref.titleID]
			case refTitleText, refAltTitleText:
				title = byNorm[helper.NormText(ref.text)]
			}
			if title == nil {
				res.Unmatched++
				continue
			}

			var ej catalogModel.ExemplarModel
			err := tx.Where("exemplar_title_id = ?", title.TitleID).
				Order("exemplar_created_at").
				First(&ej).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// A still-open legacy loan means the new exemplar is born
				// LOANED; a returned one is born AVAILABLE.
				status := catalogModel.ExemplarLoaned
				if loan.LoanStatus == model.LoanReturned {
					status = catalogModel.ExemplarAvailable
				}
				ej = catalogModel.ExemplarModel{
					ExemplarTitleID: title.TitleID,
					ExemplarStatus:  status,
				}
				if err := tx.Create(&ej).Error; err != nil {
					return err
				}
				res.Created++
			} else if err != nil {
				return err
			}

			if err := tx.Model(&model.LoanModel{}).
				Where("loan_id = ?", loan.LoanID).
				Update("loan_exemplar_id", ej.ExemplarID).Error; err != nil {
				return err
			}
			res.Assigned++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
