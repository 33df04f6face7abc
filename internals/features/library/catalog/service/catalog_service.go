// internals/features/library/catalog/service/catalog_service.go
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "biblioteca_backend/internals/features/library/catalog/model"
	loanModel "biblioteca_backend/internals/features/library/loans/model"
	helper "biblioteca_backend/internals/helpers"
)

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// EnsureDefaultCategory makes sure the sentinel category "Otros" exists.
// Idempotent; called from the bootstrap sequence right after migration.
func EnsureDefaultCategory(db *gorm.DB) (*model.CategoryModel, error) {
	var cat model.CategoryModel
	err := db.Where("category_name = ?", model.DefaultCategoryName).
		FirstOrCreate(&cat, model.CategoryModel{CategoryName: model.DefaultCategoryName}).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

/* =========================================================
   Titles
========================================================= */

// CreateTitle inserts the title, attaches its categories and guarantees the
// two catalog invariants in one transaction: every new title starts with at
// least one AVAILABLE exemplar, and a title with no category gets "Otros".
func (s *CatalogService) CreateTitle(m *model.TitleModel, categoryIDs []uuid.UUID) (*model.TitleModel, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.TitleModel{}).
			Where("title_name = ?", m.TitleName).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return fmt.Errorf("ya existe un título con ese nombre: %w", helper.ErrConflict)
		}

		if err := tx.Create(m).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("ya existe un título con ese nombre: %w", helper.ErrConflict)
			}
			return err
		}

		if len(categoryIDs) > 0 {
			var cats []model.CategoryModel
			if err := tx.Where("category_id IN ?", categoryIDs).Find(&cats).Error; err != nil {
				return err
			}
			if len(cats) != len(categoryIDs) {
				return fmt.Errorf("categoría: %w", helper.ErrNotFound)
			}
			if err := tx.Model(m).Association("Categories").Append(&cats); err != nil {
				return err
			}
		}

		attached := tx.Model(m).Association("Categories").Count()
		if attached == 0 {
			otros, err := EnsureDefaultCategory(tx)
			if err != nil {
				return err
			}
			if err := tx.Model(m).Association("Categories").Append(otros); err != nil {
				return err
			}
		}

		// First-copy guarantee: stock inicial 1.
		var nEj int64
		if err := tx.Model(&model.ExemplarModel{}).
			Where("exemplar_title_id = ?", m.TitleID).
			Count(&nEj).Error; err != nil {
			return err
		}
		if nEj == 0 {
			ej := &model.ExemplarModel{
				ExemplarTitleID: m.TitleID,
				ExemplarStatus:  model.ExemplarAvailable,
			}
			if err := tx.Create(ej).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTitle(m.TitleID)
}

// GetTitle loads a title with its categories.
func (s *CatalogService) GetTitle(id uuid.UUID) (*model.TitleModel, error) {
	var m model.TitleModel
	if err := s.DB.Preload("Categories").First(&m, "title_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("título: %w", helper.ErrNotFound)
		}
		return nil, err
	}
	return &m, nil
}

// UpdateTitle saves the already-mutated model, re-checking name uniqueness
// and optionally replacing the category set (empty set falls back to Otros).
func (s *CatalogService) UpdateTitle(m *model.TitleModel, categoryIDs *[]uuid.UUID) (*model.TitleModel, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.TitleModel{}).
			Where("title_name = ? AND title_id <> ?", m.TitleName, m.TitleID).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return fmt.Errorf("ya existe un título con ese nombre: %w", helper.ErrConflict)
		}
		if err := tx.Omit("Categories", "Exemplars").Save(m).Error; err != nil {
			return err
		}

		if categoryIDs != nil {
			var cats []model.CategoryModel
			if len(*categoryIDs) > 0 {
				if err := tx.Where("category_id IN ?", *categoryIDs).Find(&cats).Error; err != nil {
					return err
				}
				if len(cats) != len(*categoryIDs) {
					return fmt.Errorf("categoría: %w", helper.ErrNotFound)
				}
			}
			if err := tx.Model(m).Association("Categories").Replace(&cats); err != nil {
				return err
			}
			if tx.Model(m).Association("Categories").Count() == 0 {
				otros, err := EnsureDefaultCategory(tx)
				if err != nil {
					return err
				}
				if err := tx.Model(m).Association("Categories").Append(otros); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTitle(m.TitleID)
}

// DeleteTitle removes the title and its exemplars. A title whose exemplars
// appear in any loan (open or historical) is protected.
func (s *CatalogService) DeleteTitle(id uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var m model.TitleModel
		if err := tx.First(&m, "title_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("título: %w", helper.ErrNotFound)
			}
			return err
		}

		var nLoans int64
		if err := tx.Model(&loanModel.LoanModel{}).
			Where("loan_exemplar_id IN (?)",
				tx.Model(&model.ExemplarModel{}).
					Select("exemplar_id").
					Where("exemplar_title_id = ?", id)).
			Count(&nLoans).Error; err != nil {
			return err
		}
		if nLoans > 0 {
			return fmt.Errorf("el título tiene préstamos asociados: %w", helper.ErrConflict)
		}

		if err := tx.Model(&m).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&model.ExemplarModel{}, "exemplar_title_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.TitleModel{}, "title_id = ?", id).Error
	})
}

/* =========================================================
   Categories
========================================================= */

// CreateCategory is get-or-create by exact name; the bool reports whether a
// new row was inserted.
func (s *CatalogService) CreateCategory(name string) (*model.CategoryModel, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, helper.NewValidationError("category_name", "El nombre es obligatorio.")
	}
	var cat model.CategoryModel
	res := s.DB.Where("category_name = ?", name).
		FirstOrCreate(&cat, model.CategoryModel{CategoryName: name})
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &cat, res.RowsAffected > 0, nil
}

// DeleteCategory detaches the category from every title, reassigning "Otros"
// to titles left bare, then deletes the row. The sentinel itself is
// protected.
func (s *CatalogService) DeleteCategory(id uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var cat model.CategoryModel
		if err := tx.First(&cat, "category_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("categoría: %w", helper.ErrNotFound)
			}
			return err
		}
		if cat.CategoryName == model.DefaultCategoryName {
			return fmt.Errorf("la categoría 'Otros' no se puede eliminar: %w", helper.ErrForbidden)
		}

		otros, err := EnsureDefaultCategory(tx)
		if err != nil {
			return err
		}

		var titles []model.TitleModel
		if err := tx.
			Joins("JOIN title_categories tc ON tc.title_id = titles.title_id").
			Where("tc.category_id = ?", cat.CategoryID).
			Find(&titles).Error; err != nil {
			return err
		}
		for i := range titles {
			if err := tx.Model(&titles[i]).Association("Categories").Delete(&cat); err != nil {
				return err
			}
			if tx.Model(&titles[i]).Association("Categories").Count() == 0 {
				if err := tx.Model(&titles[i]).Association("Categories").Append(otros); err != nil {
					return err
				}
			}
		}

		return tx.Delete(&model.CategoryModel{}, "category_id = ?", cat.CategoryID).Error
	})
}

/* =========================================================
   Exemplars
========================================================= */

// CreateExemplar adds one AVAILABLE copy to an existing title.
func (s *CatalogService) CreateExemplar(titleID uuid.UUID, code string) (*model.ExemplarModel, error) {
	var ej *model.ExemplarModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.TitleModel{}).
			Where("title_id = ?", titleID).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return fmt.Errorf("título: %w", helper.ErrNotFound)
		}
		ej = &model.ExemplarModel{
			ExemplarTitleID: titleID,
			ExemplarCode:    strings.TrimSpace(code),
			ExemplarStatus:  model.ExemplarAvailable,
		}
		return tx.Create(ej).Error
	})
	if err != nil {
		return nil, err
	}
	return ej, nil
}

// DeleteExemplar removes one copy. Any referencing loan — open or returned —
// protects the row.
func (s *CatalogService) DeleteExemplar(id uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var ej model.ExemplarModel
		if err := tx.First(&ej, "exemplar_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("ejemplar: %w", helper.ErrNotFound)
			}
			return err
		}
		var nLoans int64
		if err := tx.Model(&loanModel.LoanModel{}).
			Where("loan_exemplar_id = ?", id).
			Count(&nLoans).Error; err != nil {
			return err
		}
		if nLoans > 0 {
			return fmt.Errorf("el ejemplar tiene préstamos asociados: %w", helper.ErrConflict)
		}
		return tx.Delete(&model.ExemplarModel{}, "exemplar_id = ?", id).Error
	})
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
