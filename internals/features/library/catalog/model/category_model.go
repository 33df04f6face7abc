// internals/features/library/catalog/model/category_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategoryName is the sentinel category: no Title is ever left without
// a category, "Otros" catches whatever has none.
const DefaultCategoryName = "Otros"

type CategoryModel struct {
	// PK
	CategoryID uuid.UUID `json:"category_id" gorm:"column:category_id;type:uuid;primaryKey"`

	CategoryName string `json:"category_name" gorm:"column:category_name;type:varchar(100);not null;uniqueIndex:uq_category_name"`

	CategoryCreatedAt time.Time `json:"category_created_at" gorm:"column:category_created_at;not null;autoCreateTime"`
}

func (CategoryModel) TableName() string { return "categories" }

func (m *CategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.CategoryID == uuid.Nil {
		m.CategoryID = uuid.New()
	}
	return nil
}
