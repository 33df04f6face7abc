// internals/features/library/catalog/model/title_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Title kind: a regular book, or academic work (report/thesis/monograph).
const (
	TitleKindBook = "BOOK"
	TitleKindWork = "WORK"
)

type TitleModel struct {
	// PK
	TitleID uuid.UUID `json:"title_id" gorm:"column:title_id;type:uuid;primaryKey"`

	TitleName   string `json:"title_name" gorm:"column:title_name;type:varchar(200);not null;uniqueIndex:uq_title_name"`
	TitleAuthor string `json:"title_author" gorm:"column:title_author;type:varchar(200)"`
	TitleKind   string `json:"title_kind" gorm:"column:title_kind;type:varchar(10);not null;default:BOOK"`

	// Optional bibliographic data
	TitleEditionPlace string `json:"title_edition_place,omitempty" gorm:"column:title_edition_place;type:varchar(120)"`
	TitlePublisher    string `json:"title_publisher,omitempty" gorm:"column:title_publisher;type:varchar(120)"`
	TitleYear         string `json:"title_year,omitempty" gorm:"column:title_year;type:varchar(10)"`
	TitleEdition      string `json:"title_edition,omitempty" gorm:"column:title_edition;type:varchar(50)"`
	TitleISBN         string `json:"title_isbn,omitempty" gorm:"column:title_isbn;type:varchar(32)"`

	TitleCreatedAt time.Time `json:"title_created_at" gorm:"column:title_created_at;not null;autoCreateTime"`
	TitleUpdatedAt time.Time `json:"title_updated_at" gorm:"column:title_updated_at;not null;autoUpdateTime"`

	// Relations
	Categories []CategoryModel `json:"categories,omitempty" gorm:"many2many:title_categories;foreignKey:TitleID;joinForeignKey:title_id;references:CategoryID;joinReferences:category_id"`
	Exemplars  []ExemplarModel `json:"exemplars,omitempty" gorm:"foreignKey:ExemplarTitleID;references:TitleID;constraint:OnDelete:CASCADE"`
}

func (TitleModel) TableName() string { return "titles" }

func (m *TitleModel) BeforeCreate(tx *gorm.DB) error {
	if m.TitleID == uuid.Nil {
		m.TitleID = uuid.New()
	}
	return nil
}
