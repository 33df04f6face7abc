// internals/features/library/catalog/model/exemplar_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Exemplar status. Must mirror the loans table: LOANED exactly while one open
// loan references the exemplar.
const (
	ExemplarAvailable = "AVAILABLE"
	ExemplarLoaned    = "LOANED"
)

type ExemplarModel struct {
	// PK
	ExemplarID uuid.UUID `json:"exemplar_id" gorm:"column:exemplar_id;type:uuid;primaryKey"`

	// FK (owning title; removed together with it)
	ExemplarTitleID uuid.UUID `json:"exemplar_title_id" gorm:"column:exemplar_title_id;type:uuid;not null;index:idx_exemplar_title"`

	// Optional shelf/label code
	ExemplarCode string `json:"exemplar_code,omitempty" gorm:"column:exemplar_code;type:varchar(50)"`

	ExemplarStatus string `json:"exemplar_status" gorm:"column:exemplar_status;type:varchar(10);not null;default:AVAILABLE;index:idx_exemplar_status"`

	ExemplarCreatedAt time.Time `json:"exemplar_created_at" gorm:"column:exemplar_created_at;not null;autoCreateTime"`
	ExemplarUpdatedAt time.Time `json:"exemplar_updated_at" gorm:"column:exemplar_updated_at;not null;autoUpdateTime"`
}

func (ExemplarModel) TableName() string { return "exemplars" }

func (m *ExemplarModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExemplarID == uuid.Nil {
		m.ExemplarID = uuid.New()
	}
	return nil
}
