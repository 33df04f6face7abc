// internals/features/library/catalog/dto/exemplar_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	model "biblioteca_backend/internals/features/library/catalog/model"
)

type ExemplarCreateRequest struct {
	ExemplarTitleID uuid.UUID `json:"exemplar_title_id" validate:"required"`
	ExemplarCode    string    `json:"exemplar_code" validate:"omitempty,max=50"`
}

func (r *ExemplarCreateRequest) Normalize() {
	r.ExemplarCode = strings.TrimSpace(r.ExemplarCode)
}

type ExemplarResponse struct {
	ExemplarID      uuid.UUID `json:"exemplar_id"`
	ExemplarTitleID uuid.UUID `json:"exemplar_title_id"`
	ExemplarCode    string    `json:"exemplar_code,omitempty"`
	ExemplarStatus  string    `json:"exemplar_status"`
}

func ToExemplarResponse(m *model.ExemplarModel) *ExemplarResponse {
	return &ExemplarResponse{
		ExemplarID:      m.ExemplarID,
		ExemplarTitleID: m.ExemplarTitleID,
		ExemplarCode:    m.ExemplarCode,
		ExemplarStatus:  m.ExemplarStatus,
	}
}
