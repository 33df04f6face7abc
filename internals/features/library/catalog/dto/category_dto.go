// internals/features/library/catalog/dto/category_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	model "biblioteca_backend/internals/features/library/catalog/model"
)

type CategoryCreateRequest struct {
	CategoryName string `json:"category_name" validate:"required,min=2,max=100"`
}

func (r *CategoryCreateRequest) Normalize() {
	r.CategoryName = strings.TrimSpace(r.CategoryName)
}

type CategoryResponse struct {
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Created      bool      `json:"created"`
}

func ToCategoryResponse(m *model.CategoryModel, created bool) *CategoryResponse {
	return &CategoryResponse{
		CategoryID:   m.CategoryID,
		CategoryName: m.CategoryName,
		Created:      created,
	}
}
