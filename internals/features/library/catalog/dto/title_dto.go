// internals/features/library/catalog/dto/title_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	model "biblioteca_backend/internals/features/library/catalog/model"
)

/* =========================
   REQUESTS
========================= */

type TitleCreateRequest struct {
	TitleName   string `json:"title_name" validate:"required,min=2,max=200"`
	TitleAuthor string `json:"title_author" validate:"omitempty,max=200"`
	TitleKind   string `json:"title_kind" validate:"omitempty,oneof=BOOK WORK"`

	TitleEditionPlace string `json:"title_edition_place" validate:"omitempty,max=120"`
	TitlePublisher    string `json:"title_publisher" validate:"omitempty,max=120"`
	TitleYear         string `json:"title_year" validate:"omitempty,max=10"`
	TitleEdition      string `json:"title_edition" validate:"omitempty,max=50"`
	TitleISBN         string `json:"title_isbn" validate:"omitempty,max=32"`

	CategoryIDs []uuid.UUID `json:"category_ids" validate:"omitempty,dive,uuid4|uuid"`
}

func (r *TitleCreateRequest) Normalize() {
	r.TitleName = strings.TrimSpace(r.TitleName)
	r.TitleAuthor = strings.TrimSpace(r.TitleAuthor)
	r.TitleKind = strings.ToUpper(strings.TrimSpace(r.TitleKind))
	if r.TitleKind == "" {
		r.TitleKind = model.TitleKindBook
	}
	r.TitleEditionPlace = strings.TrimSpace(r.TitleEditionPlace)
	r.TitlePublisher = strings.TrimSpace(r.TitlePublisher)
	r.TitleYear = strings.TrimSpace(r.TitleYear)
	r.TitleEdition = strings.TrimSpace(r.TitleEdition)
	r.TitleISBN = strings.TrimSpace(r.TitleISBN)
}

func (r *TitleCreateRequest) ToModel() *model.TitleModel {
	return &model.TitleModel{
		TitleName:         r.TitleName,
		TitleAuthor:       r.TitleAuthor,
		TitleKind:         r.TitleKind,
		TitleEditionPlace: r.TitleEditionPlace,
		TitlePublisher:    r.TitlePublisher,
		TitleYear:         r.TitleYear,
		TitleEdition:      r.TitleEdition,
		TitleISBN:         r.TitleISBN,
	}
}

type TitleUpdateRequest struct {
	TitleName   *string `json:"title_name" validate:"omitempty,min=2,max=200"`
	TitleAuthor *string `json:"title_author" validate:"omitempty,max=200"`
	TitleKind   *string `json:"title_kind" validate:"omitempty,oneof=BOOK WORK"`

	TitleEditionPlace *string `json:"title_edition_place" validate:"omitempty,max=120"`
	TitlePublisher    *string `json:"title_publisher" validate:"omitempty,max=120"`
	TitleYear         *string `json:"title_year" validate:"omitempty,max=10"`
	TitleEdition      *string `json:"title_edition" validate:"omitempty,max=50"`
	TitleISBN         *string `json:"title_isbn" validate:"omitempty,max=32"`

	CategoryIDs *[]uuid.UUID `json:"category_ids"`
}

func (r *TitleUpdateRequest) Normalize() {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(r.TitleName)
	trim(r.TitleAuthor)
	trim(r.TitleEditionPlace)
	trim(r.TitlePublisher)
	trim(r.TitleYear)
	trim(r.TitleEdition)
	trim(r.TitleISBN)
	if r.TitleKind != nil {
		k := strings.ToUpper(strings.TrimSpace(*r.TitleKind))
		r.TitleKind = &k
	}
}

func (r *TitleUpdateRequest) ApplyToModel(m *model.TitleModel) {
	if r.TitleName != nil {
		m.TitleName = *r.TitleName
	}
	if r.TitleAuthor != nil {
		m.TitleAuthor = *r.TitleAuthor
	}
	if r.TitleKind != nil && *r.TitleKind != "" {
		m.TitleKind = *r.TitleKind
	}
	if r.TitleEditionPlace != nil {
		m.TitleEditionPlace = *r.TitleEditionPlace
	}
	if r.TitlePublisher != nil {
		m.TitlePublisher = *r.TitlePublisher
	}
	if r.TitleYear != nil {
		m.TitleYear = *r.TitleYear
	}
	if r.TitleEdition != nil {
		m.TitleEdition = *r.TitleEdition
	}
	if r.TitleISBN != nil {
		m.TitleISBN = *r.TitleISBN
	}
}

/* =========================
   RESPONSES
========================= */

type TitleResponse struct {
	TitleID     uuid.UUID `json:"title_id"`
	TitleName   string    `json:"title_name"`
	TitleAuthor string    `json:"title_author"`
	TitleKind   string    `json:"title_kind"`

	TitleEditionPlace string `json:"title_edition_place,omitempty"`
	TitlePublisher    string `json:"title_publisher,omitempty"`
	TitleYear         string `json:"title_year,omitempty"`
	TitleEdition      string `json:"title_edition,omitempty"`
	TitleISBN         string `json:"title_isbn,omitempty"`

	Categories []string `json:"categories"`
	Available  int64    `json:"available"`
	Loaned     int64    `json:"loaned"`
}

func ToTitleResponse(m *model.TitleModel, available, loaned int64) *TitleResponse {
	cats := make([]string, 0, len(m.Categories))
	for _, c := range m.Categories {
		cats = append(cats, c.CategoryName)
	}
	return &TitleResponse{
		TitleID:           m.TitleID,
		TitleName:         m.TitleName,
		TitleAuthor:       m.TitleAuthor,
		TitleKind:         m.TitleKind,
		TitleEditionPlace: m.TitleEditionPlace,
		TitlePublisher:    m.TitlePublisher,
		TitleYear:         m.TitleYear,
		TitleEdition:      m.TitleEdition,
		TitleISBN:         m.TitleISBN,
		Categories:        cats,
		Available:         available,
		Loaned:            loaned,
	}
}
