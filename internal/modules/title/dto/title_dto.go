package dto

import (
	"github.com/fauzanhakim/ratebase/internal/entity"
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
	"github.com/google/uuid"
)

type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genres"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genres"`
}

type CategoryRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TitleResponse struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Year        int          `json:"year"`
	Rating      float64      `json:"rating"`
	Description string       `json:"description"`
	Genres      []GenreRef   `json:"genres"`
	Category    *CategoryRef `json:"category"`
}

func NewTitleResponse(t *entity.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genres:      make([]GenreRef, 0, len(t.Genres)),
	}
	for _, genre := range t.Genres {
		resp.Genres = append(resp.Genres, GenreRef{Name: genre.Name, Slug: genre.Slug})
	}
	if t.Category != nil {
		resp.Category = &CategoryRef{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	return resp
}

// TitleFilter matches the catalog list query parameters: substring match
// on category slug, genre slug and name, exact match on year.
type TitleFilter struct {
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
	commonDto.Pagination
}

type PaginatedTitleResponse struct {
	Data []TitleResponse          `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
