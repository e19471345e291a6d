package dto

import (
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
)

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type GenreFilter struct {
	Search string `form:"search"`
	commonDto.Pagination
}

type PaginatedGenreResponse struct {
	Data []GenreResponse          `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
