package dto

import (
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
)

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryFilter struct {
	Search string `form:"search"`
	commonDto.Pagination
}

type PaginatedCategoryResponse struct {
	Data []CategoryResponse       `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
