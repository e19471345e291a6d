package dto

import (
	"time"

	"github.com/fauzanhakim/ratebase/internal/entity"
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type ReviewResponse struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func NewReviewResponse(r *entity.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
	if r.Author != nil {
		resp.Author = r.Author.Username
	}
	return resp
}

type ReviewFilter struct {
	commonDto.Pagination
}

type PaginatedReviewResponse struct {
	Data []ReviewResponse         `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
