package dto

import (
	"time"

	"github.com/fauzanhakim/ratebase/internal/entity"
	commonDto "github.com/fauzanhakim/ratebase/pkg/dto"
	"github.com/google/uuid"
)

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

type CommentResponse struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func NewCommentResponse(comment *entity.Comment) CommentResponse {
	resp := CommentResponse{
		ID:      comment.ID,
		Text:    comment.Text,
		PubDate: comment.PubDate,
	}
	if comment.Author != nil {
		resp.Author = comment.Author.Username
	}
	return resp
}

type CommentFilter struct {
	commonDto.Pagination
}

type PaginatedCommentResponse struct {
	Data []CommentResponse        `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
