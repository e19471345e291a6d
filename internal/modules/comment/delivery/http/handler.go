package handler

import (
	"net/http"

	"github.com/fauzanhakim/ratebase/internal/middleware"
	"github.com/fauzanhakim/ratebase/internal/modules/comment/dto"
	comment "github.com/fauzanhakim/ratebase/internal/modules/comment/service"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/fauzanhakim/ratebase/pkg/response"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentHandler struct {
	service comment.CommentService
}

func NewCommentHandler(service comment.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

func pathID(c *gin.Context, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(resource + " not found")
	}
	return id, nil
}

func scopeIDs(c *gin.Context) (titleID, reviewID uuid.UUID, err error) {
	titleID, err = pathID(c, "title_id", "title")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	reviewID, err = pathID(c, "review_id", "review")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return titleID, reviewID, nil
}

func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, err := scopeIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.AsFieldErrors(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.Actor(c), titleID, reviewID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, err := scopeIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var filter dto.CommentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, validator.AsFieldErrors(err))
		return
	}

	resp, err := h.service.List(c.Request.Context(), titleID, reviewID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, err := scopeIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	commentID, err := pathID(c, "comment_id", "comment")
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, err := scopeIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	commentID, err := pathID(c, "comment_id", "comment")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.AsFieldErrors(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), middleware.Actor(c), titleID, reviewID, commentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, err := scopeIDs(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	commentID, err := pathID(c, "comment_id", "comment")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), titleID, reviewID, commentID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
