package handler

import (
	"net/http"

	"github.com/fauzanhakim/ratebase/internal/middleware"
	"github.com/fauzanhakim/ratebase/internal/modules/review/dto"
	review "github.com/fauzanhakim/ratebase/internal/modules/review/service"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/fauzanhakim/ratebase/pkg/response"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	service review.ReviewService
}

func NewReviewHandler(service review.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func pathID(c *gin.Context, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NotFound(resource + " not found")
	}
	return id, nil
}

func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, err := pathID(c, "title_id", "title")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.AsFieldErrors(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), middleware.Actor(c), titleID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, err := pathID(c, "title_id", "title")
	if err != nil {
		response.Error(c, err)
		return
	}

	var filter dto.ReviewFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, validator.AsFieldErrors(err))
		return
	}

	resp, err := h.service.List(c.Request.Context(), titleID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, err := pathID(c, "title_id", "title")
	if err != nil {
		response.Error(c, err)
		return
	}
	reviewID, err := pathID(c, "review_id", "review")
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, err := pathID(c, "title_id", "title")
	if err != nil {
		response.Error(c, err)
		return
	}
	reviewID, err := pathID(c, "review_id", "review")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.AsFieldErrors(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), middleware.Actor(c), titleID, reviewID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, err := pathID(c, "title_id", "title")
	if err != nil {
		response.Error(c, err)
		return
	}
	reviewID, err := pathID(c, "review_id", "review")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), titleID, reviewID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
