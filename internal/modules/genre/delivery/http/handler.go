package handler

import (
	"net/http"

	"github.com/fauzanhakim/ratebase/internal/modules/genre/dto"
	genre "github.com/fauzanhakim/ratebase/internal/modules/genre/service"
	"github.com/fauzanhakim/ratebase/pkg/response"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	service genre.GenreService
}

func NewGenreHandler(service genre.GenreService) *GenreHandler {
	return &GenreHandler{service: service}
}

func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.AsFieldErrors(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *GenreHandler) List(c *gin.Context) {
	var filter dto.GenreFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, validator.AsFieldErrors(err))
		return
	}

	resp, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
