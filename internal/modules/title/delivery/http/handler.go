package handler

import (
	"net/http"

	"github.com/fauzanhakim/ratebase/internal/modules/title/dto"
	title "github.com/fauzanhakim/ratebase/internal/modules/title/service"
	"github.com/fauzanhakim/ratebase/pkg/apperror"
	"github.com/fauzanhakim/ratebase/pkg/response"
	"github.com/fauzanhakim/ratebase/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TitleHandler struct {
	service title.TitleService
}

func NewTitleHandler(service title.TitleService) *TitleHandler {
	return &TitleHandler{service: service}
}

func titleID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("title_id"))
	if err != nil {
		return uuid.Nil, apperror.NotFound("title not found")
	}
	return id, nil
}

func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
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

func (h *TitleHandler) List(c *gin.Context) {
	var filter dto.TitleFilter
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

func (h *TitleHandler) Get(c *gin.Context) {
	id, err := titleID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, err := titleID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.AsFieldErrors(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, err := titleID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
