package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/house_rental/internal/core/services"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type PropertyHandler struct {
	svc PropertyService
	log logger.Logger
}

func NewPropertyHandler(svc PropertyService, log logger.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, log: log}
}

type maintenanceRequest struct {
	Maintenance *bool `json:"maintenance" binding:"required"`
}

func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var req services.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	property, err := h.svc.CreateProperty(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	property, err := h.svc.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) ListProperties(c *gin.Context) {
	var q services.PropertyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.svc.ListProperties(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	var req services.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	property, err := h.svc.UpdateProperty(c.Request.Context(), c.Param("id"), principalFrom(c), req)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) SetMaintenance(c *gin.Context) {
	var req maintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	property, err := h.svc.SetMaintenance(c.Request.Context(), c.Param("id"), *req.Maintenance, principalFrom(c))
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	if err := h.svc.DeleteProperty(c.Request.Context(), c.Param("id"), principalFrom(c)); err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.Status(http.StatusNoContent)
}
