package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/house_rental/internal/core/services"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type CustomerHandler struct {
	svc CustomerService
	log logger.Logger
}

func NewCustomerHandler(svc CustomerService, log logger.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, log: log}
}

func (h *CustomerHandler) RegisterCustomer(c *gin.Context) {
	var req services.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customer, err := h.svc.RegisterCustomer(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Me(c *gin.Context) {
	customer, err := h.svc.GetCustomer(c.Request.Context(), principalFrom(c).ID)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, customer)
}
