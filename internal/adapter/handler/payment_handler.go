package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/house_rental/internal/core/services"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type PaymentHandler struct {
	svc PaymentService
	log logger.Logger
}

func NewPaymentHandler(svc PaymentService, log logger.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, log: log}
}

func (h *PaymentHandler) SettlePayment(c *gin.Context) {
	var req services.SettlePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.svc.SettlePayment(c.Request.Context(), principalFrom(c).ID, req)
	if err != nil {
		writeError(c, h.log, err, committed(payment))
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// MarkPaid records rent the landlord collected directly. The body is optional.
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	var req services.ManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	payment, err := h.svc.RecordManualPayment(c.Request.Context(), c.Param("bookingId"), principalFrom(c).ID, req)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.svc.ListPayments(c.Request.Context(), principalFrom(c))
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, payments)
}

func (h *PaymentHandler) ListTenants(c *gin.Context) {
	tenants, err := h.svc.ListTenants(c.Request.Context(), principalFrom(c))
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, tenants)
}
