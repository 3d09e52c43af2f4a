package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/house_rental/internal/core/services"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type BookingHandler struct {
	svc BookingService
	log logger.Logger
}

func NewBookingHandler(svc BookingService, log logger.Logger) *BookingHandler {
	return &BookingHandler{svc: svc, log: log}
}

type setStatusRequest struct {
	Status string `json:"booking_status" binding:"required"`
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	booking, err := h.svc.CreateBooking(c.Request.Context(), principalFrom(c).ID, req)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	var q services.BookingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	bookings, err := h.svc.ListBookings(c.Request.Context(), principalFrom(c), q)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.svc.GetBooking(c.Request.Context(), c.Param("id"), principalFrom(c))
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	booking, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status, principalFrom(c))
	if err != nil {
		writeError(c, h.log, err, committed(booking))
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) EndBooking(c *gin.Context) {
	booking, err := h.svc.EndBooking(c.Request.Context(), c.Param("id"), principalFrom(c).ID)
	if err != nil {
		writeError(c, h.log, err, committed(booking))
		return
	}

	c.JSON(http.StatusOK, booking)
}
