package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type ReconciliationHandler struct {
	svc ReconciliationService
	log logger.Logger
}

func NewReconciliationHandler(svc ReconciliationService, log logger.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{svc: svc, log: log}
}

// Scan runs a scan on demand. Findings are reported, never repaired.
func (h *ReconciliationHandler) Scan(c *gin.Context) {
	report, err := h.svc.Scan(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, report)
}
