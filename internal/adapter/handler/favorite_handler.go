package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/srgjo27/house_rental/internal/platform/logger"
)

type FavoriteHandler struct {
	svc FavoriteService
	log logger.Logger
}

func NewFavoriteHandler(svc FavoriteService, log logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{svc: svc, log: log}
}

func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	set, added, err := h.svc.ToggleFavorite(c.Request.Context(), principalFrom(c).ID, c.Param("propertyId"))
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer_id": set.CustomerID,
		"favorites":   set.PropertyIDs,
		"added":       added,
	})
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	properties, err := h.svc.ListFavorites(c.Request.Context(), principalFrom(c).ID)
	if err != nil {
		writeError(c, h.log, err, nil)
		return
	}

	c.JSON(http.StatusOK, properties)
}
