package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/templegit9/contracker-single/internal/models"
)

func (h *Handler) GetSettings(c *gin.Context) {
	cfg, err := h.contentService.GetAPIConfig(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var cfg models.APIConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	if err := h.contentService.UpdateAPIConfig(c.Request.Context(), userID, cfg); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(userID, "UPDATE_SETTINGS", "", nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}
