package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// maxImportBytes bounds uploaded backup files.
const maxImportBytes = 10 << 20

func (h *Handler) ExportData(c *gin.Context) {
	user, err := h.identityService.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	bundle, err := h.contentService.ExportData(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("contracker-export-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, bundle)
}

func (h *Handler) ImportData(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	userID := currentUserID(c)
	if err := h.contentService.ImportData(c.Request.Context(), userID, raw); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(userID, "IMPORT_DATA", "", nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Data imported successfully"})
}
