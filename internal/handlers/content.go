package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/templegit9/contracker-single/internal/models"
	"github.com/templegit9/contracker-single/internal/services"
)

type ContentRequest struct {
	URL           string `json:"url" binding:"required"`
	Platform      string `json:"platform" binding:"required"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PublishedDate string `json:"publishedDate"`
	Duration      string `json:"duration"`
}

type ContentUpdateRequest struct {
	URL           *string `json:"url"`
	Platform      *string `json:"platform"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	PublishedDate *string `json:"publishedDate"`
	Duration      *string `json:"duration"`
}

func (h *Handler) ListContent(c *gin.Context) {
	items, err := h.contentService.ListContent(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) AddContent(c *gin.Context) {
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform, err := models.ParsePlatform(req.Platform)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	userID := currentUserID(c)
	item, err := h.contentService.AddContentItem(c.Request.Context(), userID, services.ContentInput{
		URL:           req.URL,
		Platform:      platform,
		Name:          req.Name,
		Description:   req.Description,
		PublishedDate: req.PublishedDate,
		Duration:      req.Duration,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(userID, "ADD_CONTENT", item.ID, gin.H{"url": item.URL}, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetContent(c *gin.Context) {
	item, err := h.contentService.GetContentItem(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) UpdateContent(c *gin.Context) {
	var req ContentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := services.ContentUpdate{
		URL:           req.URL,
		Name:          req.Name,
		Description:   req.Description,
		PublishedDate: req.PublishedDate,
		Duration:      req.Duration,
	}
	if req.Platform != nil {
		platform, err := models.ParsePlatform(*req.Platform)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		update.Platform = &platform
	}

	userID := currentUserID(c)
	item, err := h.contentService.UpdateContentItem(c.Request.Context(), userID, c.Param("id"), update)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(userID, "UPDATE_CONTENT", item.ID, nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteContent(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")
	if err := h.contentService.DeleteContentItem(c.Request.Context(), userID, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(userID, "DELETE_CONTENT", id, nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}

func (h *Handler) RefreshContent(c *gin.Context) {
	if err := h.contentService.RefreshItem(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Engagement refreshed"})
}

func (h *Handler) RefreshEngagement(c *gin.Context) {
	if err := h.contentService.RefreshEngagement(c.Request.Context(), currentUserID(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Engagement refreshed"})
}

func (h *Handler) ListEngagement(c *gin.Context) {
	snaps, err := h.contentService.ListSnapshots(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snaps)
}

func (h *Handler) GetContentInfo(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter required"})
		return
	}
	platform, err := models.ParsePlatform(c.Query("platform"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	info, err := h.contentService.FetchContentInfo(c.Request.Context(), currentUserID(c), rawURL, platform)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) ContentQRCode(c *gin.Context) {
	item, err := h.contentService.GetContentItem(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))
	// Stored URLs are normalized and never carry a scheme.
	png, err := services.GenerateQRCode(services.QROptions{
		Content: "https://" + item.URL,
		Size:    size,
		FgColor: c.Query("fg"),
		BgColor: c.Query("bg"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
