package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/templegit9/contracker-single/internal/config"
	"github.com/templegit9/contracker-single/internal/models"
	"github.com/templegit9/contracker-single/internal/services"
)

type Handler struct {
	cfg             config.Config
	logger          *slog.Logger
	identityService *services.IdentityService
	contentService  *services.ContentService
	auditService    *services.AuditService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	identityService *services.IdentityService,
	contentService *services.ContentService,
	auditService *services.AuditService,
) *Handler {
	return &Handler{
		cfg:             cfg,
		logger:          logger,
		identityService: identityService,
		contentService:  contentService,
		auditService:    auditService,
	}
}

// currentUserID reads the user id stored by AuthRequired.
func currentUserID(c *gin.Context) string {
	id, _ := c.Get("user_id")
	s, _ := id.(string)
	return s
}

// handleServiceError translates service errors into HTTP responses.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrEmailInUse),
		errors.Is(err, models.ErrDuplicateURL):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrMissingConfig),
		errors.Is(err, models.ErrInvalidFormat),
		errors.Is(err, models.ErrUnknownPlatform):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
