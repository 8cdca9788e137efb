package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/templegit9/contracker-single/internal/models"
	"github.com/templegit9/contracker-single/internal/services"
)

// rememberMeMaxAge keeps the session cookie alive for 30 days.
const rememberMeMaxAge = 30 * 24 * 60 * 60

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identityService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(user.ID, "REGISTER", user.Email, nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func (h *Handler) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identityService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password look the same to the client.
		if errors.Is(err, models.ErrUserNotFound) || errors.Is(err, models.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	opts := sessions.Options{Path: "/", HttpOnly: true}
	if req.RememberMe {
		opts.MaxAge = rememberMeMaxAge
	}
	session.Options(opts)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	h.auditService.LogAction(user.ID, "LOGIN", user.Email, nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user})
}

func (h *Handler) LogoutUser(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) CurrentUser(c *gin.Context) {
	user, err := h.identityService.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identityService.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(user.ID, "UPDATE_PROFILE", "", nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, user)
}

type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	if err := h.identityService.UpdatePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(userID, "UPDATE_PASSWORD", "", nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

type EmailRequest struct {
	Password string `json:"password" binding:"required"`
	NewEmail string `json:"newEmail" binding:"required,email"`
}

func (h *Handler) UpdateEmail(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.identityService.UpdateEmail(c.Request.Context(), currentUserID(c), req.Password, req.NewEmail)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(user.ID, "UPDATE_EMAIL", user.Email, nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, user)
}

func (h *Handler) GenerateNewAPIKey(c *gin.Context) {
	userID := currentUserID(c)
	newKey, err := h.identityService.RegenerateAPIKey(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(userID, "REGENERATE_API_KEY", "", nil, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"apiKey": newKey})
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := currentUserID(c)
	if err := h.identityService.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.auditService.LogAction(userID, "DELETE_ACCOUNT", "", nil, c.ClientIP(), c.Request.UserAgent())

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
