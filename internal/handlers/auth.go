package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskmasterpro/taskmaster-api/internal/dto"
	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/middleware"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
	"github.com/taskmasterpro/taskmaster-api/internal/services"
)

// AuthHandler serves the profile sync endpoints and the confirmation
// email trigger. Authentication itself happens at the identity
// provider; these endpoints manage the local user row.
type AuthHandler struct {
	users  repository.UserRepository
	mailer *services.MailerService
}

func NewAuthHandler(users repository.UserRepository, mailer *services.MailerService) *AuthHandler {
	return &AuthHandler{users: users, mailer: mailer}
}

// GetProfile returns the local profile for the authenticated identity.
// Unlike the sync endpoint it does not create the row.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.users.FindByEmail(ident.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Profile not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

type syncProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// SyncProfile creates or updates the local user row from the identity
// provider's view, with optional overrides from the request body.
func (h *AuthHandler) SyncProfile(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req syncProfileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	name := req.Name
	if name == nil && ident.Name != "" {
		name = &ident.Name
	}
	avatar := req.Avatar
	if avatar == nil && ident.Avatar != "" {
		avatar = &ident.Avatar
	}

	user, err := h.users.FindOrCreateByEmail(ident.Email, name, avatar)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	changed := false
	if name != nil && (user.Name == nil || *user.Name != *name) {
		user.Name = name
		changed = true
	}
	if avatar != nil && (user.Avatar == nil || *user.Avatar != *avatar) {
		user.Avatar = avatar
		changed = true
	}
	if changed {
		if err := h.users.Update(user); err != nil {
			apierrors.InternalError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

type sendConfirmationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// SendConfirmation sends the signup confirmation email.
func (h *AuthHandler) SendConfirmation(c *gin.Context) {
	if h.mailer == nil {
		apierrors.ServiceUnavailable(c, "Email delivery is not configured")
		return
	}

	var req sendConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "A valid email is required")
		return
	}

	messageID, err := h.mailer.SendConfirmation(req.Email, req.Name)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message_id": messageID})
}
