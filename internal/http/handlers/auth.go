package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	handlerLogger := log.With("handler", "AuthHandler")
	return &AuthHandler{log: handlerLogger, authService: authService}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) login(c *gin.Context, role string) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	access, refresh, err := h.authService.Login(c.Request.Context(), role, req.Username, req.Password)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// POST /login/student
func (h *AuthHandler) LoginStudent(c *gin.Context) {
	h.login(c, types.RoleStudent)
}

// POST /login/supervisor
func (h *AuthHandler) LoginSupervisor(c *gin.Context) {
	h.login(c, types.RoleSupervisor)
}

// POST /login/committee
func (h *AuthHandler) LoginCommitteeMember(c *gin.Context) {
	h.login(c, types.RoleCommitteeMember)
}

// POST /register/student
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var input services.RegisterStudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	student, err := h.authService.RegisterStudent(c.Request.Context(), input)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"student": student})
}

// POST /register/supervisor
func (h *AuthHandler) RegisterSupervisor(c *gin.Context) {
	var input services.RegisterSupervisorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	supervisor, err := h.authService.RegisterSupervisor(c.Request.Context(), input)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"supervisor": supervisor})
}

// POST /register/committee
func (h *AuthHandler) RegisterCommitteeMember(c *gin.Context) {
	var input services.RegisterCommitteeMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	member, err := h.authService.RegisterCommitteeMember(c.Request.Context(), input)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"committee_member": member})
}

// POST /refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	access, refresh, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"logged_out": true})
}

// POST /password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"changed": true})
}
