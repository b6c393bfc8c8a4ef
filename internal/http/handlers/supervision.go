package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
)

type SupervisionHandler struct {
	log         *logger.Logger
	supvService services.SupervisionService
}

func NewSupervisionHandler(log *logger.Logger, supvService services.SupervisionService) *SupervisionHandler {
	handlerLogger := log.With("handler", "SupervisionHandler")
	return &SupervisionHandler{log: handlerLogger, supvService: supvService}
}

// GET /supervisors
func (h *SupervisionHandler) ListSupervisors(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		categoryID = &id
	}
	supervisors, err := h.supvService.ListSupervisors(c.Request.Context(), categoryID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"supervisors": supervisors})
}

// POST /supervisions
func (h *SupervisionHandler) Create(c *gin.Context) {
	var input services.CreateSupervisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	supervision, err := h.supvService.Create(c.Request.Context(), input)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"supervision": supervision})
}

// GET /supervisors/:id
func (h *SupervisionHandler) GetSupervisor(c *gin.Context) {
	supervisorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	supervisor, err := h.supvService.GetSupervisor(c.Request.Context(), supervisorID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"supervisor": supervisor})
}

// GET /supervisions
func (h *SupervisionHandler) List(c *gin.Context) {
	supervisions, err := h.supvService.List(c.Request.Context(), c.Query("status"), c.Query("requested"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"supervisions": supervisions})
}

// GET /supervisions/:id
func (h *SupervisionHandler) Get(c *gin.Context) {
	supervisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	supervision, err := h.supvService.Get(c.Request.Context(), supervisionID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"supervision": supervision})
}

// PATCH /supervisions/:id
func (h *SupervisionHandler) Respond(c *gin.Context) {
	supervisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	supervision, err := h.supvService.Respond(c.Request.Context(), supervisionID, req.Status)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"supervision": supervision})
}

// POST /groups/:id/supervision-comments
func (h *SupervisionHandler) AddComment(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	comment, err := h.supvService.AddComment(c.Request.Context(), groupID, req.Text)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"comment": comment})
}

// GET /groups/:id/supervision-comments
func (h *SupervisionHandler) ListComments(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	comments, err := h.supvService.ListComments(c.Request.Context(), groupID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"comments": comments})
}
