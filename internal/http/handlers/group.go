package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fypms/backend/internal/data/repos"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
)

var errStatusOrCategoryRequired = errors.New("status or category_id is required")

type GroupHandler struct {
	log          *logger.Logger
	groupService services.GroupService
}

func NewGroupHandler(log *logger.Logger, groupService services.GroupService) *GroupHandler {
	handlerLogger := log.With("handler", "GroupHandler")
	return &GroupHandler{log: handlerLogger, groupService: groupService}
}

// GET /students
func (h *GroupHandler) ListStudents(c *gin.Context) {
	filter := repos.StudentFilter{
		Department: c.Query("department"),
		Semester:   c.Query("semester"),
		BatchNo:    c.Query("batch_no"),
	}
	forRequest := c.Query("for_request") == "true"
	students, err := h.groupService.ListStudents(c.Request.Context(), filter, forRequest)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"students": students})
}

// POST /groups
func (h *GroupHandler) SendRequest(c *gin.Context) {
	var input services.SendGroupRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	group, err := h.groupService.SendRequest(c.Request.Context(), input)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"group": group})
}

// GET /groups
func (h *GroupHandler) ListMine(c *gin.Context) {
	groups, err := h.groupService.ListMine(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"groups": groups})
}

// GET /groups/:id
func (h *GroupHandler) Get(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	group, err := h.groupService.Get(c.Request.Context(), groupID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"group": group})
}

// PATCH /groups/:id
//
// Accepts either a status transition or, for the initiator of a pending
// request, a category change.
func (h *GroupHandler) Respond(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	var req struct {
		Status     string     `json:"status"`
		CategoryID *uuid.UUID `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}

	var group *types.Group
	switch {
	case req.Status != "":
		group, err = h.groupService.Respond(c.Request.Context(), groupID, req.Status)
	case req.CategoryID != nil:
		group, err = h.groupService.UpdateCategory(c.Request.Context(), groupID, *req.CategoryID)
	default:
		response.RespondError(c, http.StatusBadRequest, "validation", errStatusOrCategoryRequired)
		return
	}
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"group": group})
}

// POST /groups/:id/comments
func (h *GroupHandler) AddComment(c *gin.Context) {
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
	comment, err := h.groupService.AddComment(c.Request.Context(), groupID, req.Text)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"comment": comment})
}

// GET /groups/:id/comments
func (h *GroupHandler) ListComments(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	comments, err := h.groupService.ListComments(c.Request.Context(), groupID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"comments": comments})
}
