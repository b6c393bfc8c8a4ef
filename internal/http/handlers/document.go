package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
)

const maxDocumentBytes = 64 << 20

type DocumentHandler struct {
	log        *logger.Logger
	docService services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, docService services.DocumentService) *DocumentHandler {
	handlerLogger := log.With("handler", "DocumentHandler")
	return &DocumentHandler{log: handlerLogger, docService: docService}
}

// POST /supervisions/:id/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	supervisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	documentType := c.PostForm("document_type")
	title := c.PostForm("title")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	defer f.Close()

	doc, err := h.docService.Upload(
		c.Request.Context(),
		supervisionID,
		documentType,
		title,
		fileHeader.Filename,
		io.LimitReader(f, maxDocumentBytes),
	)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"document": doc})
}

// GET /supervisions/:id/documents
func (h *DocumentHandler) List(c *gin.Context) {
	supervisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	docs, err := h.docService.List(c.Request.Context(), supervisionID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"documents": docs})
}

// PATCH /documents/:id
func (h *DocumentHandler) Transition(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
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
	doc, err := h.docService.Transition(c.Request.Context(), documentID, req.Status)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"document": doc})
}

// GET /documents/:id/file
func (h *DocumentHandler) Download(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	doc, rc, err := h.docService.Open(c.Request.Context(), documentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	defer rc.Close()

	name := doc.Title + filepath.Ext(doc.StoredFile)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn("document stream interrupted", "document_id", documentID.String(), "error", err)
	}
}
