package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/storage"
)

type FilesHandler struct {
	log   *logger.Logger
	store storage.MediaStore
}

func NewFilesHandler(log *logger.Logger, store storage.MediaStore) *FilesHandler {
	handlerLogger := log.With("handler", "FilesHandler")
	return &FilesHandler{log: handlerLogger, store: store}
}

func validBucket(bucket string) bool {
	switch bucket {
	case storage.BucketDocuments, storage.BucketTemplates, storage.BucketProposals, storage.BucketAvatars:
		return true
	}
	return false
}

// GET /files/:bucket/:filename
//
// Stored names are opaque generated keys, so the only checks needed are a
// known bucket and a plain filename.
func (h *FilesHandler) Download(c *gin.Context) {
	bucket := c.Param("bucket")
	filename := c.Param("filename")
	if !validBucket(bucket) {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("unknown bucket %q", bucket))
		return
	}
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		response.RespondError(c, http.StatusBadRequest, "validation", fmt.Errorf("invalid filename"))
		return
	}

	key := bucket + "/" + filename
	if !h.store.Exists(key) {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("file not found"))
		return
	}
	f, err := h.store.Open(key)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, f); err != nil {
		h.log.Warn("file download interrupted", "key", key, "error", err)
	}
}
