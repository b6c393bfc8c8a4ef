package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
)

const maxRosterBytes = 16 << 20

type RosterHandler struct {
	log           *logger.Logger
	rosterService services.RosterService
}

func NewRosterHandler(log *logger.Logger, rosterService services.RosterService) *RosterHandler {
	handlerLogger := log.With("handler", "RosterHandler")
	return &RosterHandler{log: handlerLogger, rosterService: rosterService}
}

func (h *RosterHandler) importFunc(entity string) func(context.Context, io.Reader) (*services.RosterImportResult, error) {
	switch entity {
	case "students":
		return h.rosterService.ImportStudents
	case "supervisors":
		return h.rosterService.ImportSupervisors
	case "committee-members":
		return h.rosterService.ImportCommitteeMembers
	case "categories":
		return h.rosterService.ImportCategories
	}
	return nil
}

func (h *RosterHandler) exportFunc(entity string) func(context.Context, io.Writer) error {
	switch entity {
	case "students":
		return h.rosterService.ExportStudents
	case "supervisors":
		return h.rosterService.ExportSupervisors
	case "committee-members":
		return h.rosterService.ExportCommitteeMembers
	case "categories":
		return h.rosterService.ExportCategories
	}
	return nil
}

// POST /roster/:entity
func (h *RosterHandler) Import(c *gin.Context) {
	entity := c.Param("entity")
	importRoster := h.importFunc(entity)
	if importRoster == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("unknown roster entity %q", entity))
		return
	}
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

	result, err := importRoster(c.Request.Context(), io.LimitReader(f, maxRosterBytes))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"result": result})
}

// GET /roster/:entity/export
func (h *RosterHandler) Export(c *gin.Context) {
	entity := c.Param("entity")
	exportRoster := h.exportFunc(entity)
	if exportRoster == nil {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("unknown roster entity %q", entity))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entity+".csv"))
	c.Header("Content-Type", "text/csv")
	if err := exportRoster(c.Request.Context(), c.Writer); err != nil {
		if !c.Writer.Written() {
			response.RespondServiceError(c, err)
			return
		}
		h.log.Warn("roster export interrupted", "entity", entity, "error", err)
	}
}
