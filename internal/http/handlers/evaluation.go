package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
)

type EvaluationHandler struct {
	log         *logger.Logger
	evalService services.EvaluationService
}

func NewEvaluationHandler(log *logger.Logger, evalService services.EvaluationService) *EvaluationHandler {
	handlerLogger := log.With("handler", "EvaluationHandler")
	return &EvaluationHandler{log: handlerLogger, evalService: evalService}
}

// GET /supervisions/:id/forms
func (h *EvaluationHandler) ListForms(c *gin.Context) {
	supervisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	forms, err := h.evalService.ListForms(c.Request.Context(), supervisionID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"forms": forms})
}

// GET /supervisions/:id/forms/:formType
func (h *EvaluationHandler) GetForm(c *gin.Context) {
	supervisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	form, err := h.evalService.GetForm(c.Request.Context(), supervisionID, c.Param("formType"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"form": form})
}

// PUT /supervisions/:id/forms/:formType
func (h *EvaluationHandler) UpdateForm(c *gin.Context) {
	supervisionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	var input services.UpdateEvaluationFormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	form, err := h.evalService.UpdateForm(c.Request.Context(), supervisionID, c.Param("formType"), input)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"form": form})
}
