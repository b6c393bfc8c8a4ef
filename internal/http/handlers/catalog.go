package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fypms/backend/internal/data/repos"
	"github.com/fypms/backend/internal/http/response"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
)

const maxTemplateBytes = 32 << 20

type CatalogHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalogService services.CatalogService) *CatalogHandler {
	handlerLogger := log.With("handler", "CatalogHandler")
	return &CatalogHandler{log: handlerLogger, catalogService: catalogService}
}

// GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": categories})
}

// GET /categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	category, err := h.catalogService.GetCategory(c.Request.Context(), categoryID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": category})
}

// POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	category, err := h.catalogService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"category": category})
}

// GET /panels
func (h *CatalogHandler) ListPanels(c *gin.Context) {
	panels, err := h.catalogService.ListPanels(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"panels": panels})
}

// GET /panels/:id
func (h *CatalogHandler) GetPanel(c *gin.Context) {
	panelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	detail, err := h.catalogService.GetPanel(c.Request.Context(), panelID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"panel": detail.Panel, "members": detail.Members})
}

// POST /panels
func (h *CatalogHandler) CreatePanel(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	panel, err := h.catalogService.CreatePanel(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"panel": panel})
}

// GET /projects
func (h *CatalogHandler) ListProjects(c *gin.Context) {
	var filter repos.ProjectFilter
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("panel_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		filter.PanelID = &id
	}
	projects, err := h.catalogService.ListProjects(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"projects": projects})
}

// GET /projects/:id
func (h *CatalogHandler) GetProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	project, err := h.catalogService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"project": project})
}

// GET /students/:id
func (h *CatalogHandler) GetStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	student, err := h.catalogService.GetStudent(c.Request.Context(), studentID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"student": student})
}

// GET /committee-members
func (h *CatalogHandler) ListCommitteeMembers(c *gin.Context) {
	var panelID *uuid.UUID
	if raw := c.Query("panel_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		panelID = &id
	}
	members, err := h.catalogService.ListCommitteeMembers(c.Request.Context(), panelID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"members": members})
}

// GET /committee-members/:id
func (h *CatalogHandler) GetCommitteeMember(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	member, err := h.catalogService.GetCommitteeMember(c.Request.Context(), memberID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"member": member})
}

// POST /projects
func (h *CatalogHandler) CreateProject(c *gin.Context) {
	var input services.CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	project, err := h.catalogService.CreateProject(c.Request.Context(), input)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"project": project})
}

// POST /proposals
func (h *CatalogHandler) CreateProposal(c *gin.Context) {
	input := services.CreateProposalInput{
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		ProposalLink: c.PostForm("proposal_link"),
	}

	var (
		filename string
		file     io.Reader
	)
	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		defer f.Close()
		filename = fileHeader.Filename
		file = io.LimitReader(f, maxDocumentBytes)
	}

	proposal, err := h.catalogService.CreateProposal(c.Request.Context(), input, filename, file)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"proposal": proposal})
}

// GET /proposals
func (h *CatalogHandler) ListProposals(c *gin.Context) {
	proposals, err := h.catalogService.ListProposals(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"proposals": proposals})
}

// POST /templates
func (h *CatalogHandler) UploadTemplate(c *gin.Context) {
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

	template, err := h.catalogService.UploadTemplate(
		c.Request.Context(),
		c.PostForm("template_type"),
		c.PostForm("semester"),
		c.PostForm("title"),
		fileHeader.Filename,
		io.LimitReader(f, maxTemplateBytes),
	)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"template": template})
}

// GET /templates
func (h *CatalogHandler) ListTemplates(c *gin.Context) {
	filter := repos.TemplateFilter{
		TemplateType: c.Query("template_type"),
		Semester:     c.Query("semester"),
	}
	templates, err := h.catalogService.ListTemplates(c.Request.Context(), filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"templates": templates})
}
