package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/http/handlers"
	"github.com/fypms/backend/internal/http/middleware"
	"github.com/fypms/backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *middleware.AuthMiddleware

	AuthHandler        *handlers.AuthHandler
	AccountHandler     *handlers.AccountHandler
	GroupHandler       *handlers.GroupHandler
	SupervisionHandler *handlers.SupervisionHandler
	EvaluationHandler  *handlers.EvaluationHandler
	DocumentHandler    *handlers.DocumentHandler
	ChatHandler        *handlers.ChatHandler
	CatalogHandler     *handlers.CatalogHandler
	RosterHandler      *handlers.RosterHandler
	FilesHandler       *handlers.FilesHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(otelgin.Middleware("fypms"))

	r.GET("/health", handlers.Health)

	api := r.Group("/api")

	if cfg.AuthHandler != nil {
		api.POST("/login/student", cfg.AuthHandler.LoginStudent)
		api.POST("/login/supervisor", cfg.AuthHandler.LoginSupervisor)
		api.POST("/login/committee", cfg.AuthHandler.LoginCommitteeMember)
		api.POST("/register/student", cfg.AuthHandler.RegisterStudent)
		api.POST("/register/supervisor", cfg.AuthHandler.RegisterSupervisor)
		api.POST("/register/committee", cfg.AuthHandler.RegisterCommitteeMember)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	committee := protected.Group("/")
	if cfg.AuthMiddleware != nil {
		committee.Use(cfg.AuthMiddleware.RequireRole(types.RoleCommitteeMember))
	}

	if cfg.AuthHandler != nil {
		protected.POST("/logout", cfg.AuthHandler.Logout)
		protected.POST("/password", cfg.AuthHandler.ChangePassword)
	}
	if cfg.AccountHandler != nil {
		protected.GET("/me", cfg.AccountHandler.Me)
		protected.PUT("/me/avatar", cfg.AccountHandler.UploadAvatar)
	}
	if cfg.GroupHandler != nil {
		protected.GET("/students", cfg.GroupHandler.ListStudents)
		protected.POST("/groups", cfg.GroupHandler.SendRequest)
		protected.GET("/groups", cfg.GroupHandler.ListMine)
		protected.GET("/groups/:id", cfg.GroupHandler.Get)
		protected.PATCH("/groups/:id", cfg.GroupHandler.Respond)
		protected.POST("/groups/:id/comments", cfg.GroupHandler.AddComment)
		protected.GET("/groups/:id/comments", cfg.GroupHandler.ListComments)
	}
	if cfg.SupervisionHandler != nil {
		protected.GET("/supervisors", cfg.SupervisionHandler.ListSupervisors)
		protected.GET("/supervisors/:id", cfg.SupervisionHandler.GetSupervisor)
		protected.POST("/supervisions", cfg.SupervisionHandler.Create)
		protected.GET("/supervisions", cfg.SupervisionHandler.List)
		protected.GET("/supervisions/:id", cfg.SupervisionHandler.Get)
		protected.PATCH("/supervisions/:id", cfg.SupervisionHandler.Respond)
		protected.POST("/groups/:id/supervision-comments", cfg.SupervisionHandler.AddComment)
		protected.GET("/groups/:id/supervision-comments", cfg.SupervisionHandler.ListComments)
	}
	if cfg.EvaluationHandler != nil {
		protected.GET("/supervisions/:id/forms", cfg.EvaluationHandler.ListForms)
		protected.GET("/supervisions/:id/forms/:formType", cfg.EvaluationHandler.GetForm)
		protected.PUT("/supervisions/:id/forms/:formType", cfg.EvaluationHandler.UpdateForm)
	}
	if cfg.DocumentHandler != nil {
		protected.POST("/supervisions/:id/documents", cfg.DocumentHandler.Upload)
		protected.GET("/supervisions/:id/documents", cfg.DocumentHandler.List)
		protected.PATCH("/documents/:id", cfg.DocumentHandler.Transition)
		protected.GET("/documents/:id/file", cfg.DocumentHandler.Download)
	}
	if cfg.ChatHandler != nil {
		protected.POST("/supervisions/:id/messages", cfg.ChatHandler.Send)
		protected.GET("/supervisions/:id/messages", cfg.ChatHandler.List)
	}
	if cfg.CatalogHandler != nil {
		protected.GET("/students/:id", cfg.CatalogHandler.GetStudent)
		protected.GET("/committee-members", cfg.CatalogHandler.ListCommitteeMembers)
		protected.GET("/committee-members/:id", cfg.CatalogHandler.GetCommitteeMember)
		protected.GET("/categories", cfg.CatalogHandler.ListCategories)
		protected.GET("/categories/:id", cfg.CatalogHandler.GetCategory)
		committee.POST("/categories", cfg.CatalogHandler.CreateCategory)
		protected.GET("/panels", cfg.CatalogHandler.ListPanels)
		protected.GET("/panels/:id", cfg.CatalogHandler.GetPanel)
		committee.POST("/panels", cfg.CatalogHandler.CreatePanel)
		protected.GET("/projects", cfg.CatalogHandler.ListProjects)
		protected.GET("/projects/:id", cfg.CatalogHandler.GetProject)
		committee.POST("/projects", cfg.CatalogHandler.CreateProject)
		protected.GET("/proposals", cfg.CatalogHandler.ListProposals)
		protected.POST("/proposals", cfg.CatalogHandler.CreateProposal)
		protected.GET("/templates", cfg.CatalogHandler.ListTemplates)
		committee.POST("/templates", cfg.CatalogHandler.UploadTemplate)
	}
	if cfg.RosterHandler != nil {
		committee.POST("/roster/:entity", cfg.RosterHandler.Import)
		committee.GET("/roster/:entity/export", cfg.RosterHandler.Export)
	}
	if cfg.FilesHandler != nil {
		protected.GET("/files/:bucket/:filename", cfg.FilesHandler.Download)
	}

	return r
}
