package main

import (
	"context"
	"os"
	"time"

	"github.com/fypms/backend/internal/app"
	"github.com/fypms/backend/internal/data/db"
	"github.com/fypms/backend/internal/data/repos"
	httpapi "github.com/fypms/backend/internal/http"
	"github.com/fypms/backend/internal/http/handlers"
	"github.com/fypms/backend/internal/http/middleware"
	"github.com/fypms/backend/internal/observability"
	"github.com/fypms/backend/internal/pkg/envutil"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
	"github.com/fypms/backend/internal/storage"
)

func main() {
	log, err := logger.New(envutil.GetEnv("LOG_MODE", "dev", nil))
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)

	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "fypms",
		Environment: envutil.GetEnv("ENVIRONMENT", "dev", log),
		Version:     envutil.GetEnv("SERVICE_VERSION", "dev", log),
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(ctx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	gormDB := pg.DB()
	if err := db.AutoMigrateAll(gormDB); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	store, err := storage.NewLocalMediaStore(cfg.MediaRoot, log)
	if err != nil {
		log.Fatal("failed to initialize media store", "error", err)
	}

	userRepo := repos.NewUserRepo(gormDB, log)
	userTokenRepo := repos.NewUserTokenRepo(gormDB, log)
	studentRepo := repos.NewStudentRepo(gormDB, log)
	supRepo := repos.NewSupervisorRepo(gormDB, log)
	committeeRepo := repos.NewCommitteeMemberRepo(gormDB, log)
	panelRepo := repos.NewPanelRepo(gormDB, log)
	categoryRepo := repos.NewProjectCategoryRepo(gormDB, log)
	projectRepo := repos.NewProjectRepo(gormDB, log)
	proposalRepo := repos.NewProjectProposalRepo(gormDB, log)
	templateRepo := repos.NewDocumentTemplateRepo(gormDB, log)
	groupRepo := repos.NewGroupRepo(gormDB, log)
	groupCommentRepo := repos.NewGroupCommentRepo(gormDB, log)
	supvRepo := repos.NewSupervisionRepo(gormDB, log)
	formRepo := repos.NewEvaluationFormRepo(gormDB, log)
	docRepo := repos.NewDocumentRepo(gormDB, log)
	supvCommentRepo := repos.NewSupervisionCommentRepo(gormDB, log)
	chatRepo := repos.NewChatMessageRepo(gormDB, log)

	var avatarService services.AvatarService
	if cfg.AvatarFontPath != "" {
		avatarService, err = services.NewAvatarService(log, store, cfg.AvatarFontPath)
		if err != nil {
			log.Warn("avatar service disabled", "error", err)
			avatarService = nil
		}
	}

	authService := services.NewAuthService(
		gormDB, log,
		userRepo, userTokenRepo, studentRepo, supRepo, committeeRepo, categoryRepo,
		avatarService,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	accountService := services.NewAccountService(gormDB, log, userRepo, studentRepo, supRepo, committeeRepo, avatarService)
	groupService := services.NewGroupService(gormDB, log, groupRepo, groupCommentRepo, studentRepo, categoryRepo)
	supvService := services.NewSupervisionService(gormDB, log, supvRepo, formRepo, supvCommentRepo, groupRepo, studentRepo, supRepo, projectRepo)
	evalService := services.NewEvaluationService(gormDB, log, formRepo, supvRepo, studentRepo, supRepo)
	docService := services.NewDocumentService(gormDB, log, docRepo, supvRepo, studentRepo, supRepo, store)
	chatService := services.NewChatService(gormDB, log, chatRepo, supvRepo, studentRepo, supRepo)
	catalogService := services.NewCatalogService(gormDB, log, categoryRepo, panelRepo, projectRepo, proposalRepo, templateRepo, studentRepo, committeeRepo, store)
	rosterService := services.NewRosterService(gormDB, log, userRepo, studentRepo, supRepo, committeeRepo, panelRepo, categoryRepo)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.NewAuthMiddleware(log, authService),

		AuthHandler:        handlers.NewAuthHandler(log, authService),
		AccountHandler:     handlers.NewAccountHandler(log, accountService),
		GroupHandler:       handlers.NewGroupHandler(log, groupService),
		SupervisionHandler: handlers.NewSupervisionHandler(log, supvService),
		EvaluationHandler:  handlers.NewEvaluationHandler(log, evalService),
		DocumentHandler:    handlers.NewDocumentHandler(log, docService),
		ChatHandler:        handlers.NewChatHandler(log, chatService),
		CatalogHandler:     handlers.NewCatalogHandler(log, catalogService),
		RosterHandler:      handlers.NewRosterHandler(log, rosterService),
		FilesHandler:       handlers.NewFilesHandler(log, store),
	})

	log.Info("server listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
