package services_test

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos"
	"github.com/fypms/backend/internal/data/repos/testutil"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/apierr"
	"github.com/fypms/backend/internal/pkg/ctxutil"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/services"
	"github.com/fypms/backend/internal/storage"
)

// env wires every repository against one rollback transaction so each test
// starts from an empty database.
type env struct {
	tx  *gorm.DB
	log *logger.Logger

	userRepo         repos.UserRepo
	userTokenRepo    repos.UserTokenRepo
	studentRepo      repos.StudentRepo
	supRepo          repos.SupervisorRepo
	committeeRepo    repos.CommitteeMemberRepo
	panelRepo        repos.PanelRepo
	categoryRepo     repos.ProjectCategoryRepo
	projectRepo      repos.ProjectRepo
	proposalRepo     repos.ProjectProposalRepo
	templateRepo     repos.DocumentTemplateRepo
	groupRepo        repos.GroupRepo
	groupCommentRepo repos.GroupCommentRepo
	supvRepo         repos.SupervisionRepo
	formRepo         repos.EvaluationFormRepo
	docRepo          repos.DocumentRepo
	supvCommentRepo  repos.SupervisionCommentRepo
	chatRepo         repos.ChatMessageRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	return &env{
		tx:  tx,
		log: log,

		userRepo:         repos.NewUserRepo(tx, log),
		userTokenRepo:    repos.NewUserTokenRepo(tx, log),
		studentRepo:      repos.NewStudentRepo(tx, log),
		supRepo:          repos.NewSupervisorRepo(tx, log),
		committeeRepo:    repos.NewCommitteeMemberRepo(tx, log),
		panelRepo:        repos.NewPanelRepo(tx, log),
		categoryRepo:     repos.NewProjectCategoryRepo(tx, log),
		projectRepo:      repos.NewProjectRepo(tx, log),
		proposalRepo:     repos.NewProjectProposalRepo(tx, log),
		templateRepo:     repos.NewDocumentTemplateRepo(tx, log),
		groupRepo:        repos.NewGroupRepo(tx, log),
		groupCommentRepo: repos.NewGroupCommentRepo(tx, log),
		supvRepo:         repos.NewSupervisionRepo(tx, log),
		formRepo:         repos.NewEvaluationFormRepo(tx, log),
		docRepo:          repos.NewDocumentRepo(tx, log),
		supvCommentRepo:  repos.NewSupervisionCommentRepo(tx, log),
		chatRepo:         repos.NewChatMessageRepo(tx, log),
	}
}

func (e *env) groupService() services.GroupService {
	return services.NewGroupService(e.tx, e.log, e.groupRepo, e.groupCommentRepo, e.studentRepo, e.categoryRepo)
}

func (e *env) supervisionService() services.SupervisionService {
	return services.NewSupervisionService(e.tx, e.log, e.supvRepo, e.formRepo, e.supvCommentRepo, e.groupRepo, e.studentRepo, e.supRepo, e.projectRepo)
}

func (e *env) evaluationService() services.EvaluationService {
	return services.NewEvaluationService(e.tx, e.log, e.formRepo, e.supvRepo, e.studentRepo, e.supRepo)
}

func (e *env) documentService(t *testing.T) services.DocumentService {
	t.Helper()
	store, err := storage.NewLocalMediaStore(t.TempDir(), e.log)
	if err != nil {
		t.Fatalf("media store: %v", err)
	}
	return services.NewDocumentService(e.tx, e.log, e.docRepo, e.supvRepo, e.studentRepo, e.supRepo, store)
}

func (e *env) authService() services.AuthService {
	return services.NewAuthService(
		e.tx, e.log,
		e.userRepo, e.userTokenRepo, e.studentRepo, e.supRepo, e.committeeRepo, e.categoryRepo,
		nil,
		"test-secret", 15*time.Minute, 24*time.Hour,
	)
}

func (e *env) rosterService() services.RosterService {
	return services.NewRosterService(e.tx, e.log, e.userRepo, e.studentRepo, e.supRepo, e.committeeRepo, e.panelRepo, e.categoryRepo)
}

func asUser(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID: u.ID,
		Role:   u.Role,
	})
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if got := apierr.From(err).Status; got != status {
		t.Fatalf("error status = %d (%v), want %d", got, err, status)
	}
}
